// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the runtime of the offline-first CLI client.
//
// It wires the local SQLite store, the server adapter and the client
// services into one process, and renders their results for the terminal.
package client
