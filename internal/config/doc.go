// Package config loads the server and client configuration.
//
// The server configuration ([GetStructuredConfig]) merges defaults, an
// optional JSON file, environment variables and command-line flags, in that
// order of increasing priority. The client configuration
// ([LoadClientConfig]) is read with viper.
package config
