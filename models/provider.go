// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ProviderLink is a user's connection to one aggregator item
// (a set of accounts at a single institution).
type ProviderLink struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	ItemID string `json:"itemId"`

	Institution string `json:"institution,omitempty"`

	// AccessToken is the aggregator credential. It is kept encrypted at
	// rest and never returned to clients.
	AccessToken string `json:"-"`

	// LastIngestedAt is the server cursor of the last successful ingestion.
	LastIngestedAt int64     `json:"lastIngestedAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LinkRequest exchanges a short-lived public token for a provider link.
type LinkRequest struct {
	PublicToken string `json:"publicToken" validate:"required"`
	Institution string `json:"institution" validate:"max=255"`
}

// ProviderItem is the result of a public token exchange.
type ProviderItem struct {
	ItemID      string
	AccessToken string
}

// ProviderBalance mirrors the aggregator's balance object.
type ProviderBalance struct {
	Available *float64 `json:"available"`
	Current   *float64 `json:"current"`
	Limit     *float64 `json:"limit"`
	Currency  string   `json:"iso_currency_code"`
}

// ProviderAccount is one account as reported by the aggregator.
type ProviderAccount struct {
	AccountID    string          `json:"account_id"`
	Name         string          `json:"name"`
	OfficialName string          `json:"official_name"`
	Mask         string          `json:"mask"`
	Type         string          `json:"type"`
	Subtype      string          `json:"subtype"`
	Balances     ProviderBalance `json:"balances"`
}

// ProviderTransaction is one posted or pending transaction as reported by
// the aggregator.
type ProviderTransaction struct {
	TransactionID string   `json:"transaction_id"`
	AccountID     string   `json:"account_id"`
	Amount        float64  `json:"amount"`
	Currency      string   `json:"iso_currency_code"`
	Date          string   `json:"date"`
	Name          string   `json:"name"`
	MerchantName  string   `json:"merchant_name"`
	Category      []string `json:"category"`
	Pending       bool     `json:"pending"`
}

// ProviderSnapshot is everything fetched from the aggregator for one link
// before anything is written locally.
type ProviderSnapshot struct {
	Accounts     []ProviderAccount
	Transactions []ProviderTransaction
}

// IngestionReport summarizes one ingestion run of a provider link.
type IngestionReport struct {
	LinkID    int64          `json:"linkId"`
	ItemID    string         `json:"itemId"`
	Fetched   int            `json:"fetched"`
	Submitted int            `json:"submitted"`
	Skipped   int            `json:"skipped"`
	Conflicts int            `json:"conflicts"`
	Cursor    int64          `json:"cursor"`
	Rounds    []SyncResponse `json:"-"`
}
