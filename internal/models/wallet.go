package models

import "github.com/shopspring/decimal"

// WalletState is a point-in-time copy of the ledger. Mutations go through
// the session WalletLedger, never through this struct.
type WalletState struct {
	Balance decimal.Decimal `json:"balance"`
	Gems    int             `json:"gems"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
	Gems    int             `json:"gems"`
	Display string          `json:"display"`
}
