package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func GenerateGameID() string {
	return uuid.New().String()
}

func GenerateTransactionID() string {
	return fmt.Sprintf("tx_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateEntryToken() string {
	return fmt.Sprintf("entry_%s", uuid.New().String())
}

// ParseMoney turns a catalog display amount ("$5.00", "$1,000", "FREE")
// into an exact decimal. Anything else is an error; ledger code never
// guesses at display strings.
func ParseMoney(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if strings.EqualFold(raw, "free") {
		return decimal.Zero, nil
	}

	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed amount %q: %v", s, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %q", s)
	}

	return amount, nil
}

func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
