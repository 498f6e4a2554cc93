package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserProfile mirrors the identity provider's persisted user row. The
// balance/gems fields are only a login-time snapshot; once a session is
// live the WalletLedger owns them.
type UserProfile struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Username  string          `json:"username,omitempty"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Gems      int             `json:"gems"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// FirstLogin marks a freshly provisioned starter profile so the
	// session layer can record and announce the welcome bonus once.
	FirstLogin bool `json:"first_login,omitempty"`
}
