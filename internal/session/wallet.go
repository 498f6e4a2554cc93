package session

import (
	"sync"

	"github.com/shopspring/decimal"

	"betbingo-backend/internal/models"
)

// WalletLedger owns the balance and gem count for one authenticated
// session. Every mutation runs under the ledger mutex; the
// insufficient-funds check and the decrement are a single step, so no
// reader ever observes a torn balance.
type WalletLedger struct {
	mu        sync.Mutex
	balance   decimal.Decimal
	gems      int
	profileID string
}

func NewWalletLedger() *WalletLedger {
	return &WalletLedger{balance: decimal.Zero}
}

// Initialize seeds the ledger from a login-time profile snapshot.
// Calling it again with the same profile is a no-op.
func (l *WalletLedger) Initialize(profile *models.UserProfile) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.profileID == profile.ID {
		return
	}

	l.profileID = profile.ID
	l.balance = profile.Balance
	l.gems = profile.Gems
}

func (l *WalletLedger) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balance = l.balance.Add(amount)
	return nil
}

func (l *WalletLedger) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.GreaterThan(l.balance) {
		return ErrInsufficientFunds
	}
	l.balance = l.balance.Sub(amount)
	return nil
}

func (l *WalletLedger) CreditGems(n int) error {
	if n <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.gems += n
	return nil
}

func (l *WalletLedger) SpendGems(n int) error {
	if n <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if n > l.gems {
		return ErrInsufficientGems
	}
	l.gems -= n
	return nil
}

func (l *WalletLedger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

func (l *WalletLedger) Gems() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gems
}

func (l *WalletLedger) State() models.WalletState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return models.WalletState{Balance: l.balance, Gems: l.gems}
}

// Clear zeroes the ledger on logout.
func (l *WalletLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.profileID = ""
	l.balance = decimal.Zero
	l.gems = 0
}
