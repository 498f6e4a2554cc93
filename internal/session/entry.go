package session

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"betbingo-backend/internal/models"
)

// PendingEntry is an authorized-but-uncommitted tournament entry. The
// caller either confirms it (debit + game start) or cancels it; nothing
// is mutated until confirmation.
type PendingEntry struct {
	Token     string
	Offer     *models.TournamentOffer
	Fee       decimal.Decimal
	CreatedAt time.Time
}

// EntryValidator gates monetary commitments against the wallet and the
// offer's capacity. Validation order: authentication, fee parse, funds,
// capacity. Commitment is two-phase: AuthorizeEntry hands out a token,
// ConfirmEntry commits, CancelEntry aborts with no side effects.
type EntryValidator struct {
	mu      sync.Mutex
	ledger  *WalletLedger
	games   *GameSessionManager
	pending map[string]*PendingEntry
}

func NewEntryValidator(ledger *WalletLedger, games *GameSessionManager) *EntryValidator {
	return &EntryValidator{
		ledger:  ledger,
		games:   games,
		pending: make(map[string]*PendingEntry),
	}
}

func (v *EntryValidator) AuthorizeEntry(profile *models.UserProfile, offer *models.TournamentOffer) (*PendingEntry, error) {
	if profile == nil {
		return nil, ErrUnauthenticated
	}

	fee, err := offer.EntryFee()
	if err != nil {
		return nil, ErrMalformedOffer
	}

	if v.ledger.Balance().LessThan(fee) {
		return nil, ErrInsufficientFunds
	}

	if offer.Full() {
		return nil, ErrTournamentFull
	}

	entry := &PendingEntry{
		Token:     models.GenerateEntryToken(),
		Offer:     offer,
		Fee:       fee,
		CreatedAt: time.Now(),
	}

	v.mu.Lock()
	v.pending[entry.Token] = entry
	v.mu.Unlock()

	return entry, nil
}

// ConfirmEntry commits a pending entry: the fee is debited and the
// tournament game started as one unit. The active-game check runs before
// the debit so a rejection never leaves a partial mutation behind.
func (v *EntryValidator) ConfirmEntry(token string) (*models.GameSession, *PendingEntry, error) {
	v.mu.Lock()
	entry, ok := v.pending[token]
	v.mu.Unlock()
	if !ok {
		return nil, nil, ErrUnknownEntry
	}

	if v.games.Current() != nil {
		return nil, nil, ErrGameAlreadyActive
	}

	if entry.Fee.IsPositive() {
		if err := v.ledger.Debit(entry.Fee); err != nil {
			return nil, nil, err
		}
	}

	game, err := v.games.StartGame(entry.Offer.GameMode)
	if err != nil {
		// Checked above; give the fee back rather than strand it.
		if entry.Fee.IsPositive() {
			v.ledger.Credit(entry.Fee)
		}
		return nil, nil, err
	}

	v.mu.Lock()
	delete(v.pending, token)
	v.mu.Unlock()

	return game, entry, nil
}

// CancelEntry drops a pending entry. Declining is a cancellation, not a
// failure: no error, no side effects, even for an unknown token.
func (v *EntryValidator) CancelEntry(token string) {
	v.mu.Lock()
	delete(v.pending, token)
	v.mu.Unlock()
}

// Sweep drops pending entries older than maxAge and reports how many.
func (v *EntryValidator) Sweep(maxAge time.Duration) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	removed := 0
	for token, entry := range v.pending {
		if time.Since(entry.CreatedAt) > maxAge {
			delete(v.pending, token)
			removed++
		}
	}
	return removed
}

func (v *EntryValidator) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = make(map[string]*PendingEntry)
}
