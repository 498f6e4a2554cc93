package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"betbingo-backend/internal/models"
)

// Identity is the slice of the identity gateway the coordinator needs.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (*models.UserProfile, error)
	SignOut(ctx context.Context, userID string) error
}

// Store is the reconciliation sink for persisted records. Writes are
// best-effort: a failed write is logged, never surfaced, because the
// in-memory session state is the source of truth for its lifetime.
type Store interface {
	SaveUserRecord(profile *models.UserProfile) error
	SaveGameRecord(game *models.GameSession) error
	SaveTransaction(tx *models.Transaction) error
}

// Snapshot is the unified read model handed to presentation collaborators.
type Snapshot struct {
	IsAuthenticated bool                  `json:"is_authenticated"`
	User            *models.UserProfile   `json:"user,omitempty"`
	Balance         decimal.Decimal       `json:"balance"`
	Gems            int                   `json:"gems"`
	CurrentGame     *models.GameSession   `json:"current_game,omitempty"`
	GameHistory     []*models.GameSession `json:"game_history"`
}

// SessionCoordinator is the composition root for one user session: it
// owns the mutual-exclusion domain every wallet and game-session
// mutation runs under. External identity and payment calls never hold
// the lock; only the local mutation that follows a successful response
// does. The session epoch arbitrates races: every session transition
// bumps it, and a login result carrying a stale epoch is discarded, so a
// session-change event always wins over a late-arriving login.
type SessionCoordinator struct {
	mu       sync.Mutex
	identity Identity
	notifier Notifier
	store    Store

	ledger  *WalletLedger
	games   *GameSessionManager
	entries *EntryValidator

	profile *models.UserProfile
	epoch   uint64
}

func NewSessionCoordinator(identity Identity, notifier Notifier, store Store) *SessionCoordinator {
	ledger := NewWalletLedger()
	games := NewGameSessionManager(ledger)
	games.SetNotifier(notifier)

	return &SessionCoordinator{
		identity: identity,
		notifier: notifier,
		store:    store,
		ledger:   ledger,
		games:    games,
		entries:  NewEntryValidator(ledger, games),
	}
}

// Login resolves credentials through the identity gateway and adopts the
// resulting profile, unless a session transition happened while the
// network call was in flight; the stale result is then dropped.
func (c *SessionCoordinator) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	profile, err := c.identity.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		log.Printf("discarding stale login response for %s: session changed during sign-in", profile.ID)
		return nil
	}

	c.adoptLocked(profile)
	return nil
}

// Logout tears down local session state immediately; the remote
// sign-out runs afterwards and its failure is logged, not surfaced.
func (c *SessionCoordinator) Logout(ctx context.Context) error {
	c.mu.Lock()
	var userID string
	if c.profile != nil {
		userID = c.profile.ID
	}
	c.epoch++
	c.clearLocked()
	c.mu.Unlock()

	if userID != "" {
		if err := c.identity.SignOut(ctx, userID); err != nil {
			log.Printf("remote sign-out failed for %s (local session already cleared): %v", userID, err)
		}
	}
	return nil
}

// HandleSessionChange is the identity provider's subscription target: a
// non-nil profile is a new or restored session, nil is sign-out/expiry.
func (c *SessionCoordinator) HandleSessionChange(profile *models.UserProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	if profile == nil {
		c.clearLocked()
		return
	}
	c.adoptLocked(profile)
}

// adoptLocked populates the ledger and game manager together so they
// never disagree about whether a session is active.
func (c *SessionCoordinator) adoptLocked(profile *models.UserProfile) {
	c.profile = profile
	c.ledger.Initialize(profile)
	c.games.SetUser(profile.ID)

	c.persistUser(profile)
	if profile.FirstLogin {
		c.welcomeLocked(profile)
	}
}

// welcomeLocked records and announces the starter bonus for a freshly
// provisioned profile. Runs once; Initialize is idempotent for the same
// profile, so a re-adopted session never gets here twice with state.
func (c *SessionCoordinator) welcomeLocked(profile *models.UserProfile) {
	c.persistTransaction(&models.Transaction{
		ID:          models.GenerateTransactionID(),
		UserID:      profile.ID,
		Type:        models.TransactionTypeBonus,
		Amount:      profile.Balance,
		Status:      models.TransactionStatusCompleted,
		Description: "Welcome bonus",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})

	if c.notifier != nil {
		c.notifier.Notify(profile.ID, Notification{
			Type:    NotificationSession,
			Title:   "Welcome!",
			Message: fmt.Sprintf("Your welcome bonus is ready: %s and %d gems", models.FormatMoney(profile.Balance), profile.Gems),
			Data:    map[string]any{"balance": profile.Balance, "gems": profile.Gems},
		})
	}
	profile.FirstLogin = false
}

func (c *SessionCoordinator) clearLocked() {
	c.profile = nil
	c.ledger.Clear()
	c.games.Clear()
	c.entries.Clear()
}

// UpdateBalance applies a signed delta: positive credits, negative
// debits (failing with ErrInsufficientFunds past the balance).
func (c *SessionCoordinator) UpdateBalance(delta decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil {
		return ErrUnauthenticated
	}
	switch {
	case delta.IsPositive():
		return c.ledger.Credit(delta)
	case delta.IsNegative():
		return c.ledger.Debit(delta.Neg())
	}
	return nil
}

// UpdateGems applies a signed gem delta; spending past the current
// count fails with ErrInsufficientGems.
func (c *SessionCoordinator) UpdateGems(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil {
		return ErrUnauthenticated
	}
	switch {
	case delta > 0:
		return c.ledger.CreditGems(delta)
	case delta < 0:
		return c.ledger.SpendGems(-delta)
	}
	return nil
}

func (c *SessionCoordinator) StartGame(gameType models.GameType) (*models.GameSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil {
		return nil, ErrUnauthenticated
	}

	game, err := c.games.StartGame(gameType)
	if err != nil {
		return nil, err
	}

	c.persistGame(game)
	return game, nil
}

func (c *SessionCoordinator) EndGame(score int) (*models.GameSession, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil {
		return nil, 0, ErrUnauthenticated
	}

	game, gemsEarned, err := c.games.EndGame(score)
	if err != nil {
		return nil, 0, err
	}

	c.persistGame(game)
	return game, gemsEarned, nil
}

func (c *SessionCoordinator) AuthorizeEntry(offer *models.TournamentOffer) (*PendingEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries.AuthorizeEntry(c.profile, offer)
}

// ConfirmEntry commits a previously authorized entry: debit, game start,
// joined notification, reconciliation records. The committed entry is
// returned alongside the game so callers can see which offer it was for.
func (c *SessionCoordinator) ConfirmEntry(token string) (*models.GameSession, *PendingEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil {
		return nil, nil, ErrUnauthenticated
	}

	game, entry, err := c.entries.ConfirmEntry(token)
	if err != nil {
		return nil, nil, err
	}

	if c.notifier != nil {
		c.notifier.Notify(c.profile.ID, Notification{
			Type:    NotificationJoined,
			Title:   "Tournament Joined!",
			Message: fmt.Sprintf("You're now registered for %s", entry.Offer.Title),
			Data:    map[string]any{"tournament": entry.Offer.ID, "game_id": game.ID},
		})
	}

	c.persistGame(game)
	if entry.Fee.IsPositive() {
		c.persistTransaction(&models.Transaction{
			ID:          models.GenerateTransactionID(),
			UserID:      c.profile.ID,
			Type:        models.TransactionTypeLoss,
			Amount:      entry.Fee,
			Status:      models.TransactionStatusCompleted,
			GameID:      game.ID,
			Description: fmt.Sprintf("Entry fee for %s", entry.Offer.Title),
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		})
	}

	return game, entry, nil
}

func (c *SessionCoordinator) CancelEntry(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.CancelEntry(token)
}

// Deposit credits a captured payment and records the deposit.
func (c *SessionCoordinator) Deposit(amount decimal.Decimal, method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil {
		return ErrUnauthenticated
	}
	if err := c.ledger.Credit(amount); err != nil {
		return err
	}

	c.persistTransaction(&models.Transaction{
		ID:            models.GenerateTransactionID(),
		UserID:        c.profile.ID,
		Type:          models.TransactionTypeDeposit,
		Amount:        amount,
		Status:        models.TransactionStatusCompleted,
		PaymentMethod: method,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	})
	return nil
}

// Withdraw debits the balance for a cash-out request.
func (c *SessionCoordinator) Withdraw(amount decimal.Decimal, method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil {
		return ErrUnauthenticated
	}
	if err := c.ledger.Debit(amount); err != nil {
		return err
	}

	c.persistTransaction(&models.Transaction{
		ID:            models.GenerateTransactionID(),
		UserID:        c.profile.ID,
		Type:          models.TransactionTypeWithdrawal,
		Amount:        amount,
		Status:        models.TransactionStatusPending,
		PaymentMethod: method,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	})
	return nil
}

func (c *SessionCoordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	wallet := c.ledger.State()
	return Snapshot{
		IsAuthenticated: c.profile != nil,
		User:            c.profile,
		Balance:         wallet.Balance,
		Gems:            wallet.Gems,
		CurrentGame:     c.games.Current(),
		GameHistory:     c.games.History(),
	}
}

// SweepEntries expires stale pending entries.
func (c *SessionCoordinator) SweepEntries(maxAge time.Duration) int {
	return c.entries.Sweep(maxAge)
}

func (c *SessionCoordinator) persistUser(profile *models.UserProfile) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveUserRecord(profile); err != nil {
		log.Printf("failed to persist user record %s: %v", profile.ID, err)
	}
}

func (c *SessionCoordinator) persistGame(game *models.GameSession) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveGameRecord(game); err != nil {
		log.Printf("failed to persist game %s: %v", game.ID, err)
	}
}

func (c *SessionCoordinator) persistTransaction(tx *models.Transaction) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveTransaction(tx); err != nil {
		log.Printf("failed to persist transaction %s: %v", tx.ID, err)
	}
}
