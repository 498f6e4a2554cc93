package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"betbingo-backend/internal/models"
	"betbingo-backend/internal/session"
)

type fakeIdentity struct {
	mu         sync.Mutex
	profile    *models.UserProfile
	signInErr  error
	signOutErr error
	signInGate chan struct{} // when set, SignIn blocks until closed
	started    chan struct{}
	signOuts   []string
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*models.UserProfile, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.signInGate != nil {
		<-f.signInGate
	}
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.profile, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context, userID string) error {
	f.mu.Lock()
	f.signOuts = append(f.signOuts, userID)
	f.mu.Unlock()
	return f.signOutErr
}

type fakeStore struct {
	mu    sync.Mutex
	users []*models.UserProfile
	games []*models.GameSession
	txs   []*models.Transaction
}

func (s *fakeStore) SaveUserRecord(profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, profile)
	return nil
}

func (s *fakeStore) SaveGameRecord(game *models.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append(s.games, game)
	return nil
}

func (s *fakeStore) SaveTransaction(tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
	return nil
}

func TestCoordinatorLogin(t *testing.T) {
	identity := &fakeIdentity{profile: testProfile("u1", "55", 160)}
	coord := session.NewSessionCoordinator(identity, nil, nil)

	if err := coord.Login(context.Background(), "u1@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	snap := coord.Snapshot()
	if !snap.IsAuthenticated {
		t.Fatal("login should authenticate the session")
	}
	if !snap.Balance.Equal(decimal.RequireFromString("55")) || snap.Gems != 160 {
		t.Errorf("wallet not seeded from profile: %s / %d", snap.Balance, snap.Gems)
	}
}

func TestCoordinatorLoginError(t *testing.T) {
	wantErr := errors.New("invalid email or password")
	identity := &fakeIdentity{signInErr: wantErr}
	coord := session.NewSessionCoordinator(identity, nil, nil)

	if err := coord.Login(context.Background(), "u1@example.com", "wrong"); !errors.Is(err, wantErr) {
		t.Fatalf("expected sign-in error to bubble, got %v", err)
	}
	if coord.Snapshot().IsAuthenticated {
		t.Error("failed login should leave the session unauthenticated")
	}
}

func TestCoordinatorLogoutSwallowsRemoteFailure(t *testing.T) {
	identity := &fakeIdentity{
		profile:    testProfile("u1", "55", 160),
		signOutErr: errors.New("identity service unreachable"),
	}
	coord := session.NewSessionCoordinator(identity, nil, nil)

	if err := coord.Login(context.Background(), "u1@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := coord.Logout(context.Background()); err != nil {
		t.Fatalf("logout must always succeed locally, got %v", err)
	}

	snap := coord.Snapshot()
	if snap.IsAuthenticated || !snap.Balance.Equal(decimal.Zero) || snap.Gems != 0 {
		t.Error("logout should clear profile, balance and gems")
	}
	if snap.CurrentGame != nil || len(snap.GameHistory) != 0 {
		t.Error("logout should clear game state")
	}
	if len(identity.signOuts) != 1 {
		t.Errorf("remote sign-out attempts = %d, want 1", len(identity.signOuts))
	}
}

// A login that resolves after an intervening logout must not repopulate
// the session: the session-change wins over the stale response.
func TestCoordinatorStaleLoginDiscarded(t *testing.T) {
	identity := &fakeIdentity{
		profile:    testProfile("u1", "55", 160),
		signInGate: make(chan struct{}),
		started:    make(chan struct{}),
	}
	coord := session.NewSessionCoordinator(identity, nil, nil)

	done := make(chan error, 1)
	go func() {
		done <- coord.Login(context.Background(), "u1@example.com", "secret")
	}()

	<-identity.started
	if err := coord.Logout(context.Background()); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	close(identity.signInGate)
	if err := <-done; err != nil {
		t.Fatalf("stale login should resolve without error, got %v", err)
	}

	snap := coord.Snapshot()
	if snap.IsAuthenticated {
		t.Fatal("stale login response must not repopulate the session")
	}
	if !snap.Balance.Equal(decimal.Zero) || snap.Gems != 0 {
		t.Errorf("stale login leaked wallet state: %s / %d", snap.Balance, snap.Gems)
	}
}

func TestCoordinatorSessionChange(t *testing.T) {
	coord := session.NewSessionCoordinator(&fakeIdentity{}, nil, nil)

	coord.HandleSessionChange(testProfile("u1", "55", 160))
	if !coord.Snapshot().IsAuthenticated {
		t.Fatal("session-change with a profile should populate the session")
	}

	coord.HandleSessionChange(nil)
	snap := coord.Snapshot()
	if snap.IsAuthenticated || !snap.Balance.Equal(decimal.Zero) {
		t.Error("session-change with no session should clear the wallet")
	}
}

func TestCoordinatorWelcomeBonus(t *testing.T) {
	profile := testProfile("u1", "55.00", 160)
	profile.FirstLogin = true

	store := &fakeStore{}
	notifier := &captureNotifier{}
	coord := session.NewSessionCoordinator(&fakeIdentity{}, notifier, store)
	coord.HandleSessionChange(profile)

	if len(store.users) != 1 {
		t.Fatalf("user records persisted = %d, want 1", len(store.users))
	}
	if len(store.txs) != 1 || store.txs[0].Type != models.TransactionTypeBonus {
		t.Fatalf("expected one bonus transaction, got %+v", store.txs)
	}
	if !store.txs[0].Amount.Equal(decimal.RequireFromString("55.00")) {
		t.Errorf("bonus amount = %s, want 55.00", store.txs[0].Amount)
	}

	var welcomed bool
	for _, n := range notifier.notes {
		if n.Type == session.NotificationSession {
			welcomed = true
		}
	}
	if !welcomed {
		t.Error("first login should emit a welcome notification")
	}

	// Re-adopting the same profile must not award the bonus again.
	coord.HandleSessionChange(profile)
	if len(store.txs) != 1 {
		t.Errorf("bonus recorded %d times, want once", len(store.txs))
	}
}

func TestCoordinatorRequiresAuthentication(t *testing.T) {
	coord := session.NewSessionCoordinator(&fakeIdentity{}, nil, nil)

	if err := coord.UpdateBalance(decimal.NewFromInt(10)); !errors.Is(err, session.ErrUnauthenticated) {
		t.Errorf("UpdateBalance: expected ErrUnauthenticated, got %v", err)
	}
	if err := coord.UpdateGems(5); !errors.Is(err, session.ErrUnauthenticated) {
		t.Errorf("UpdateGems: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := coord.StartGame(models.GameTypeBingo); !errors.Is(err, session.ErrUnauthenticated) {
		t.Errorf("StartGame: expected ErrUnauthenticated, got %v", err)
	}
	if _, _, err := coord.EndGame(10); !errors.Is(err, session.ErrUnauthenticated) {
		t.Errorf("EndGame: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := coord.AuthorizeEntry(testOffer()); !errors.Is(err, session.ErrUnauthenticated) {
		t.Errorf("AuthorizeEntry: expected ErrUnauthenticated, got %v", err)
	}
}

func TestCoordinatorUpdateBalanceSignedDelta(t *testing.T) {
	coord := session.NewSessionCoordinator(&fakeIdentity{}, nil, nil)
	coord.HandleSessionChange(testProfile("u1", "50", 0))

	if err := coord.UpdateBalance(decimal.RequireFromString("12.50")); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if err := coord.UpdateBalance(decimal.RequireFromString("-2.50")); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if err := coord.UpdateBalance(decimal.RequireFromString("-100")); !errors.Is(err, session.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := coord.Snapshot().Balance; !got.Equal(decimal.RequireFromString("60")) {
		t.Errorf("balance = %s, want 60", got)
	}
}

func TestCoordinatorEntryFlow(t *testing.T) {
	store := &fakeStore{}
	notifier := &captureNotifier{}
	coord := session.NewSessionCoordinator(&fakeIdentity{}, notifier, store)
	coord.HandleSessionChange(testProfile("u1", "20", 0))

	entry, err := coord.AuthorizeEntry(testOffer())
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	game, _, err := coord.ConfirmEntry(entry.Token)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	snap := coord.Snapshot()
	if !snap.Balance.Equal(decimal.RequireFromString("15")) {
		t.Errorf("balance = %s, want 15", snap.Balance)
	}
	if snap.CurrentGame == nil || snap.CurrentGame.ID != game.ID {
		t.Error("confirmed entry should show as the current game")
	}

	var joined bool
	for _, n := range notifier.notes {
		if n.Type == session.NotificationJoined {
			joined = true
		}
	}
	if !joined {
		t.Error("confirm should emit a joined notification")
	}

	if len(store.txs) != 1 || store.txs[0].Type != models.TransactionTypeLoss {
		t.Errorf("confirm should record one loss transaction, got %+v", store.txs)
	}
	if len(store.games) == 0 {
		t.Error("confirm should persist the game record")
	}
}

func TestCoordinatorDepositAndWithdraw(t *testing.T) {
	store := &fakeStore{}
	coord := session.NewSessionCoordinator(&fakeIdentity{}, nil, store)
	coord.HandleSessionChange(testProfile("u1", "10", 0))

	if err := coord.Deposit(decimal.RequireFromString("25"), "paypal"); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if err := coord.Withdraw(decimal.RequireFromString("30"), "paypal"); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if err := coord.Withdraw(decimal.RequireFromString("100"), "paypal"); !errors.Is(err, session.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := coord.Snapshot().Balance; !got.Equal(decimal.RequireFromString("5")) {
		t.Errorf("balance = %s, want 5", got)
	}

	if len(store.txs) != 2 {
		t.Fatalf("transactions recorded = %d, want 2", len(store.txs))
	}
	if store.txs[0].Type != models.TransactionTypeDeposit || store.txs[1].Type != models.TransactionTypeWithdrawal {
		t.Errorf("unexpected transaction types: %s, %s", store.txs[0].Type, store.txs[1].Type)
	}
}

func TestRegistryLoginAndSessionChange(t *testing.T) {
	identity := &fakeIdentity{profile: testProfile("u1", "55", 160)}
	registry := session.NewRegistry(identity, nil, nil)

	coord, profile, err := registry.Login(context.Background(), "u1@example.com", "secret")
	if err != nil {
		t.Fatalf("registry login failed: %v", err)
	}
	if profile.ID != "u1" {
		t.Errorf("profile ID = %s, want u1", profile.ID)
	}

	got, ok := registry.Coordinator("u1")
	if !ok || got != coord {
		t.Fatal("registry should hand back the same coordinator per user")
	}

	registry.HandleSessionChange("u1", nil)
	if coord.Snapshot().IsAuthenticated {
		t.Error("provider sign-out should clear the user's session")
	}
}
