package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"betbingo-backend/internal/models"
	"betbingo-backend/internal/session"
)

func testOffer() *models.TournamentOffer {
	return &models.TournamentOffer{
		ID:         "lightning-round",
		Title:      "Lightning Round",
		Prize:      "$1,000",
		PrizePool:  decimal.NewFromInt(1000),
		Entry:      "$5.00",
		Players:    847,
		MaxPlayers: 1000,
		TimeLeft:   "2:45",
		Difficulty: models.DifficultyEasy,
		GameMode:   models.GameTypeTournament,
	}
}

func newValidator(t *testing.T, balance string) (*session.EntryValidator, *session.WalletLedger, *session.GameSessionManager) {
	t.Helper()
	ledger := session.NewWalletLedger()
	ledger.Initialize(testProfile("u1", balance, 50))
	games := session.NewGameSessionManager(ledger)
	games.SetUser("u1")
	return session.NewEntryValidator(ledger, games), ledger, games
}

func TestAuthorizeEntryUnauthenticated(t *testing.T) {
	validator, _, _ := newValidator(t, "100")

	if _, err := validator.AuthorizeEntry(nil, testOffer()); !errors.Is(err, session.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthorizeEntryMalformedOffer(t *testing.T) {
	validator, _, _ := newValidator(t, "100")

	offer := testOffer()
	offer.Entry = "five bucks"

	if _, err := validator.AuthorizeEntry(testProfile("u1", "100", 0), offer); !errors.Is(err, session.ErrMalformedOffer) {
		t.Fatalf("expected ErrMalformedOffer, got %v", err)
	}
}

func TestAuthorizeEntryInsufficientFunds(t *testing.T) {
	validator, ledger, _ := newValidator(t, "10")

	offer := testOffer()
	offer.Entry = "$15.00"

	_, err := validator.AuthorizeEntry(testProfile("u1", "10", 0), offer)
	if !errors.Is(err, session.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if !ledger.Balance().Equal(decimal.RequireFromString("10")) {
		t.Errorf("failed authorization must not debit; balance = %s", ledger.Balance())
	}
}

func TestAuthorizeEntryTournamentFull(t *testing.T) {
	// Rich wallet: the capacity gate applies regardless of balance.
	validator, _, _ := newValidator(t, "100000")

	offer := testOffer()
	offer.Players = offer.MaxPlayers

	if _, err := validator.AuthorizeEntry(testProfile("u1", "100000", 0), offer); !errors.Is(err, session.ErrTournamentFull) {
		t.Fatalf("expected ErrTournamentFull, got %v", err)
	}
}

func TestConfirmEntryCommits(t *testing.T) {
	validator, ledger, games := newValidator(t, "20")
	profile := testProfile("u1", "20", 0)

	entry, err := validator.AuthorizeEntry(profile, testOffer())
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if !entry.Fee.Equal(decimal.RequireFromString("5")) {
		t.Errorf("fee = %s, want 5", entry.Fee)
	}

	// Nothing committed yet.
	if !ledger.Balance().Equal(decimal.RequireFromString("20")) {
		t.Fatal("authorization alone must not debit")
	}

	game, _, err := validator.ConfirmEntry(entry.Token)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if !ledger.Balance().Equal(decimal.RequireFromString("15")) {
		t.Errorf("balance after confirm = %s, want 15", ledger.Balance())
	}
	if game.GameType != models.GameTypeTournament {
		t.Errorf("confirmed entry should start a %s game, got %s", models.GameTypeTournament, game.GameType)
	}
	if current := games.Current(); current == nil || current.ID != game.ID {
		t.Error("confirmed entry should leave the game active")
	}

	// Token is single-use.
	if _, _, err := validator.ConfirmEntry(entry.Token); !errors.Is(err, session.ErrUnknownEntry) {
		t.Errorf("second confirm should fail with ErrUnknownEntry, got %v", err)
	}
}

func TestConfirmEntryFreeTournament(t *testing.T) {
	validator, ledger, _ := newValidator(t, "20")

	offer := testOffer()
	offer.Entry = "FREE"

	entry, err := validator.AuthorizeEntry(testProfile("u1", "20", 0), offer)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if _, _, err := validator.ConfirmEntry(entry.Token); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if !ledger.Balance().Equal(decimal.RequireFromString("20")) {
		t.Errorf("free entry must not debit; balance = %s", ledger.Balance())
	}
}

func TestConfirmEntryWithActiveGame(t *testing.T) {
	validator, ledger, games := newValidator(t, "20")

	entry, err := validator.AuthorizeEntry(testProfile("u1", "20", 0), testOffer())
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	if _, err := games.StartGame(models.GameTypeBingo); err != nil {
		t.Fatalf("start game failed: %v", err)
	}

	if _, _, err := validator.ConfirmEntry(entry.Token); !errors.Is(err, session.ErrGameAlreadyActive) {
		t.Fatalf("expected ErrGameAlreadyActive, got %v", err)
	}
	if !ledger.Balance().Equal(decimal.RequireFromString("20")) {
		t.Errorf("rejected confirm must not debit; balance = %s", ledger.Balance())
	}
}

func TestCancelEntryIsSideEffectFree(t *testing.T) {
	validator, ledger, games := newValidator(t, "20")

	entry, err := validator.AuthorizeEntry(testProfile("u1", "20", 5), testOffer())
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	validator.CancelEntry(entry.Token)

	if !ledger.Balance().Equal(decimal.RequireFromString("20")) {
		t.Errorf("cancel changed balance to %s", ledger.Balance())
	}
	if ledger.Gems() != 50 {
		t.Errorf("cancel changed gems to %d", ledger.Gems())
	}
	if games.Current() != nil {
		t.Error("cancel should not start a game")
	}

	// Cancellation is an outcome, not a failure: the token is gone.
	if _, _, err := validator.ConfirmEntry(entry.Token); !errors.Is(err, session.ErrUnknownEntry) {
		t.Errorf("confirm after cancel should fail with ErrUnknownEntry, got %v", err)
	}

	// Cancelling an unknown token is also fine.
	validator.CancelEntry("entry_nonexistent")
}

func TestSweepExpiresPendingEntries(t *testing.T) {
	validator, _, _ := newValidator(t, "20")

	entry, err := validator.AuthorizeEntry(testProfile("u1", "20", 0), testOffer())
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	if removed := validator.Sweep(time.Minute); removed != 0 {
		t.Errorf("fresh entry swept: removed = %d", removed)
	}
	if removed := validator.Sweep(0); removed != 1 {
		t.Errorf("stale entry not swept: removed = %d", removed)
	}
	if _, _, err := validator.ConfirmEntry(entry.Token); !errors.Is(err, session.ErrUnknownEntry) {
		t.Errorf("swept token should be unknown, got %v", err)
	}
}
