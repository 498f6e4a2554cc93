package session

import (
	"fmt"
	"sync"
	"time"

	"betbingo-backend/internal/models"

	"github.com/google/uuid"
)

// GemsPerScore is the score cost of one gem; the reward is exact integer
// floor division so displayed and credited totals never drift.
const GemsPerScore = 100

// GameSessionManager owns the single active game session for a user and
// the append-only history of completed ones, most recent first.
type GameSessionManager struct {
	mu       sync.Mutex
	userID   string
	current  *models.GameSession
	history  []*models.GameSession
	ledger   *WalletLedger
	notifier Notifier
}

func NewGameSessionManager(ledger *WalletLedger) *GameSessionManager {
	return &GameSessionManager{ledger: ledger}
}

func (m *GameSessionManager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = n
}

// SetUser binds the manager to an authenticated user. Rebinding to a
// different user drops the previous session state.
func (m *GameSessionManager) SetUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userID == userID {
		return
	}
	m.userID = userID
	m.current = nil
	m.history = nil
}

func (m *GameSessionManager) StartGame(gameType models.GameType) (*models.GameSession, error) {
	if !gameType.Valid() {
		return nil, fmt.Errorf("invalid game type: %s", gameType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, ErrGameAlreadyActive
	}

	game := &models.GameSession{
		ID:            uuid.New().String(),
		UserID:        m.userID,
		GameType:      gameType,
		Status:        models.GameStatusActive,
		Score:         0,
		NumbersCalled: []int{},
		BingoLines:    0,
		CreatedAt:     time.Now(),
	}
	m.current = game

	snapshot := *game
	return &snapshot, nil
}

// EndGame completes the active session: stamps the completion time, sets
// the final score, moves the record to the front of the history and
// credits floor(score/100) gems. Ending with no active session is a hard
// error, not a silent no-op.
func (m *GameSessionManager) EndGame(score int) (*models.GameSession, int, error) {
	if score < 0 {
		return nil, 0, fmt.Errorf("score must be non-negative, got %d", score)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, 0, ErrNoActiveGame
	}

	game := m.current
	now := time.Now()
	game.Status = models.GameStatusCompleted
	game.Score = score
	game.CompletedAt = &now

	m.history = append([]*models.GameSession{game}, m.history...)
	m.current = nil

	gemsEarned := score / GemsPerScore
	if gemsEarned > 0 {
		if err := m.ledger.CreditGems(gemsEarned); err != nil {
			return nil, 0, fmt.Errorf("failed to credit gem reward: %w", err)
		}
		if m.notifier != nil {
			m.notifier.Notify(m.userID, Notification{
				Type:    NotificationReward,
				Title:   "Game Complete!",
				Message: fmt.Sprintf("You earned %d gems!", gemsEarned),
				Data:    map[string]any{"gems_earned": gemsEarned, "score": score},
			})
		}
	}

	snapshot := *game
	return &snapshot, gemsEarned, nil
}

func (m *GameSessionManager) Current() *models.GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	snapshot := *m.current
	return &snapshot
}

func (m *GameSessionManager) History() []*models.GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.GameSession, len(m.history))
	copy(out, m.history)
	return out
}

func (m *GameSessionManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.userID = ""
	m.current = nil
	m.history = nil
}
