package models

import "time"

type GameType string

const (
	GameTypeBingo      GameType = "bingo"
	GameTypeTournament GameType = "tournament"
	GameTypeDaily      GameType = "daily"
)

func (gt GameType) Valid() bool {
	switch gt {
	case GameTypeBingo, GameTypeTournament, GameTypeDaily:
		return true
	}
	return false
}

type GameStatus string

const (
	GameStatusActive    GameStatus = "active"
	GameStatusCompleted GameStatus = "completed"
)

// GameSession is the in-memory analogue of the persisted Game row.
// CompletedAt is set exactly when Status becomes completed; a completed
// session is immutable and lives in the history only.
type GameSession struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	GameType      GameType   `json:"game_type"`
	Status        GameStatus `json:"status"`
	Score         int        `json:"score"`
	NumbersCalled []int      `json:"numbers_called"`
	BingoLines    int        `json:"bingo_lines"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
