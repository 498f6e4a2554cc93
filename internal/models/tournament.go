package models

import "github.com/shopspring/decimal"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// TournamentOffer is supplied by the catalog and consumed read-only.
// Entry carries the catalog's display string ("$5.00", "FREE"); use
// EntryFee for the numeric amount.
type TournamentOffer struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Prize      string          `json:"prize"`
	PrizePool  decimal.Decimal `json:"prize_pool"`
	Entry      string          `json:"entry"`
	Players    int             `json:"players"`
	MaxPlayers int             `json:"max_players"`
	TimeLeft   string          `json:"time_left"`
	Difficulty Difficulty      `json:"difficulty"`
	GameMode   GameType        `json:"game_mode"`
	Image      string          `json:"image,omitempty"`
}

func (o *TournamentOffer) EntryFee() (decimal.Decimal, error) {
	return ParseMoney(o.Entry)
}

func (o *TournamentOffer) Full() bool {
	return o.Players >= o.MaxPlayers
}
