package services

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"betbingo-backend/internal/models"
)

// TournamentCatalog is the external offer catalog's stand-in: a seeded,
// read-mostly list of live tournaments. The session core consumes the
// offers read-only; only a confirmed join bumps the player count.
type TournamentCatalog struct {
	mu     sync.Mutex
	offers map[string]*models.TournamentOffer
	order  []string
}

func NewTournamentCatalog() *TournamentCatalog {
	catalog := &TournamentCatalog{offers: make(map[string]*models.TournamentOffer)}
	for _, offer := range seedOffers() {
		catalog.offers[offer.ID] = offer
		catalog.order = append(catalog.order, offer.ID)
	}
	return catalog
}

func (c *TournamentCatalog) List() []*models.TournamentOffer {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*models.TournamentOffer, 0, len(c.order))
	for _, id := range c.order {
		offer := *c.offers[id]
		out = append(out, &offer)
	}
	return out
}

func (c *TournamentCatalog) Get(id string) (*models.TournamentOffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offer, ok := c.offers[id]
	if !ok {
		return nil, fmt.Errorf("tournament not found: %s", id)
	}
	snapshot := *offer
	return &snapshot, nil
}

// AddPlayer bumps the live player count after a confirmed join.
func (c *TournamentCatalog) AddPlayer(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	offer, ok := c.offers[id]
	if !ok {
		return fmt.Errorf("tournament not found: %s", id)
	}
	if offer.Players >= offer.MaxPlayers {
		return fmt.Errorf("tournament full: %s", id)
	}
	offer.Players++
	return nil
}

func seedOffers() []*models.TournamentOffer {
	return []*models.TournamentOffer{
		{
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
		},
		{
			ID:         "cash-crusher",
			Title:      "Cash Crusher",
			Prize:      "$2,500",
			PrizePool:  decimal.NewFromInt(2500),
			Entry:      "$10.00",
			Players:    523,
			MaxPlayers: 800,
			TimeLeft:   "5:12",
			Difficulty: models.DifficultyMedium,
			GameMode:   models.GameTypeTournament,
		},
		{
			ID:         "mega-jackpot",
			Title:      "Mega Jackpot",
			Prize:      "$10,000",
			PrizePool:  decimal.NewFromInt(10000),
			Entry:      "$25.00",
			Players:    234,
			MaxPlayers: 500,
			TimeLeft:   "8:33",
			Difficulty: models.DifficultyHard,
			GameMode:   models.GameTypeTournament,
		},
		{
			ID:         "speed-bingo",
			Title:      "Speed Bingo",
			Prize:      "$500",
			PrizePool:  decimal.NewFromInt(500),
			Entry:      "$2.00",
			Players:    1203,
			MaxPlayers: 1500,
			TimeLeft:   "1:28",
			Difficulty: models.DifficultyEasy,
			GameMode:   models.GameTypeTournament,
		},
		{
			ID:         "winners-circle",
			Title:      "Winner's Circle",
			Prize:      "$5,000",
			PrizePool:  decimal.NewFromInt(5000),
			Entry:      "$15.00",
			Players:    445,
			MaxPlayers: 600,
			TimeLeft:   "12:05",
			Difficulty: models.DifficultyMedium,
			GameMode:   models.GameTypeTournament,
		},
		{
			ID:         "elite-championship",
			Title:      "Elite Championship",
			Prize:      "$25,000",
			PrizePool:  decimal.NewFromInt(25000),
			Entry:      "$50.00",
			Players:    89,
			MaxPlayers: 200,
			TimeLeft:   "15:42",
			Difficulty: models.DifficultyHard,
			GameMode:   models.GameTypeTournament,
		},
	}
}
