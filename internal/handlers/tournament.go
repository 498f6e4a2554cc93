package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"betbingo-backend/internal/models"
	"betbingo-backend/internal/services"
	"betbingo-backend/internal/session"
)

type TournamentHandler struct {
	registry *session.Registry
	catalog  *services.TournamentCatalog
}

func NewTournamentHandler(registry *session.Registry, catalog *services.TournamentCatalog) *TournamentHandler {
	return &TournamentHandler{registry: registry, catalog: catalog}
}

func (h *TournamentHandler) ListTournaments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tournaments": h.catalog.List()})
}

// JoinTournament runs the validation half of the two-phase entry: on
// success the caller holds a pending token and nothing is committed yet.
func (h *TournamentHandler) JoinTournament(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	offer, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
		return
	}

	entry, err := coord.AuthorizeEntry(offer)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry_token": entry.Token,
		"entry_fee":   entry.Fee,
		"fee_display": models.FormatMoney(entry.Fee),
		"tournament":  offer,
	})
}

// ConfirmEntry commits a pending entry: debits the fee, starts the
// tournament game and registers the player.
func (h *TournamentHandler) ConfirmEntry(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	game, entry, err := coord.ConfirmEntry(c.Param("token"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if err := h.catalog.AddPlayer(entry.Offer.ID); err != nil {
		// The entry is already committed; a full tournament here means a
		// concurrent join raced us past the authorization check.
		log.Printf("failed to bump player count for %s: %v", entry.Offer.ID, err)
	}

	snap := coord.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    game,
		"balance": snap.Balance,
	})
}

func (h *TournamentHandler) CancelEntry(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	coord.CancelEntry(c.Param("token"))
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}
