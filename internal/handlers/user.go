package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"betbingo-backend/internal/models"
	"betbingo-backend/internal/services"
	"betbingo-backend/internal/session"
)

type UserHandler struct {
	registry *session.Registry
	store    *services.RedisStore
}

func NewUserHandler(registry *session.Registry, store *services.RedisStore) *UserHandler {
	return &UserHandler{registry: registry, store: store}
}

// coordinatorFor resolves the caller's session coordinator; a missing
// one means the token outlived the session.
func coordinatorFor(c *gin.Context, registry *session.Registry) (*session.SessionCoordinator, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	coord, ok := registry.Coordinator(userID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
		return nil, false
	}
	return coord, true
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	snap := coord.Snapshot()
	if !snap.IsAuthenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": snap.User,
		"wallet": gin.H{
			"balance": snap.Balance,
			"gems":    snap.Gems,
			"display": models.FormatMoney(snap.Balance),
		},
		"current_game": snap.CurrentGame,
		"game_history": snap.GameHistory,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	// Local teardown always succeeds; the coordinator logs any remote
	// sign-out failure.
	if err := coord.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	userID := c.GetString("user_id")
	sessionID := c.GetString("session_id")
	if err := h.store.DeleteSession(userID, sessionID); err != nil {
		log.Printf("failed to delete session %s for %s: %v", sessionID, userID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

type updateBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// UpdateBalance applies a signed delta to the wallet; used by trusted
// presentation flows (mini-game payouts, gem shop purchases).
func (h *UserHandler) UpdateBalance(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	var req updateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := coord.UpdateBalance(req.Amount); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	snap := coord.Snapshot()
	c.JSON(http.StatusOK, gin.H{"balance": snap.Balance, "gems": snap.Gems})
}

type updateGemsRequest struct {
	Amount int `json:"amount" binding:"required"`
}

func (h *UserHandler) UpdateGems(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	var req updateGemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := coord.UpdateGems(req.Amount); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"gems": coord.Snapshot().Gems})
}

func (h *UserHandler) GetTransactions(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	transactions, err := h.store.GetUserTransactions(userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
