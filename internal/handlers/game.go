package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"betbingo-backend/internal/models"
	"betbingo-backend/internal/services"
	"betbingo-backend/internal/session"
)

type GameHandler struct {
	registry *session.Registry
	store    *services.RedisStore
}

func NewGameHandler(registry *session.Registry, store *services.RedisStore) *GameHandler {
	return &GameHandler{registry: registry, store: store}
}

type startGameRequest struct {
	GameType models.GameType `json:"game_type" binding:"required"`
}

func (h *GameHandler) StartGame(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	var req startGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if !req.GameType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game type"})
		return
	}

	game, err := coord.StartGame(req.GameType)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    game,
	})
}

type endGameRequest struct {
	Score *int `json:"score" binding:"required"`
}

func (h *GameHandler) EndGame(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	var req endGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if *req.Score < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be non-negative"})
		return
	}

	game, gemsEarned, err := coord.EndGame(*req.Score)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"game":        game,
		"gems_earned": gemsEarned,
	})
}

func (h *GameHandler) GetCurrentGame(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": coord.Snapshot().CurrentGame})
}

func (h *GameHandler) GetGameHistory(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	history := coord.Snapshot().GameHistory
	if len(history) > limit {
		history = history[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"games": history, "count": len(history)})
}

func (h *GameHandler) GetBalance(c *gin.Context) {
	coord, ok := coordinatorFor(c, h.registry)
	if !ok {
		return
	}

	snap := coord.Snapshot()
	c.JSON(http.StatusOK, models.BalanceResponse{
		Balance: snap.Balance,
		Gems:    snap.Gems,
		Display: models.FormatMoney(snap.Balance),
	})
}
