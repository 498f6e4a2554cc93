package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"betbingo-backend/internal/services"
	"betbingo-backend/internal/session"
)

type AuthHandler struct {
	registry   *session.Registry
	jwtService *services.JWTService
	store      *services.RedisStore
}

func NewAuthHandler(registry *session.Registry, jwtService *services.JWTService, store *services.RedisStore) *AuthHandler {
	return &AuthHandler{
		registry:   registry,
		jwtService: jwtService,
		store:      store,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	coord, profile, err := h.registry.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		case errors.Is(err, services.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No profile exists for this account"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Sign-in failed", "details": err.Error()})
		}
		return
	}

	sessionID := uuid.New().String()
	if err := h.store.StoreSession(profile.ID, sessionID); err != nil {
		log.Printf("failed to store session for %s: %v", profile.ID, err)
	}

	token, err := h.jwtService.GenerateToken(profile.ID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	snap := coord.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  profile,
		"wallet": gin.H{
			"balance": snap.Balance,
			"gems":    snap.Gems,
		},
	})
}
