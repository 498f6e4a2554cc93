package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"betbingo-backend/internal/models"
	"betbingo-backend/internal/services"
)

type AudioHandler struct {
	store *services.RedisStore
}

func NewAudioHandler(store *services.RedisStore) *AudioHandler {
	return &AudioHandler{store: store}
}

func (h *AudioHandler) GetAudioSettings(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	settings, err := h.store.GetAudioSettings(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audio settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AudioHandler) UpdateAudioSettings(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var settings models.AudioSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if settings.BackgroundMusicVolume < 0 || settings.BackgroundMusicVolume > 1 ||
		settings.GameMusicVolume < 0 || settings.GameMusicVolume > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Volume must be between 0 and 1"})
		return
	}

	if err := h.store.SaveAudioSettings(userID, &settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save audio settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
