package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"betbingo-backend/internal/config"
	"betbingo-backend/internal/handlers"
	"betbingo-backend/internal/middleware"
	"betbingo-backend/internal/services"
	"betbingo-backend/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := services.NewRedisStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()

	jwtService := services.NewJWTService(cfg)
	identity := services.NewIdentityGateway(cfg)
	payments := services.NewPaymentService(cfg)
	catalog := services.NewTournamentCatalog()

	hub := handlers.NewWebSocketHub()
	registry := session.NewRegistry(identity, hub, store)

	// Provider-pushed transitions (token expiry, remote sign-out) land on
	// the same path as local logins.
	identity.OnSessionChange(registry.HandleSessionChange)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			if removed := registry.SweepEntries(10 * time.Minute); removed > 0 {
				log.Printf("Swept %d stale tournament entries", removed)
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(registry, jwtService, store)
	userHandler := handlers.NewUserHandler(registry, store)
	gameHandler := handlers.NewGameHandler(registry, store)
	tournamentHandler := handlers.NewTournamentHandler(registry, catalog)
	paymentHandler := handlers.NewPaymentHandler(registry, payments)
	audioHandler := handlers.NewAudioHandler(store)
	wsHandler := handlers.NewWebSocketHandler(registry, hub)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(store))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.POST("/logout", userHandler.Logout)
		protected.POST("/balance", userHandler.UpdateBalance)
		protected.POST("/gems", userHandler.UpdateGems)
		protected.GET("/transactions", userHandler.GetTransactions)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.POST("/start", gameHandler.StartGame)
			games.POST("/end", gameHandler.EndGame)
			games.GET("/current", gameHandler.GetCurrentGame)
			games.GET("/history", gameHandler.GetGameHistory)
			games.GET("/balance", gameHandler.GetBalance)
		}

		tournaments := protected.Group("/tournaments")
		{
			tournaments.GET("", tournamentHandler.ListTournaments)
			tournaments.POST("/:id/join", tournamentHandler.JoinTournament)
			tournaments.POST("/entries/:token/confirm", tournamentHandler.ConfirmEntry)
			tournaments.POST("/entries/:token/cancel", tournamentHandler.CancelEntry)
		}

		paymentsGroup := protected.Group("/payments")
		{
			paymentsGroup.POST("/orders", paymentHandler.CreateOrder)
			paymentsGroup.POST("/orders/:id/capture", paymentHandler.CaptureOrder)
		}

		settings := protected.Group("/settings")
		{
			settings.GET("/audio", audioHandler.GetAudioSettings)
			settings.PUT("/audio", audioHandler.UpdateAudioSettings)
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
