package services

import "time"

const (
	KeyUserRecord       = "user:%s:record"
	KeySession          = "user:%s:session:%s"
	KeyAudioSettings    = "user:%s:audio"
	KeyGameRecord       = "game:%s"
	KeyUserGames        = "user:%s:games"
	KeyTransaction      = "transaction:%s"
	KeyUserTransactions = "user:%s:transactions"
	KeyRateLimit        = "ratelimit:%s:%s"

	TTLSession     = 24 * time.Hour
	TTLUserRecord  = 30 * 24 * time.Hour
	TTLGameRecord  = 7 * 24 * time.Hour
	TTLTransaction = 30 * 24 * time.Hour

	// Keep only the most recent entries per user.
	MaxStoredGames        = 100
	MaxStoredTransactions = 100
)
