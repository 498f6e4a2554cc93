package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"betbingo-backend/internal/config"
	"betbingo-backend/internal/models"
)

// RedisStore is the reconciliation sink for the external persisted
// schemas (User, Game, Transaction) plus API sessions, audio settings
// and rate limits. The in-memory session core stays the source of truth
// for a live session; this store just mirrors it.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisStore{client: client, ctx: ctx}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) SaveUserRecord(profile *models.UserProfile) error {
	key := fmt.Sprintf(KeyUserRecord, profile.ID)

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal user record: %v", err)
	}

	return s.client.Set(s.ctx, key, data, TTLUserRecord).Err()
}

func (s *RedisStore) GetUserRecord(userID string) (*models.UserProfile, error) {
	key := fmt.Sprintf(KeyUserRecord, userID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user record: %v", err)
	}
	return &profile, nil
}

func (s *RedisStore) SaveGameRecord(game *models.GameSession) error {
	key := fmt.Sprintf(KeyGameRecord, game.ID)

	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %v", err)
	}

	if err := s.client.Set(s.ctx, key, data, TTLGameRecord).Err(); err != nil {
		return fmt.Errorf("failed to save game record: %v", err)
	}

	userGamesKey := fmt.Sprintf(KeyUserGames, game.UserID)
	if err := s.client.ZAdd(s.ctx, userGamesKey, redis.Z{
		Score:  float64(game.CreatedAt.Unix()),
		Member: game.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index game record: %v", err)
	}

	s.client.ZRemRangeByRank(s.ctx, userGamesKey, 0, int64(-MaxStoredGames-1))
	s.client.Expire(s.ctx, userGamesKey, TTLGameRecord)

	return nil
}

func (s *RedisStore) GetGameRecord(gameID string) (*models.GameSession, error) {
	key := fmt.Sprintf(KeyGameRecord, gameID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("game not found: %s", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game record: %v", err)
	}

	var game models.GameSession
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game record: %v", err)
	}
	return &game, nil
}

// GetGameHistory returns the user's stored games, most recent first.
func (s *RedisStore) GetGameHistory(userID string, limit int64) ([]*models.GameSession, error) {
	if limit <= 0 || limit > MaxStoredGames {
		limit = 50
	}

	userGamesKey := fmt.Sprintf(KeyUserGames, userID)

	gameIDs, err := s.client.ZRevRange(s.ctx, userGamesKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game IDs: %v", err)
	}

	var games []*models.GameSession
	for _, gameID := range gameIDs {
		game, err := s.GetGameRecord(gameID)
		if err != nil {
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

func (s *RedisStore) SaveTransaction(tx *models.Transaction) error {
	txKey := fmt.Sprintf(KeyTransaction, tx.ID)

	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %v", err)
	}

	if err := s.client.Set(s.ctx, txKey, data, TTLTransaction).Err(); err != nil {
		return fmt.Errorf("failed to save transaction: %v", err)
	}

	userTxKey := fmt.Sprintf(KeyUserTransactions, tx.UserID)
	if err := s.client.ZAdd(s.ctx, userTxKey, redis.Z{
		Score:  float64(tx.CreatedAt.Unix()),
		Member: tx.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index transaction: %v", err)
	}

	s.client.ZRemRangeByRank(s.ctx, userTxKey, 0, int64(-MaxStoredTransactions-1))

	return nil
}

func (s *RedisStore) GetUserTransactions(userID string, limit int64) ([]*models.Transaction, error) {
	if limit <= 0 || limit > MaxStoredTransactions {
		limit = 50
	}

	userTxKey := fmt.Sprintf(KeyUserTransactions, userID)

	txIDs, err := s.client.ZRevRange(s.ctx, userTxKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction IDs: %v", err)
	}

	var transactions []*models.Transaction
	for _, txID := range txIDs {
		data, err := s.client.Get(s.ctx, fmt.Sprintf(KeyTransaction, txID)).Result()
		if err != nil {
			continue
		}

		var tx models.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			continue
		}
		transactions = append(transactions, &tx)
	}
	return transactions, nil
}

// StoreSession records an issued API session token's session ID.
func (s *RedisStore) StoreSession(userID, sessionID string) error {
	key := fmt.Sprintf(KeySession, userID, sessionID)
	return s.client.Set(s.ctx, key, time.Now().Unix(), TTLSession).Err()
}

func (s *RedisStore) SessionExists(userID, sessionID string) (bool, error) {
	key := fmt.Sprintf(KeySession, userID, sessionID)
	n, err := s.client.Exists(s.ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) DeleteSession(userID, sessionID string) error {
	key := fmt.Sprintf(KeySession, userID, sessionID)
	return s.client.Del(s.ctx, key).Err()
}

// GetAudioSettings returns the user's persisted audio settings, or the
// defaults if none were saved yet.
func (s *RedisStore) GetAudioSettings(userID string) (*models.AudioSettings, error) {
	key := fmt.Sprintf(KeyAudioSettings, userID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return models.DefaultAudioSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audio settings: %v", err)
	}

	var settings models.AudioSettings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audio settings: %v", err)
	}
	return &settings, nil
}

func (s *RedisStore) SaveAudioSettings(userID string, settings *models.AudioSettings) error {
	key := fmt.Sprintf(KeyAudioSettings, userID)

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal audio settings: %v", err)
	}

	return s.client.Set(s.ctx, key, data, 0).Err()
}

func (s *RedisStore) CheckRateLimit(userID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisStore) DeleteUserRecord(userID string) error {
	return s.client.Del(s.ctx, fmt.Sprintf(KeyUserRecord, userID)).Err()
}

func (s *RedisStore) DeleteGameRecord(gameID string) error {
	return s.client.Del(s.ctx, fmt.Sprintf(KeyGameRecord, gameID)).Err()
}
