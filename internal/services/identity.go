package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"betbingo-backend/internal/config"
	"betbingo-backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProfileNotFound    = errors.New("profile not found")
)

// Starter profile handed to first-time users when welcome-bonus
// provisioning is on: $50 bonus + $5 starting balance, 160 gems.
var (
	welcomeBalance = decimal.RequireFromString("55.00")
	welcomeGems    = 160
)

// SessionChangeFunc receives provider-pushed session transitions. A nil
// profile is the explicit "no session" marker (expiry, remote sign-out).
type SessionChangeFunc func(userID string, profile *models.UserProfile)

// IdentityGateway is a thin proxy to the external identity service. It
// resolves credentials to a profile row and fans provider session
// transitions out to exactly one callback invocation per listener.
type IdentityGateway struct {
	baseURL      string
	apiKey       string
	welcomeBonus bool
	httpClient   *http.Client

	mu        sync.Mutex
	listeners []SessionChangeFunc
	tokens    map[string]string
}

func NewIdentityGateway(cfg *config.Config) *IdentityGateway {
	return &IdentityGateway{
		baseURL:      cfg.IdentityURL,
		apiKey:       cfg.IdentityKey,
		welcomeBonus: cfg.WelcomeBonus,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		tokens:       make(map[string]string),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			Username string `json:"username"`
		} `json:"user_metadata"`
	} `json:"user"`
}

type profileRow struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	AvatarURL string          `json:"avatar_url"`
	Balance   decimal.Decimal `json:"balance"`
	Gems      int             `json:"gems"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SignIn exchanges credentials for a session and resolves the user's
// profile row. A resolvable identity without a profile row either gets
// the welcome starter profile or fails with ErrProfileNotFound.
func (g *IdentityGateway) SignIn(ctx context.Context, email, password string) (*models.UserProfile, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	url := g.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	default:
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("identity sign-in failed: status %d: %s", resp.StatusCode, payload)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %v", err)
	}

	g.mu.Lock()
	g.tokens[token.User.ID] = token.AccessToken
	g.mu.Unlock()

	profile, err := g.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (g *IdentityGateway) fetchProfile(ctx context.Context, token tokenResponse) (*models.UserProfile, error) {
	url := fmt.Sprintf("%s/rest/v1/users?id=eq.%s&select=*&limit=1", g.baseURL, token.User.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("profile lookup failed: status %d: %s", resp.StatusCode, payload)
	}

	var rows []profileRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode profile rows: %v", err)
	}

	if len(rows) == 0 {
		if !g.welcomeBonus {
			return nil, ErrProfileNotFound
		}
		return g.starterProfile(token), nil
	}

	row := rows[0]
	return &models.UserProfile{
		ID:        row.ID,
		Email:     row.Email,
		Username:  row.Username,
		AvatarURL: row.AvatarURL,
		Balance:   row.Balance,
		Gems:      row.Gems,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (g *IdentityGateway) starterProfile(token tokenResponse) *models.UserProfile {
	username := token.User.UserMetadata.Username
	if username == "" {
		username = "User"
	}

	log.Printf("no profile row for %s, provisioning welcome starter profile", token.User.ID)

	now := time.Now()
	return &models.UserProfile{
		ID:         token.User.ID,
		Email:      token.User.Email,
		Username:   username,
		Balance:    welcomeBalance,
		Gems:       welcomeGems,
		CreatedAt:  now,
		UpdatedAt:  now,
		FirstLogin: true,
	}
}

// SignOut revokes the user's remote session. Callers treat failures as
// log-only; local teardown never waits on this.
func (g *IdentityGateway) SignOut(ctx context.Context, userID string) error {
	g.mu.Lock()
	token, ok := g.tokens[userID]
	delete(g.tokens, userID)
	g.mu.Unlock()

	if !ok {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("remote sign-out failed: status %d", resp.StatusCode)
	}
	return nil
}

// OnSessionChange registers a listener for provider-pushed transitions.
func (g *IdentityGateway) OnSessionChange(fn SessionChangeFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// EmitSessionChange delivers one transition to every listener. Sign-in
// results reach their caller directly; this path carries expiries,
// refreshes and remote sign-outs.
func (g *IdentityGateway) EmitSessionChange(userID string, profile *models.UserProfile) {
	g.mu.Lock()
	listeners := make([]SessionChangeFunc, len(g.listeners))
	copy(listeners, g.listeners)
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(userID, profile)
	}
}
