package session

import "errors"

// Validation failures are surfaced to callers as structured outcomes and
// never abort the process; the session state is left unchanged.
var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientGems  = errors.New("insufficient gems")
	ErrTournamentFull    = errors.New("tournament is full")
	ErrMalformedOffer    = errors.New("malformed tournament offer")
	ErrGameAlreadyActive = errors.New("a game is already active")
	ErrNoActiveGame      = errors.New("no active game")
	ErrUnknownEntry      = errors.New("unknown or expired entry token")
	ErrInvalidAmount     = errors.New("amount must be positive")
)
