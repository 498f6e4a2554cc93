package handlers

import (
	"errors"
	"net/http"

	"betbingo-backend/internal/session"
)

// statusFor maps session-core outcomes onto HTTP statuses so handlers
// stay uniform about it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrInsufficientFunds),
		errors.Is(err, session.ErrInsufficientGems):
		return http.StatusPaymentRequired
	case errors.Is(err, session.ErrTournamentFull),
		errors.Is(err, session.ErrGameAlreadyActive),
		errors.Is(err, session.ErrNoActiveGame):
		return http.StatusConflict
	case errors.Is(err, session.ErrUnknownEntry):
		return http.StatusNotFound
	case errors.Is(err, session.ErrMalformedOffer),
		errors.Is(err, session.ErrInvalidAmount):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
