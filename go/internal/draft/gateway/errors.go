package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcdev12/dynasty-draft/go/internal/auth"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/rs/zerolog/log"
)

// ErrBadRequest marks malformed input.
var ErrBadRequest = errors.New("bad request")

// ErrorResponse is the JSON error body of every route.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{engine.ErrNotYourTurn, http.StatusConflict, "NOT_YOUR_TURN"},
	{engine.ErrPickAlreadyMade, http.StatusConflict, "PICK_ALREADY_MADE"},
	{engine.ErrPlayerUnavailable, http.StatusConflict, "PLAYER_UNAVAILABLE"},
	{engine.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{engine.ErrDraftNotActive, http.StatusConflict, "DRAFT_NOT_ACTIVE"},
	{engine.ErrPoolExhausted, http.StatusConflict, "POOL_EXHAUSTED"},
	{engine.ErrDraftNotFound, http.StatusNotFound, "DRAFT_NOT_FOUND"},
	{engine.ErrInvalidOrder, http.StatusBadRequest, "INVALID_ORDER"},
	{engine.ErrInvalidDraft, http.StatusBadRequest, "INVALID_DRAFT"},
	{ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
	{auth.ErrMissingToken, http.StatusUnauthorized, "UNAUTHORIZED"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
	{auth.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{engine.ErrEngineClosed, http.StatusServiceUnavailable, "UNAVAILABLE"},
}

const codeInternal = "INTERNAL"

// statusFor maps an error to its HTTP status and wire code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, codeInternal
}

// errorFromResponse turns an error body from draftd back into an error that
// matches the same sentinel.
func errorFromResponse(status int, body ErrorResponse) error {
	for _, m := range errorMappings {
		if m.code == body.Code {
			return fmt.Errorf("%w: %s", m.err, body.Error)
		}
	}
	return fmt.Errorf("draftd returned %d: %s", status, body.Error)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
