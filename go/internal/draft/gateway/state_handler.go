package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/rs/zerolog/log"
)

// DraftSummary represents a summary of an active draft
type DraftSummary struct {
	DraftID          string     `json:"draft_id"`
	LeagueID         string     `json:"league_id"`
	Status           string     `json:"status"`
	Type             string     `json:"type"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CurrentRound     int        `json:"current_round"`
	CurrentPick      int        `json:"current_pick"`
	CurrentTeamID    string     `json:"current_team_id,omitempty"`
	RemainingSeconds int        `json:"remaining_seconds"`
	TotalTeams       int        `json:"total_teams"`
	TotalRounds      int        `json:"total_rounds"`
	CompletedPicks   int        `json:"completed_picks"`
}

func summarize(s engine.Snapshot) DraftSummary {
	sum := DraftSummary{
		DraftID:          s.DraftID.String(),
		LeagueID:         s.LeagueID.String(),
		Status:           string(s.Status),
		Type:             string(s.Type),
		StartedAt:        s.StartedAt,
		CurrentRound:     s.CurrentRound,
		CurrentPick:      s.CurrentOverallPick,
		RemainingSeconds: s.RemainingSeconds,
		TotalTeams:       len(s.DraftOrder),
		TotalRounds:      s.TotalRounds,
		CompletedPicks:   len(s.Picks),
	}
	if s.CurrentTeamID != uuid.Nil {
		sum.CurrentTeamID = s.CurrentTeamID.String()
	}
	return sum
}

// StateHandler handles HTTP requests for draft state
type StateHandler struct {
	source DraftSource
}

// NewStateHandler creates a new state handler
func NewStateHandler(source DraftSource) *StateHandler {
	return &StateHandler{
		source: source,
	}
}

// HandleGetDraftState handles GET /api/drafts/{id}/state
func (h *StateHandler) HandleGetDraftState(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := h.source.GetState(r.Context(), draftID)
	if err != nil {
		log.Debug().Err(err).Str("draft_id", draftID.String()).Msg("failed to get draft state")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleGetActiveDrafts handles GET /api/drafts/active. With view=full it
// returns whole snapshots instead of summaries.
func (h *StateHandler) HandleGetActiveDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.source.ActiveDrafts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("view") == "full" {
		writeJSON(w, http.StatusOK, drafts)
		return
	}
	summaries := make([]DraftSummary, 0, len(drafts))
	for _, d := range drafts {
		summaries = append(summaries, summarize(d))
	}
	writeJSON(w, http.StatusOK, summaries)
}

// RegisterStateRoutes registers the read routes on a router mounted at
// /api/drafts.
func (h *StateHandler) RegisterStateRoutes(r chi.Router) {
	r.Get("/active", h.HandleGetActiveDrafts)
	r.Get("/{id}/state", h.HandleGetDraftState)
}

func draftIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, ErrBadRequest
	}
	return id, nil
}
