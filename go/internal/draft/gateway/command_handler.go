package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/auth"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/rs/zerolog/log"
)

const (
	defaultSearchLimit = 25
	maxSearchLimit     = 200
	maxBodyBytes       = 4 << 20
)

// CommandHandler serves the mutating draft routes of draftd.
type CommandHandler struct {
	commands Commands
	verifier *auth.Verifier
	players  PlayerSource
	sport    string
}

// NewCommandHandler creates a command handler. players may be nil, in which
// case create requests must carry their own pool.
func NewCommandHandler(commands Commands, verifier *auth.Verifier, players PlayerSource, sport string) *CommandHandler {
	return &CommandHandler{
		commands: commands,
		verifier: verifier,
		players:  players,
		sport:    sport,
	}
}

type orderRequest struct {
	DraftOrder []uuid.UUID `json:"draft_order"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type pickRequest struct {
	TeamID              uuid.UUID `json:"team_id"`
	PlayerID            uuid.UUID `json:"player_id"`
	ExpectedOverallPick int       `json:"expected_overall_pick"`
}

// RegisterCommandRoutes registers the draft command routes on a router
// mounted at /api/drafts.
func (h *CommandHandler) RegisterCommandRoutes(r chi.Router) {
	r.With(h.verifier.RequireCommissioner).Post("/", h.HandleCreate)
	r.Post("/{id}/picks", h.HandleMakePick)
	r.Get("/{id}/players", h.HandleSearchPlayers)
	r.Group(func(r chi.Router) {
		r.Use(h.verifier.RequireCommissioner)
		r.Post("/{id}/order", h.HandleSetOrder)
		r.Post("/{id}/start", h.HandleStart)
		r.Post("/{id}/pause", h.HandlePause)
		r.Post("/{id}/resume", h.HandleResume)
		r.Post("/{id}/cancel", h.HandleCancel)
	})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return decodeBody(w, r, v, false)
}

// decodeOptional decodes a body that may be empty.
func decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return decodeBody(w, r, v, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// HandleCreate handles POST /api/drafts
func (h *CommandHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req engine.CreateDraftRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if len(req.Players) == 0 && h.players != nil {
		players, err := h.players.ListDraftable(r.Context(), h.sport)
		if err != nil {
			writeError(w, fmt.Errorf("load draftable players: %w", err))
			return
		}
		req.Players = players
	}

	snap, err := h.commands.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info().
		Str("draft_id", snap.DraftID.String()).
		Str("league_id", snap.LeagueID.String()).
		Int("players", snap.AvailablePlayers).
		Msg("draft created")
	writeJSON(w, http.StatusCreated, snap)
}

// HandleSetOrder handles POST /api/drafts/{id}/order
func (h *CommandHandler) HandleSetOrder(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req orderRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.commands.SetOrder(r.Context(), draftID, req.DraftOrder); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, draftID)
}

// HandleStart handles POST /api/drafts/{id}/start
func (h *CommandHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.commands.Start(r.Context(), draftID); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, draftID)
}

// HandlePause handles POST /api/drafts/{id}/pause
func (h *CommandHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req reasonRequest
	if err := decodeOptional(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.commands.Pause(r.Context(), draftID, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, draftID)
}

// HandleResume handles POST /api/drafts/{id}/resume
func (h *CommandHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.commands.Resume(r.Context(), draftID); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, draftID)
}

// HandleCancel handles POST /api/drafts/{id}/cancel
func (h *CommandHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req reasonRequest
	if err := decodeOptional(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.commands.Cancel(r.Context(), draftID, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, draftID)
}

// HandleMakePick handles POST /api/drafts/{id}/picks
func (h *CommandHandler) HandleMakePick(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req pickRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.TeamID == uuid.Nil {
		if ident, ok := auth.FromContext(r.Context()); ok {
			req.TeamID = ident.TeamID
		}
	}
	if req.TeamID == uuid.Nil || req.PlayerID == uuid.Nil {
		writeError(w, fmt.Errorf("%w: team_id and player_id are required", ErrBadRequest))
		return
	}
	// the pick the client saw on the clock; without it a retried request
	// could land on the same team's next pick at a snake turn
	if req.ExpectedOverallPick < 1 {
		writeError(w, fmt.Errorf("%w: expected_overall_pick is required", ErrBadRequest))
		return
	}
	if err := auth.CheckTeam(r.Context(), req.TeamID); err != nil {
		writeError(w, err)
		return
	}

	pick, err := h.commands.MakePick(r.Context(), engine.PickRequest{
		DraftID:             draftID,
		TeamID:              req.TeamID,
		PlayerID:            req.PlayerID,
		Source:              engine.SourceUser,
		ExpectedOverallPick: req.ExpectedOverallPick,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pick)
}

// HandleSearchPlayers handles GET /api/drafts/{id}/players?q=&limit=
func (h *CommandHandler) HandleSearchPlayers(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	limit := defaultSearchLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, fmt.Errorf("%w: invalid limit", ErrBadRequest))
			return
		}
		limit = min(n, maxSearchLimit)
	}

	players, err := h.commands.SearchPlayers(r.Context(), draftID, r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (h *CommandHandler) writeState(w http.ResponseWriter, r *http.Request, draftID uuid.UUID) {
	snap, err := h.commands.GetState(r.Context(), draftID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
