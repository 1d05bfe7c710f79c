package gateway

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for draft connections
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
	}
}

// HandleDraftConnection handles GET /ws/draft?draft_id=
func (h *WebSocketHandler) HandleDraftConnection(w http.ResponseWriter, r *http.Request) {
	draftIDStr := r.URL.Query().Get("draft_id")
	if draftIDStr == "" {
		writeError(w, fmt.Errorf("%w: draft_id is required", ErrBadRequest))
		return
	}

	draftID, err := uuid.Parse(draftIDStr)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid draft_id format", ErrBadRequest))
		return
	}

	if err := h.connectionManager.UpgradeConnection(w, r, draftID); err != nil {
		log.Error().
			Err(err).
			Str("draft_id", draftID.String()).
			Msg("failed to open draft subscription")
		writeError(w, err)
	}
}

// HandleConnectionStats handles GET /ws/stats
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.connectionManager.Stats())
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/draft", h.HandleDraftConnection)
	r.Get("/ws/stats", h.HandleConnectionStats)
}
