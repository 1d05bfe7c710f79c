package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/dynasty-draft/go/internal/auth"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/broadcast"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/rs/zerolog/log"
)

// ConnectionManager manages WebSocket connections for draft events
type ConnectionManager struct {
	source   DraftSource
	upgrader websocket.Upgrader
	config   ConnectionConfig

	mu               sync.RWMutex
	draftConnections map[uuid.UUID]map[*Connection]struct{}
	closed           bool
}

// Connection is one client subscribed to one draft. Only writePump writes to
// the socket.
type Connection struct {
	ID       string
	UserID   string
	DraftID  uuid.UUID
	Conn     *websocket.Conn
	identity *auth.Identity
	manager  *ConnectionManager

	snapshot engine.Snapshot
	sub      *broadcast.Subscriber
	replies  chan Frame

	done      chan struct{}
	closeOnce sync.Once
	closeCode int
	closeText string

	ConnectedAt time.Time
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	CommandTimeout  time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	ReplyBuffer     int
	CheckOrigin     func(r *http.Request) bool
}

// ConnectionStats holds counts of open connections.
type ConnectionStats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveDrafts     int            `json:"active_drafts"`
	DraftConnections map[string]int `json:"draft_connections"`
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		CommandTimeout:  10 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		ReplyBuffer:     16,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(source DraftSource, config ConnectionConfig) *ConnectionManager {
	def := DefaultConnectionConfig()
	if config.PingInterval <= 0 {
		config.PingInterval = def.PingInterval
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = def.ReadTimeout
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = def.WriteTimeout
	}
	if config.CommandTimeout <= 0 {
		config.CommandTimeout = def.CommandTimeout
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = def.MaxMessageSize
	}
	if config.ReplyBuffer <= 0 {
		config.ReplyBuffer = def.ReplyBuffer
	}
	return &ConnectionManager{
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:           config,
		draftConnections: make(map[uuid.UUID]map[*Connection]struct{}),
	}
}

// UpgradeConnection subscribes to the draft and upgrades the request. A
// subscribe error is returned before anything is written, so the caller can
// still answer with an HTTP status.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, draftID uuid.UUID) error {
	cm.mu.RLock()
	closed := cm.closed
	cm.mu.RUnlock()
	if closed {
		return engine.ErrEngineClosed
	}

	snap, sub, err := cm.source.Subscribe(r.Context(), draftID)
	if err != nil {
		return err
	}

	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cm.source.Unsubscribe(sub)
		// Upgrade has already written the HTTP error.
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return nil
	}

	ident, _ := auth.FromContext(r.Context())
	userID := "anonymous"
	if ident != nil && ident.Subject != "" {
		userID = ident.Subject
	}

	c := &Connection{
		ID:          uuid.New().String(),
		UserID:      userID,
		DraftID:     draftID,
		Conn:        conn,
		identity:    ident,
		manager:     cm,
		snapshot:    snap,
		sub:         sub,
		replies:     make(chan Frame, cm.config.ReplyBuffer),
		done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}
	if !cm.register(c) {
		cm.source.Unsubscribe(sub)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(cm.config.WriteTimeout))
		return conn.Close()
	}

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("user_id", userID).
		Str("draft_id", draftID.String()).
		Uint64("sequence", snap.LastSequence).
		Msg("WebSocket connection established")
	return nil
}

func (cm *ConnectionManager) register(c *Connection) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.closed {
		return false
	}

	conns, ok := cm.draftConnections[c.DraftID]
	if !ok {
		conns = make(map[*Connection]struct{})
		cm.draftConnections[c.DraftID] = conns
	}
	conns[c] = struct{}{}

	log.Debug().
		Str("connection_id", c.ID).
		Str("draft_id", c.DraftID.String()).
		Int("total_connections", len(conns)).
		Msg("connection registered")
	return true
}

func (cm *ConnectionManager) unregister(c *Connection) {
	cm.mu.Lock()
	conns, ok := cm.draftConnections[c.DraftID]
	if ok {
		if _, ok = conns[c]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(cm.draftConnections, c.DraftID)
			}
		}
	}
	cm.mu.Unlock()
	if !ok {
		return
	}

	cm.source.Unsubscribe(c.sub)
	log.Info().
		Str("connection_id", c.ID).
		Str("user_id", c.UserID).
		Str("draft_id", c.DraftID.String()).
		Msg("connection unregistered")
}

// Stats returns statistics about active connections
func (cm *ConnectionManager) Stats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	st := ConnectionStats{DraftConnections: make(map[string]int)}
	for draftID, conns := range cm.draftConnections {
		st.TotalConnections += len(conns)
		st.DraftConnections[draftID.String()] = len(conns)
	}
	st.ActiveDrafts = len(cm.draftConnections)
	return st
}

// Shutdown closes every connection with 1001 and refuses new ones.
func (cm *ConnectionManager) Shutdown() {
	cm.mu.Lock()
	cm.closed = true
	var all []*Connection
	for _, conns := range cm.draftConnections {
		for c := range conns {
			all = append(all, c)
		}
	}
	cm.mu.Unlock()

	for _, c := range all {
		c.stop(websocket.CloseGoingAway, "shutting down")
	}
	log.Info().Int("connections", len(all)).Msg("connection manager shut down")
}

// stop asks writePump to send a close frame and end the connection.
func (c *Connection) stop(code int, text string) {
	c.closeOnce.Do(func() {
		c.closeCode = code
		c.closeText = text
		close(c.done)
	})
}

// closeFor picks the close frame for a subscriber that ended with err.
func closeFor(err error) (int, string) {
	switch {
	case errors.Is(err, broadcast.ErrSubscriberDropped), errors.Is(err, broadcast.ErrResyncRequired):
		return CloseResync, "resync"
	case errors.Is(err, broadcast.ErrDraftClosed):
		return websocket.CloseNormalClosure, "draft closed"
	default:
		return websocket.CloseNormalClosure, ""
	}
}

func (c *Connection) write(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", f.Type, err)
	}
	_ = c.Conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Connection) writeClose(code int, text string) {
	_ = c.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(c.manager.config.WriteTimeout))
}

// writePump sends the snapshot, then events and replies, until the
// subscriber ends or the connection is stopped.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.manager.unregister(c)
	}()

	if err := c.write(snapshotFrame(c.snapshot)); err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write snapshot")
		return
	}

	events := c.sub.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				code, text := closeFor(c.sub.Err())
				if code == CloseResync {
					log.Warn().
						Err(c.sub.Err()).
						Str("connection_id", c.ID).
						Str("draft_id", c.DraftID.String()).
						Msg("subscriber dropped, asking client to resync")
				}
				c.writeClose(code, text)
				return
			}
			if err := c.write(eventFrame(ev)); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case f := <-c.replies:
			if err := c.write(f); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write reply")
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}

		case <-c.done:
			c.writeClose(c.closeCode, c.closeText)
			return
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer c.stop(websocket.CloseNormalClosure, "")

	c.Conn.SetReadLimit(c.manager.config.MaxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			return
		}
		_ = c.Conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))

		if reply, ok := c.handleClientMessage(message); ok {
			select {
			case c.replies <- reply:
			case <-c.done:
				return
			}
		}
	}
}

// handleClientMessage runs one client action and returns the reply frame.
func (c *Connection) handleClientMessage(message []byte) (Frame, bool) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return errorFrame("", fmt.Errorf("%w: malformed message", ErrBadRequest)), true
	}

	log.Debug().
		Str("connection_id", c.ID).
		Str("user_id", c.UserID).
		Str("action", msg.Action).
		Msg("received client message")

	switch msg.Action {
	case ActionPing:
		return Frame{Type: FramePong, RequestID: msg.RequestID}, true
	case ActionMakePick:
		return c.makePick(msg), true
	default:
		return errorFrame(msg.RequestID, fmt.Errorf("%w: unknown action %q", ErrBadRequest, msg.Action)), true
	}
}

func (c *Connection) makePick(msg ClientMessage) Frame {
	teamID := msg.TeamID
	if teamID == uuid.Nil && c.identity != nil {
		teamID = c.identity.TeamID
	}
	if teamID == uuid.Nil || msg.PlayerID == uuid.Nil {
		return errorFrame(msg.RequestID, fmt.Errorf("%w: team_id and player_id are required", ErrBadRequest))
	}
	if msg.ExpectedOverallPick < 1 {
		return errorFrame(msg.RequestID, fmt.Errorf("%w: expected_overall_pick is required", ErrBadRequest))
	}

	ctx, cancel := context.WithTimeout(auth.WithIdentity(context.Background(), c.identity), c.manager.config.CommandTimeout)
	defer cancel()
	if err := auth.CheckTeam(ctx, teamID); err != nil {
		return errorFrame(msg.RequestID, err)
	}

	pick, err := c.manager.source.MakePick(ctx, engine.PickRequest{
		DraftID:             c.DraftID,
		TeamID:              teamID,
		PlayerID:            msg.PlayerID,
		Source:              engine.SourceUser,
		ExpectedOverallPick: msg.ExpectedOverallPick,
	})
	if err != nil {
		log.Debug().
			Err(err).
			Str("connection_id", c.ID).
			Str("team_id", teamID.String()).
			Str("player_id", msg.PlayerID.String()).
			Msg("pick rejected")
		return errorFrame(msg.RequestID, err)
	}
	return Frame{
		Type:      FramePickAck,
		DraftID:   c.DraftID.String(),
		RequestID: msg.RequestID,
		Data:      pick,
	}
}
