package gateway

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mcdev12/dynasty-draft/go/internal/auth"
	"github.com/rs/zerolog/log"
)

// Service is the HTTP and WebSocket surface of a draft process: draftd
// serves it from the engine, the edge gateway from a RemoteSource.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	commandHandler    *CommandHandler
	eventConsumer     *EventConsumer
	verifier          *auth.Verifier
	origins           []string
}

// Config holds configuration for the draft gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	Verifier         *auth.Verifier // nil disables auth
	AllowedOrigins   []string
}

// DefaultConfig returns default configuration for the draft gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
	}
}

// Option adds an optional part to a Service.
type Option func(*Service)

// WithCommands serves the mutating routes.
func WithCommands(h *CommandHandler) Option {
	return func(s *Service) { s.commandHandler = h }
}

// WithEventConsumer runs a bus consumer for the lifetime of Start.
func WithEventConsumer(ec *EventConsumer) Option {
	return func(s *Service) { s.eventConsumer = ec }
}

// NewService creates a new draft gateway service
func NewService(config Config, source DraftSource, opts ...Option) *Service {
	cm := NewConnectionManager(source, config.ConnectionConfig)
	s := &Service{
		connectionManager: cm,
		wsHandler:         NewWebSocketHandler(cm),
		stateHandler:      NewStateHandler(source),
		verifier:          config.Verifier,
		origins:           config.AllowedOrigins,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the event consumer, if any, until ctx is done.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting draft gateway service")

	if s.eventConsumer != nil {
		go func() {
			if err := s.eventConsumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("event consumer failed")
			}
		}()
	}

	<-ctx.Done()
	log.Info().Msg("draft gateway service shutting down")
	return s.Stop()
}

// Stop closes client connections and the consumer.
func (s *Service) Stop() error {
	s.connectionManager.Shutdown()
	if s.eventConsumer != nil {
		if err := s.eventConsumer.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop event consumer")
		}
	}
	log.Info().Msg("draft gateway service stopped")
	return nil
}

// Handler builds the router: /health is open, everything else goes through
// auth when it is enabled.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(CORSMiddleware(s.origins...))

	r.Get("/health", s.HandleHealth)
	r.Group(func(r chi.Router) {
		r.Use(s.verifier.Authenticate)
		s.wsHandler.RegisterRoutes(r)
		r.Route("/api/drafts", func(r chi.Router) {
			s.stateHandler.RegisterStateRoutes(r)
			if s.commandHandler != nil {
				s.commandHandler.RegisterCommandRoutes(r)
			}
		})
	})

	log.Info().Bool("commands", s.commandHandler != nil).Msg("draft gateway routes registered")
	return r
}

// HealthStatus is the /health body.
type HealthStatus struct {
	Status      string          `json:"status"`
	BusUp       *bool           `json:"bus_connected,omitempty"`
	Connections ConnectionStats `json:"connections"`
}

// HandleHealth handles GET /health
func (s *Service) HandleHealth(w http.ResponseWriter, r *http.Request) {
	st := HealthStatus{Status: "ok", Connections: s.connectionManager.Stats()}
	code := http.StatusOK
	if s.eventConsumer != nil {
		up := s.eventConsumer.Connected()
		st.BusUp = &up
		if !up {
			st.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, st)
}

// Stats returns statistics about open connections.
func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.Stats()
}
