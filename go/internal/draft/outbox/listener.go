package outbox

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type ListenerConfig struct {
	DatabaseURL      string        // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel    string        // Channel name to LISTEN on
	FallbackInterval time.Duration // How often to poll for missed events
	PingInterval     time.Duration
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		DatabaseURL:      "",
		NotifyChannel:    "draft_outbox_events",
		FallbackInterval: 30 * time.Second,
		PingInterval:     90 * time.Second,
	}
}

// Listener relays outbox rows as soon as the insert trigger notifies, and
// drains anything missed on a fallback interval.
type Listener struct {
	app     *App
	cfg     ListenerConfig
	notify  <-chan *pq.Notification
	ping    func() error
	close   func() error
	running atomic.Bool
}

func NewListener(app *App, cfg ListenerConfig) (*Listener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.NotifyChannel).
		Msg("listening for notifications")

	return newListener(app, cfg, l.Notify, l.Ping, l.Close), nil
}

func newListener(app *App, cfg ListenerConfig, notify <-chan *pq.Notification, ping, closeFn func() error) *Listener {
	return &Listener{
		app:    app,
		cfg:    cfg,
		notify: notify,
		ping:   ping,
		close:  closeFn,
	}
}

// Running reports whether Start is looping.
func (l *Listener) Running() bool {
	return l.running.Load()
}

func (l *Listener) Start(ctx context.Context) error {
	l.running.Store(true)
	defer l.running.Store(false)

	log.Info().
		Str("channel", l.cfg.NotifyChannel).
		Dur("ping_interval", l.cfg.PingInterval).
		Dur("fallback_interval", l.cfg.FallbackInterval).
		Msg("listener started")

	pingTicker := time.NewTicker(l.cfg.PingInterval)
	fallbackTicker := time.NewTicker(l.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	// Rows written while the relay was down.
	l.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("listener shutting down")
			return l.Stop()
		case note := <-l.notify:
			if note == nil {
				// reconnected; notifications may have been missed
				l.drain(ctx)
				continue
			}
			if err := l.handleNotification(ctx, note.Extra); err != nil {
				log.Error().Err(err).Msg("failed to handle notification")
			}
		case <-fallbackTicker.C:
			l.drain(ctx)
		case <-pingTicker.C:
			if err := l.ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}

func (l *Listener) Stop() error {
	if l.close == nil {
		return nil
	}
	return l.close()
}

// handleNotification handles a pg listen notification. Extra is the outbox id.
func (l *Listener) handleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event ID in notification: %w", err)
	}
	return l.app.PublishByID(ctx, id)
}

func (l *Listener) drain(ctx context.Context) {
	if _, err := l.app.ProcessUnsentEvents(ctx); err != nil {
		log.Error().Err(err).Msg("failed to process unsent events")
	}
}
