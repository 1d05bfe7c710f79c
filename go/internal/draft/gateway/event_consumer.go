package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// JetStreamConsumerConfig holds configuration for the JetStream consumer
type JetStreamConsumerConfig struct {
	URL        string
	StreamName string
	// ConsumerName makes the consumer durable. Leave it empty to get an
	// ephemeral consumer per gateway instance, since every instance needs
	// every event.
	ConsumerName  string
	SubjectFilter string        // e.g., "draft.events.>"
	MaxDeliver    int           // Max delivery attempts
	AckWait       time.Duration // How long to wait for ack
	MaxAckPending int           // Max messages pending ack
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultJetStreamConsumerConfig returns default JetStream consumer configuration
func DefaultJetStreamConsumerConfig() JetStreamConsumerConfig {
	return JetStreamConsumerConfig{
		URL:           nats.DefaultURL,
		StreamName:    "DRAFT_EVENTS",
		SubjectFilter: "draft.events.>",
		MaxDeliver:    5,
		AckWait:       30 * time.Second,
		MaxAckPending: 100,
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// EventSink receives events decoded from the bus. *broadcast.Hub satisfies it.
type EventSink interface {
	Publish(ev events.DraftEvent) bool
	CloseDraft(draftID uuid.UUID)
}

// EventConsumer consumes events from JetStream and publishes them to a sink
type EventConsumer struct {
	sink     EventSink
	nc       *nats.Conn
	js       jetstream.JetStream
	consumer jetstream.Consumer
	config   JetStreamConsumerConfig
}

// NewEventConsumer creates a new JetStream event consumer
func NewEventConsumer(sink EventSink, config JetStreamConsumerConfig) (*EventConsumer, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ec := &EventConsumer{
		sink:   sink,
		nc:     nc,
		js:     js,
		config: config,
	}

	if err := ec.ensureConsumer(context.Background()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure consumer: %w", err)
	}

	return ec, nil
}

func (ec *EventConsumer) consumerConfig() jetstream.ConsumerConfig {
	cfg := jetstream.ConsumerConfig{
		Description:   "Draft gateway WebSocket consumer",
		FilterSubject: ec.config.SubjectFilter,
		// Clients take a snapshot on connect, so history is not needed.
		DeliverPolicy: jetstream.DeliverNewPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    ec.config.MaxDeliver,
		AckWait:       ec.config.AckWait,
		MaxAckPending: ec.config.MaxAckPending,
		ReplayPolicy:  jetstream.ReplayInstantPolicy,
	}
	if ec.config.ConsumerName != "" {
		cfg.Name = ec.config.ConsumerName
		cfg.Durable = ec.config.ConsumerName
	} else {
		cfg.InactiveThreshold = 5 * time.Minute
	}
	return cfg
}

// ensureConsumer creates or updates the JetStream consumer
func (ec *EventConsumer) ensureConsumer(ctx context.Context) error {
	stream, err := ec.js.Stream(ctx, ec.config.StreamName)
	if err != nil {
		return fmt.Errorf("get stream: %w", err)
	}

	var consumer jetstream.Consumer
	if ec.config.ConsumerName != "" {
		consumer, err = stream.CreateOrUpdateConsumer(ctx, ec.consumerConfig())
	} else {
		consumer, err = stream.CreateConsumer(ctx, ec.consumerConfig())
	}
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	log.Info().
		Str("consumer", consumer.CachedInfo().Name).
		Str("stream", ec.config.StreamName).
		Msg("JetStream consumer ready")
	ec.consumer = consumer
	return nil
}

// Start begins consuming events from JetStream
func (ec *EventConsumer) Start(ctx context.Context) error {
	log.Info().
		Str("stream", ec.config.StreamName).
		Str("subject", ec.config.SubjectFilter).
		Msg("starting JetStream event consumer")

	messageCh := make(chan jetstream.Msg, 100)

	consumeCtx, err := ec.consumer.Consume(func(msg jetstream.Msg) {
		select {
		case messageCh <- msg:
		case <-ctx.Done():
			_ = msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	defer consumeCtx.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("event consumer shutting down")
			return nil
		case msg := <-messageCh:
			if err := ec.handleMessage(msg.Data()); err != nil {
				// A message that cannot be decoded will never succeed.
				log.Error().
					Err(err).
					Str("subject", msg.Subject()).
					Msg("dropping undecodable message")
				if termErr := msg.Term(); termErr != nil {
					log.Error().Err(termErr).Msg("failed to terminate message")
				}
				continue
			}
			if ackErr := msg.Ack(); ackErr != nil {
				log.Error().Err(ackErr).Msg("failed to ACK message")
			}
		}
	}
}

// handleMessage decodes one envelope and hands it to the sink. Terminal
// events close the draft's subscribers once queued.
func (ec *EventConsumer) handleMessage(data []byte) error {
	var env events.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("unmarshal event envelope: %w", err)
	}
	ev, err := events.FromEnvelope(env)
	if err != nil {
		return err
	}

	fresh := ec.sink.Publish(ev)
	log.Debug().
		Str("event_id", env.EventID).
		Str("draft_id", env.DraftID).
		Str("event_type", env.EventType).
		Uint64("sequence", ev.Sequence).
		Bool("fresh", fresh).
		Msg("event relayed to WebSocket clients")

	if ev.Type.Terminal() {
		ec.sink.CloseDraft(ev.DraftID)
	}
	return nil
}

// Connected reports whether the NATS connection is up.
func (ec *EventConsumer) Connected() bool {
	return ec.nc != nil && ec.nc.IsConnected()
}

// Stop gracefully shuts down the event consumer
func (ec *EventConsumer) Stop() error {
	log.Info().Msg("stopping event consumer")

	if ec.nc != nil {
		ec.nc.Close()
	}

	return nil
}

// GetConsumerInfo returns information about the consumer
func (ec *EventConsumer) GetConsumerInfo(ctx context.Context) (*jetstream.ConsumerInfo, error) {
	return ec.consumer.Info(ctx)
}
