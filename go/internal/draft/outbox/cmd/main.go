package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-draft/go/internal/config"
	"github.com/mcdev12/dynasty-draft/go/internal/dbconfig"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/outbox"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/outbox/worker"
	draftdb "github.com/mcdev12/dynasty-draft/go/internal/draft/repository"
)

func main() {
	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	config.SetupLogging(cfg.LogLevel)

	// DB config
	dbCfg := dbconfig.NewConfigFromEnv()
	dsn := dbCfg.DSN()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}
	log.Info().
		Str("host", dbCfg.Host).
		Int("port", dbCfg.Port).
		Str("database", dbCfg.Database).
		Msg("connected to database")

	// JetStream publisher
	jsCfg := worker.DefaultJetStreamConfig()
	jsCfg.URL = cfg.NATS.URL
	jetStream, err := worker.NewJetStreamPublisher(jsCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create JetStream publisher")
	}
	defer func() {
		if err := jetStream.Close(); err != nil {
			log.Error().Err(err).Msg("close publisher")
		}
	}()

	publishers := []worker.EventPublisher{jetStream}
	if cfg.AMQP.URL != "" {
		amqpCfg := worker.AMQPConfig{URL: cfg.AMQP.URL, Queue: cfg.AMQP.Queue}
		rabbit, err := worker.NewAMQPPublisher(amqpCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create RabbitMQ publisher")
		}
		defer rabbit.Close()
		publishers = append(publishers, rabbit)
		log.Info().Str("queue", amqpCfg.Queue).Msg("relaying to RabbitMQ")
	}

	counters := outbox.NewCounters()
	appCfg := outbox.DefaultConfig()
	appCfg.BatchSize = cfg.Outbox.BatchSize
	appCfg.MaxRetries = cfg.Outbox.MaxRetries
	app := outbox.NewApp(
		outbox.NewRepository(draftdb.New(db)),
		outbox.NewMultiPublisher(publishers...),
		counters,
		appCfg,
	)

	//GRACEFUL SHUTDOWN

	// signal‐aware context
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	var relay outbox.Runner
	switch cfg.Outbox.Mode {
	case "poll":
		w := outbox.NewWorker(app, cfg.Outbox.PollInterval)
		if err := w.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("start outbox worker")
		}
		defer w.Stop()
		relay = w
	default:
		ltCfg := outbox.DefaultListenerConfig()
		ltCfg.DatabaseURL = dsn
		ltCfg.FallbackInterval = cfg.Outbox.FallbackInterval
		listener, err := outbox.NewListener(app, ltCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create outbox listener")
		}
		go func() {
			log.Info().Msg("starting realtime listener")
			errCh <- listener.Start(ctx)
		}()
		relay = listener
	}

	health := outbox.NewHealthChecker(app, db, relay, jetStream.Conn().IsConnected, time.Minute)
	mux := http.NewServeMux()
	mux.Handle("/health", health)
	mux.Handle("/metrics", outbox.NewPrometheusExporter(health, counters))
	srv := &http.Server{Addr: cfg.Outbox.HTTPAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.Outbox.HTTPAddr).Msg("outbox health server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// wait for shutdown or error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("relay exited unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server shutdown")
	}
	log.Info().Msg("graceful shutdown complete")
}
