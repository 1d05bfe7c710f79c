package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-draft/go/internal/auth"
	"github.com/mcdev12/dynasty-draft/go/internal/config"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/broadcast"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/gateway"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	config.SetupLogging(cfg.LogLevel)

	log.Info().
		Str("state_url", cfg.Gateway.StateURL).
		Str("nats_url", cfg.NATS.URL).
		Str("addr", cfg.Gateway.HTTPAddr).
		Msg("starting draft gateway")

	hub := broadcast.NewHub(broadcast.Config{
		QueueSize:  cfg.Draft.SubscriberQueue,
		ReplaySize: cfg.Draft.ReplaySize,
	})

	jsCfg := gateway.DefaultJetStreamConsumerConfig()
	jsCfg.URL = cfg.NATS.URL
	jsCfg.ConsumerName = cfg.Gateway.Consumer
	consumer, err := gateway.NewEventConsumer(hub, jsCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event consumer")
	}

	stateClient := gateway.NewStateClient(cfg.Gateway.StateURL)
	stateClient.SetTimeout(cfg.Draft.OpTimeout)

	gwCfg := gateway.DefaultConfig()
	gwCfg.Verifier = auth.NewVerifier(cfg.Auth.JWTSecret)
	gwCfg.AllowedOrigins = cfg.Auth.AllowedOrigins
	service := gateway.NewService(gwCfg,
		gateway.NewRemoteSource(stateClient, hub),
		gateway.WithEventConsumer(consumer),
	)

	server := &http.Server{
		Addr:              cfg.Gateway.HTTPAddr,
		Handler:           service.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serviceDone := make(chan struct{})
	go func() {
		defer close(serviceDone)
		if err := service.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway service failed")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		stop()
	}

	// Hijacked WebSocket connections are not tracked by Shutdown; the
	// service closes those.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	<-serviceDone

	log.Info().Msg("draft gateway shutdown complete")
}
