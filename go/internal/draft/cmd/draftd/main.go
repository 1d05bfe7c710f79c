package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-draft/go/internal/auth"
	"github.com/mcdev12/dynasty-draft/go/internal/config"
	"github.com/mcdev12/dynasty-draft/go/internal/dbconfig"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/autopick"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/broadcast"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/gateway"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/scheduler"
	"github.com/mcdev12/dynasty-draft/go/internal/player"
	"github.com/mcdev12/dynasty-draft/go/internal/roster"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open draft store")
	}
	defer closeStore()

	lineup, err := roster.LoadLineup(cfg.Draft.LineupFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load lineup")
	}

	hub := broadcast.NewHub(broadcast.Config{
		QueueSize:  cfg.Draft.SubscriberQueue,
		ReplaySize: cfg.Draft.ReplaySize,
	})

	engCfg := engine.Config{
		Store:              store,
		Broadcaster:        hub,
		Strategy:           autopick.NewSelector(autopick.WithRoster(roster.NewLineupNeeds(lineup, store))),
		TimeUpdateInterval: cfg.Draft.TimeUpdateInterval,
		InboxSize:          cfg.Draft.InboxSize,
		OpTimeout:          cfg.Draft.OpTimeout,
	}

	// Teams and players come from the league database when enabled.
	var players gateway.PlayerSource
	if cfg.Draft.UseDirectory {
		pool, err := pgxpool.New(ctx, dbconfig.NewConfigFromEnv().DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("connect league database")
		}
		defer pool.Close()
		engCfg.Teams = roster.NewTeamDirectory(pool)
		players = player.NewRepository(pool)
		log.Info().Str("sport", cfg.Draft.Sport).Msg("loading teams and players from league database")
	}

	eng, err := engine.NewEngine(engCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create engine")
	}
	defer eng.Close()

	if _, err := eng.Restore(ctx); err != nil {
		log.Fatal().Err(err).Msg("restore drafts")
	}

	sched, err := scheduler.NewScheduler(eng, cfg.Draft.SchedulerInterval, cfg.Draft.OpTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("create scheduler")
	}
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("start scheduler")
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("stop scheduler")
		}
	}()

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
	if !verifier.Enabled() {
		log.Warn().Msg("JWT_SECRET not set, API is unauthenticated")
	}
	gwCfg := gateway.DefaultConfig()
	gwCfg.Verifier = verifier
	gwCfg.AllowedOrigins = cfg.Auth.AllowedOrigins
	service := gateway.NewService(gwCfg, eng,
		gateway.WithCommands(gateway.NewCommandHandler(eng, verifier, players, cfg.Draft.Sport)),
	)

	server := setupServer(cfg.Draft.HTTPAddr, service.Handler())

	serviceDone := make(chan struct{})
	go func() {
		defer close(serviceDone)
		if err := service.Start(ctx); err != nil {
			log.Error().Err(err).Msg("draft service failed")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("draftd listening")
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	<-serviceDone

	log.Info().Msg("draftd shutdown complete")
}
