package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/dynasty-draft/go/internal/dbconfig"
)

// Player is one entry of the rankings file.
type Player struct {
	ID         uuid.UUID `json:"id"`
	SportID    string    `json:"sport_id"`
	ExternalID string    `json:"external_id"`
	FullName   string    `json:"full_name"`
	Position   string    `json:"position"`
	Status     string    `json:"status"`
	Rank       int       `json:"rank"`
	ADP        *float64  `json:"adp"`
}

const createRankings = `
CREATE TABLE IF NOT EXISTS player_rankings (
    player_id    uuid PRIMARY KEY REFERENCES players(id) ON DELETE CASCADE,
    overall_rank integer NOT NULL,
    adp          double precision,
    updated_at   timestamptz NOT NULL DEFAULT now()
)`

func main() {
	path := flag.String("file", "go/internal/assets/player_rankings.json", "rankings JSON file")
	flag.Parse()
	ctx := context.Background()

	// 1) Load rankings
	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *path, err)
		os.Exit(1)
	}
	var players []Player
	if err := json.Unmarshal(data, &players); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal players: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect to DB
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, createRankings); err != nil {
		fmt.Fprintf(os.Stderr, "create player_rankings: %v\n", err)
		os.Exit(1)
	}

	// 3) Upsert each player with its profile and ranking in one transaction
	total, seeded, errs := len(players), 0, 0
	for _, p := range players {
		if p.Status == "" {
			p.Status = "ACT"
		}
		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `
                INSERT INTO players (id, sport_id, external_id, full_name)
                VALUES ($1,$2,$3,$4)
                ON CONFLICT (sport_id, external_id) DO UPDATE SET full_name = EXCLUDED.full_name
            `, p.ID, p.SportID, p.ExternalID, p.FullName); err != nil {
				return fmt.Errorf("player: %w", err)
			}
			if _, err := tx.Exec(ctx, `
                INSERT INTO nfl_player_profiles (player_id, position, status)
                VALUES ($1,$2,$3)
                ON CONFLICT (player_id) DO UPDATE SET position = EXCLUDED.position, status = EXCLUDED.status
            `, p.ID, p.Position, p.Status); err != nil {
				return fmt.Errorf("profile: %w", err)
			}
			if _, err := tx.Exec(ctx, `
                INSERT INTO player_rankings (player_id, overall_rank, adp)
                VALUES ($1,$2,$3)
                ON CONFLICT (player_id) DO UPDATE
                SET overall_rank = EXCLUDED.overall_rank, adp = EXCLUDED.adp, updated_at = now()
            `, p.ID, p.Rank, p.ADP); err != nil {
				return fmt.Errorf("ranking: %w", err)
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed %s (%s): %v\n", p.FullName, p.ID, err)
			errs++
			continue
		}
		seeded++
	}
	fmt.Printf("Player rankings seed: total=%d seeded=%d errors=%d\n", total, seeded, errs)
}
