package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/dynasty-draft/go/internal/dbconfig"
)

// FantasyTeam is one team of the league file. CreatedAt fixes the default
// draft order.
type FantasyTeam struct {
	ID        uuid.UUID `json:"id"`
	LeagueID  uuid.UUID `json:"league_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func main() {
	path := flag.String("file", "go/internal/assets/fantasy_teams.json", "fantasy teams JSON file")
	flag.Parse()

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var teams []FantasyTeam
	if err := json.Unmarshal(data, &teams); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Insert and count
	var (
		total    = len(teams)
		inserted int
		skipped  int
		errs     int
	)

	for _, t := range teams {
		cmdTag, err := pool.Exec(context.Background(), `
            INSERT INTO fantasy_teams (id, league_id, owner_id, name, created_at)
            VALUES ($1,$2,$3,$4,$5)
            ON CONFLICT (id) DO NOTHING
        `, t.ID, t.LeagueID, t.OwnerID, t.Name, t.CreatedAt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting team %s: %v\n", t.ID, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	fmt.Printf("Fantasy teams seed: total=%d inserted=%d skipped=%d errors=%d\n", total, inserted, skipped, errs)
}
