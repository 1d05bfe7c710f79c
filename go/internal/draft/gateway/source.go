package gateway

//go:generate mockgen -source=source.go -destination=mocks/mock_gateway.go -package=mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/broadcast"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
)

// DraftSource is what WebSocket clients and the state routes read from. The
// engine satisfies it in-process; RemoteSource satisfies it at the edge.
type DraftSource interface {
	Subscribe(ctx context.Context, draftID uuid.UUID) (engine.Snapshot, *broadcast.Subscriber, error)
	Unsubscribe(sub *broadcast.Subscriber)
	MakePick(ctx context.Context, req engine.PickRequest) (models.DraftPick, error)
	GetState(ctx context.Context, draftID uuid.UUID) (engine.Snapshot, error)
	ActiveDrafts(ctx context.Context) ([]engine.Snapshot, error)
}

// Commands is the full draft API served by draftd.
type Commands interface {
	DraftSource
	Create(ctx context.Context, req engine.CreateDraftRequest) (engine.Snapshot, error)
	SetOrder(ctx context.Context, draftID uuid.UUID, draftOrder []uuid.UUID) error
	Start(ctx context.Context, draftID uuid.UUID) error
	Pause(ctx context.Context, draftID uuid.UUID, reason string) error
	Resume(ctx context.Context, draftID uuid.UUID) error
	Cancel(ctx context.Context, draftID uuid.UUID, reason string) error
	SearchPlayers(ctx context.Context, draftID uuid.UUID, query string, limit int) ([]models.PoolPlayer, error)
}

// PlayerSource seeds the pool of a draft created without players.
type PlayerSource interface {
	ListDraftable(ctx context.Context, sport string) ([]models.PoolPlayer, error)
}

var (
	_ Commands    = (*engine.Engine)(nil)
	_ DraftSource = (*RemoteSource)(nil)
)
