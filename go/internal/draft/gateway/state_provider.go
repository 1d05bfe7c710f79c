package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/clients"
	"github.com/mcdev12/dynasty-draft/go/internal/auth"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/broadcast"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/rs/zerolog/log"
)

// attachAttempts bounds snapshot retries when the local replay buffer has
// moved past a fetched snapshot.
const attachAttempts = 3

// StateClient calls the draftd HTTP API.
type StateClient struct {
	*clients.BaseClient
}

func NewStateClient(baseURL string) *StateClient {
	return &StateClient{BaseClient: clients.NewBaseClient(baseURL)}
}

// forward passes the caller's token on to draftd.
func forward(ctx context.Context) []clients.Header {
	if ident, ok := auth.FromContext(ctx); ok && ident.Token != "" {
		return []clients.Header{{Key: "Authorization", Value: "Bearer " + ident.Token}}
	}
	return nil
}

// remoteError maps a draftd error response back onto the engine sentinels.
func remoteError(err error) error {
	var se *clients.StatusError
	if !errors.As(err, &se) {
		return err
	}
	var body ErrorResponse
	if jsonErr := json.Unmarshal(se.Body, &body); jsonErr != nil {
		return err
	}
	return errorFromResponse(se.StatusCode, body)
}

func (c *StateClient) GetState(ctx context.Context, draftID uuid.UUID) (engine.Snapshot, error) {
	data, err := c.Get(ctx, fmt.Sprintf("/api/drafts/%s/state", draftID), forward(ctx)...)
	if err != nil {
		return engine.Snapshot{}, remoteError(err)
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (c *StateClient) ActiveDrafts(ctx context.Context) ([]engine.Snapshot, error) {
	data, err := c.Get(ctx, "/api/drafts/active?view=full", forward(ctx)...)
	if err != nil {
		return nil, remoteError(err)
	}
	var snaps []engine.Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("decode active drafts: %w", err)
	}
	return snaps, nil
}

func (c *StateClient) MakePick(ctx context.Context, req engine.PickRequest) (models.DraftPick, error) {
	body := pickRequest{
		TeamID:              req.TeamID,
		PlayerID:            req.PlayerID,
		ExpectedOverallPick: req.ExpectedOverallPick,
	}
	data, err := c.PostJSON(ctx, fmt.Sprintf("/api/drafts/%s/picks", req.DraftID), body, forward(ctx)...)
	if err != nil {
		return models.DraftPick{}, remoteError(err)
	}
	var pick models.DraftPick
	if err := json.Unmarshal(data, &pick); err != nil {
		return models.DraftPick{}, fmt.Errorf("decode pick: %w", err)
	}
	return pick, nil
}

// Hub is the local fan-out a RemoteSource attaches clients to.
type Hub interface {
	Attach(draftID uuid.UUID, afterSeq uint64) (*broadcast.Subscriber, error)
	Detach(sub *broadcast.Subscriber)
	CloseDraft(draftID uuid.UUID)
}

// RemoteSource serves clients at the edge: state and picks go to draftd,
// events come from a local hub fed by the bus.
type RemoteSource struct {
	client *StateClient
	hub    Hub
}

func NewRemoteSource(client *StateClient, hub Hub) *RemoteSource {
	return &RemoteSource{client: client, hub: hub}
}

// Subscribe fetches a snapshot and attaches after its sequence. When the
// hub's replay buffer no longer covers the snapshot it fetches a newer one.
func (s *RemoteSource) Subscribe(ctx context.Context, draftID uuid.UUID) (engine.Snapshot, *broadcast.Subscriber, error) {
	var lastErr error
	for attempt := 0; attempt < attachAttempts; attempt++ {
		snap, err := s.client.GetState(ctx, draftID)
		if err != nil {
			return engine.Snapshot{}, nil, err
		}
		sub, err := s.hub.Attach(draftID, snap.LastSequence)
		if err == nil {
			if snap.Status.Terminal() {
				// No more events will arrive for this draft.
				s.hub.CloseDraft(draftID)
			}
			return snap, sub, nil
		}
		if !errors.Is(err, broadcast.ErrReplayGap) {
			return engine.Snapshot{}, nil, fmt.Errorf("attach subscriber: %w", err)
		}
		lastErr = err
		log.Debug().
			Str("draft_id", draftID.String()).
			Uint64("sequence", snap.LastSequence).
			Int("attempt", attempt+1).
			Msg("snapshot behind replay buffer, refetching")
	}
	return engine.Snapshot{}, nil, fmt.Errorf("attach subscriber: %w", lastErr)
}

func (s *RemoteSource) Unsubscribe(sub *broadcast.Subscriber) {
	s.hub.Detach(sub)
}

func (s *RemoteSource) MakePick(ctx context.Context, req engine.PickRequest) (models.DraftPick, error) {
	return s.client.MakePick(ctx, req)
}

func (s *RemoteSource) GetState(ctx context.Context, draftID uuid.UUID) (engine.Snapshot, error) {
	return s.client.GetState(ctx, draftID)
}

func (s *RemoteSource) ActiveDrafts(ctx context.Context) ([]engine.Snapshot, error) {
	return s.client.ActiveDrafts(ctx)
}
