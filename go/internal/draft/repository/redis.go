package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key suffixes under the draft key
	poolKeySuffix      = ":pool"
	poolOrderKeySuffix = ":pool:order"
	picksKeySuffix     = ":picks"
	outboxKeySuffix    = ":outbox"

	defaultKeyPrefix = "draft:"
	statusKeyPrefix  = "drafts:status:"
)

var allStatuses = []models.DraftStatus{
	models.DraftStatusScheduled,
	models.DraftStatusWaiting,
	models.DraftStatusActive,
	models.DraftStatusPaused,
	models.DraftStatusCompleted,
	models.DraftStatusCancelled,
}

// RedisConfig holds configuration for the Redis draft store
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client
	// KeyPrefix namespaces every draft key. Defaults to "draft:".
	KeyPrefix string
}

// Redis is an engine.Store on Redis. Writes go through MULTI/EXEC and picks
// WATCH the draft and pool keys.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ engine.Store = (*Redis)(nil)

// NewRedis creates a new Redis-backed draft store
func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Redis{client: cfg.RedisClient, prefix: prefix}, nil
}

func (r *Redis) draftKey(id uuid.UUID) string {
	return r.prefix + id.String()
}

func (r *Redis) statusKey(s models.DraftStatus) string {
	return r.prefix + statusKeyPrefix + string(s)
}

func (r *Redis) CreateDraft(ctx context.Context, d *models.Draft, players []models.PoolPlayer) error {
	draftJSON, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := r.draftKey(d.ID)
	fields := make([]interface{}, 0, len(players)*2)
	order := make([]interface{}, 0, len(players))
	for _, pl := range players {
		plJSON, err := json.Marshal(pl)
		if err != nil {
			return fmt.Errorf("failed to marshal pool player: %w", err)
		}
		fields = append(fields, pl.PlayerID.String(), plJSON)
		order = append(order, pl.PlayerID.String())
	}

	// the draft and its pool land together or not at all
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return fmt.Errorf("draft %s already exists: %w", d.ID, engine.ErrInvalidDraft)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, draftJSON, 0)
			pipe.Del(ctx, key+poolKeySuffix, key+poolOrderKeySuffix)
			if len(fields) > 0 {
				pipe.HSet(ctx, key+poolKeySuffix, fields...)
				pipe.RPush(ctx, key+poolOrderKeySuffix, order...)
			}
			pipe.SAdd(ctx, r.statusKey(d.Status), d.ID.String())
			return nil
		})
		return err
	}, key, key+poolKeySuffix, key+poolOrderKeySuffix)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

func (r *Redis) SaveDraft(ctx context.Context, d *models.Draft, evs []events.DraftEvent) error {
	draftJSON, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	evJSON, err := marshalEvents(evs)
	if err != nil {
		return err
	}

	key := r.draftKey(d.ID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("draft %s: %w", d.ID, engine.ErrDraftNotFound)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, draftJSON, 0)
			r.queueStatus(ctx, pipe, d)
			if len(evJSON) > 0 {
				pipe.RPush(ctx, key+outboxKeySuffix, evJSON...)
			}
			return nil
		})
		return err
	}, key)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *Redis) CommitPick(ctx context.Context, d *models.Draft, pick models.DraftPick, evs []events.DraftEvent) error {
	draftJSON, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	pickJSON, err := json.Marshal(pick)
	if err != nil {
		return fmt.Errorf("failed to marshal pick: %w", err)
	}
	evJSON, err := marshalEvents(evs)
	if err != nil {
		return err
	}

	key := r.draftKey(d.ID)
	poolKey := key + poolKeySuffix
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := getDraftJSON(ctx, tx, key, d.ID)
		if err != nil {
			return err
		}
		if stored.CurrentOverallPick != pick.OverallPick {
			return fmt.Errorf("stored draft at pick %d: %w", stored.CurrentOverallPick, engine.ErrPickAlreadyMade)
		}

		plJSON, err := tx.HGet(ctx, poolKey, pick.PlayerID.String()).Result()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("player %s: %w", pick.PlayerID, engine.ErrPlayerUnavailable)
		}
		if err != nil {
			return err
		}
		var pl models.PoolPlayer
		if err := json.Unmarshal([]byte(plJSON), &pl); err != nil {
			return fmt.Errorf("failed to unmarshal pool player: %w", err)
		}
		if !pl.Available {
			return fmt.Errorf("player %s: %w", pick.PlayerID, engine.ErrPlayerUnavailable)
		}
		pl.Available = false
		claimed, err := json.Marshal(pl)
		if err != nil {
			return fmt.Errorf("failed to marshal pool player: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, draftJSON, 0)
			pipe.HSet(ctx, poolKey, pick.PlayerID.String(), claimed)
			pipe.RPush(ctx, key+picksKeySuffix, pickJSON)
			r.queueStatus(ctx, pipe, d)
			if len(evJSON) > 0 {
				pipe.RPush(ctx, key+outboxKeySuffix, evJSON...)
			}
			return nil
		})
		return err
	}, key, poolKey)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("concurrent write on draft %s: %w", d.ID, engine.ErrPickAlreadyMade)
	}
	if err != nil {
		return fmt.Errorf("failed to commit pick: %w", err)
	}
	return nil
}

func (r *Redis) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return getDraftJSON(ctx, r.client, r.draftKey(id), id)
}

func (r *Redis) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	raw, err := r.client.LRange(ctx, r.draftKey(draftID)+picksKeySuffix, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	picks := make([]models.DraftPick, 0, len(raw))
	for _, s := range raw {
		var p models.DraftPick
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pick: %w", err)
		}
		picks = append(picks, p)
	}
	return picks, nil
}

func (r *Redis) ListPool(ctx context.Context, draftID uuid.UUID) ([]models.PoolPlayer, error) {
	key := r.draftKey(draftID)
	ids, err := r.client.LRange(ctx, key+poolOrderKeySuffix, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pool order: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	vals, err := r.client.HMGet(ctx, key+poolKeySuffix, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pool: %w", err)
	}
	players := make([]models.PoolPlayer, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var pl models.PoolPlayer
		if err := json.Unmarshal([]byte(s), &pl); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pool player: %w", err)
		}
		players = append(players, pl)
	}
	return players, nil
}

func (r *Redis) ListDraftIDsByStatus(ctx context.Context, statuses ...models.DraftStatus) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, s := range statuses {
		members, err := r.client.SMembers(ctx, r.statusKey(s)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list %s drafts: %w", s, err)
		}
		for _, m := range members {
			id, err := uuid.Parse(m)
			if err != nil {
				return nil, fmt.Errorf("invalid draft id %q in status index: %w", m, err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Outbox returns the events recorded for a draft in commit order.
func (r *Redis) Outbox(ctx context.Context, draftID uuid.UUID) ([]events.DraftEvent, error) {
	raw, err := r.client.LRange(ctx, r.draftKey(draftID)+outboxKeySuffix, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list outbox: %w", err)
	}
	out := make([]events.DraftEvent, 0, len(raw))
	for _, s := range raw {
		var ev events.DraftEvent
		if err := json.Unmarshal([]byte(s), &ev); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// queueStatus moves d into the index set of its current status.
func (r *Redis) queueStatus(ctx context.Context, pipe redis.Pipeliner, d *models.Draft) {
	for _, s := range allStatuses {
		if s != d.Status {
			pipe.SRem(ctx, r.statusKey(s), d.ID.String())
		}
	}
	pipe.SAdd(ctx, r.statusKey(d.Status), d.ID.String())
}

func getDraftJSON(ctx context.Context, c redis.Cmdable, key string, id uuid.UUID) (*models.Draft, error) {
	raw, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("draft %s: %w", id, engine.ErrDraftNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	var d models.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &d, nil
}

func marshalEvents(evs []events.DraftEvent) ([]interface{}, error) {
	out := make([]interface{}, 0, len(evs))
	for _, ev := range evs {
		b, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
		}
		out = append(out, b)
	}
	return out, nil
}
