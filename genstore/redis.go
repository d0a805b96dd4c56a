package genstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares slot generations across processes and survives restarts.
// With a TTL, reads and bumps refresh expiry, so only a slot left untouched
// for longer than TTL loses its generation. Readers then see 0 and the record
// still stored for the slot is dropped on its next read.
type Redis struct {
	rdb         redis.UniversalClient
	ns          string
	ttl         time.Duration
	closeClient bool
}

var _ GenStore = (*Redis)(nil)

type RedisConfig struct {
	Client    redis.UniversalClient
	Namespace string        // should match the slot store namespace
	TTL       time.Duration // 0 disables expiry
	// CloseClient hands ownership of Client to the store.
	CloseClient bool
}

var ErrNilClient = errors.New("genstore: nil redis client")

func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, ns: cfg.Namespace, ttl: cfg.TTL, closeClient: cfg.CloseClient}, nil
}

func (s *Redis) key(k string) string { return "gen:" + s.ns + ":" + k }

// Current uses GETEX when a TTL is configured so the read keeps the key alive.
func (s *Redis) Current(ctx context.Context, slotKey string) (uint64, error) {
	var cmd *redis.StringCmd
	if s.ttl > 0 {
		cmd = s.rdb.GetEx(ctx, s.key(slotKey), s.ttl)
	} else {
		cmd = s.rdb.Get(ctx, s.key(slotKey))
	}
	res, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseGen(slotKey, res)
}

func (s *Redis) CurrentMany(ctx context.Context, slotKeys []string) (map[string]uint64, error) {
	out := make(map[string]uint64, len(slotKeys))
	if len(slotKeys) == 0 {
		return out, nil
	}
	keys := make([]string, len(slotKeys))
	for i, k := range slotKeys {
		keys[i] = s.key(k)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		var raw string
		switch vv := v.(type) {
		case nil:
			out[slotKeys[i]] = 0
			continue
		case string:
			raw = vv
		case []byte:
			raw = string(vv)
		default:
			raw = fmt.Sprint(vv)
		}
		g, err := parseGen(slotKeys[i], raw)
		if err != nil {
			return nil, err
		}
		out[slotKeys[i]] = g
	}
	return out, nil
}

// Bump pipelines INCR with EXPIRE when a TTL is configured.
func (s *Redis) Bump(ctx context.Context, slotKey string) (uint64, error) {
	k := s.key(slotKey)
	if s.ttl <= 0 {
		return s.rdb.Incr(ctx, k).Uint64()
	}
	var incr *redis.IntCmd
	if _, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, s.ttl)
		return nil
	}); err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}

// Prune is a no-op; Redis expires keys itself when a TTL is set.
func (s *Redis) Prune(time.Duration) {}

func (s *Redis) Close(context.Context) error {
	if !s.closeClient {
		return nil
	}
	if err := s.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

func parseGen(slotKey, raw string) (uint64, error) {
	u, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("genstore: parse generation for %s: %w", slotKey, err)
	}
	return u, nil
}
