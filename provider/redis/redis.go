// Package redis stores slot records in Redis so several processes can share
// them. Open it together with genstore.Redis on the same client; records and
// generations must live in the same place.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/msgwire/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

type Provider struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var (
	_ pr.Provider = (*Provider)(nil)
	_ pr.Creator  = (*Provider)(nil)
)

type Config struct {
	Client goredis.UniversalClient
	// CloseClient hands ownership of Client to the provider. Leave it false
	// when a genstore.Redis or the application still uses the client.
	CloseClient bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Provider{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (p *Provider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

// Set overwrites the slot record. Redis has no admission policy, so ok is
// false only alongside an error.
func (p *Provider) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if err := p.rdb.Set(ctx, key, value, expiry(ttl)).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Create is SET NX: the first process to open a sender's slot wins.
func (p *Provider) Create(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	return p.rdb.SetNX(ctx, key, value, expiry(ttl)).Result()
}

func (p *Provider) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, key).Err()
}

// Close is a no-op unless the provider owns the client. Repeated calls are
// harmless.
func (p *Provider) Close(context.Context) error {
	if !p.closeClient {
		return nil
	}
	if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}

// expiry maps the provider TTL contract (<= 0 never expires) onto go-redis,
// where 0 means no expiry and negative values mean KEEPTTL.
func expiry(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return ttl
}
