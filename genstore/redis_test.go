package genstore

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	redis.UniversalClient
	vals      map[string]string
	getExTTLs []time.Duration
	gets      int
}

func newFakeRedis() *fakeRedis { return &fakeRedis{vals: make(map[string]string)} }

func (f *fakeRedis) Get(ctx context.Context, k string) *redis.StringCmd {
	f.gets++
	if v, ok := f.vals[k]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeRedis) GetEx(ctx context.Context, k string, ttl time.Duration) *redis.StringCmd {
	f.getExTTLs = append(f.getExTTLs, ttl)
	if v, ok := f.vals[k]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeRedis) Incr(ctx context.Context, k string) *redis.IntCmd {
	n, _ := strconv.ParseInt(f.vals[k], 10, 64)
	n++
	f.vals[k] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func TestNewRedisRejectsNilClient(t *testing.T) {
	if _, err := NewRedis(RedisConfig{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestRedisCurrentAndBump(t *testing.T) {
	ctx := context.Background()
	f := newFakeRedis()
	s, err := NewRedis(RedisConfig{Client: f, Namespace: "ns"})
	if err != nil {
		t.Fatal(err)
	}
	if g, err := s.Current(ctx, "slot"); err != nil || g != 0 {
		t.Fatalf("Current on miss: %d %v", g, err)
	}
	if g, err := s.Bump(ctx, "slot"); err != nil || g != 1 {
		t.Fatalf("Bump: %d %v", g, err)
	}
	if g, err := s.Current(ctx, "slot"); err != nil || g != 1 {
		t.Fatalf("Current after bump: %d %v", g, err)
	}
	if f.vals["gen:ns:slot"] != "1" {
		t.Fatalf("stored under wrong key: %v", f.vals)
	}
	if len(f.getExTTLs) != 0 {
		t.Fatalf("GETEX used without a TTL")
	}
}

func TestRedisCurrentRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	f := newFakeRedis()
	f.vals["gen:ns:slot"] = "4"
	s, _ := NewRedis(RedisConfig{Client: f, Namespace: "ns", TTL: time.Minute})

	if g, err := s.Current(ctx, "slot"); err != nil || g != 4 {
		t.Fatalf("Current: %d %v", g, err)
	}
	if len(f.getExTTLs) != 1 || f.getExTTLs[0] != time.Minute || f.gets != 0 {
		t.Fatalf("expected one GETEX with the TTL, got %v (plain gets %d)", f.getExTTLs, f.gets)
	}
}

func TestRedisCurrentRejectsGarbage(t *testing.T) {
	f := newFakeRedis()
	f.vals["gen:ns:slot"] = "nope"
	s, _ := NewRedis(RedisConfig{Client: f, Namespace: "ns"})
	if _, err := s.Current(context.Background(), "slot"); err == nil {
		t.Fatalf("expected parse error")
	}
}
