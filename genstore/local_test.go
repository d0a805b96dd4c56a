package genstore

import (
	"context"
	"testing"
	"time"
)

func TestLocalCurrentManyReportsZeroForUnknown(t *testing.T) {
	ctx := context.Background()
	s := NewLocal(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	for range 2 {
		if _, err := s.Bump(ctx, "b"); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.CurrentMany(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if got["a"] != 0 || got["b"] != 2 || got["c"] != 0 {
		t.Fatalf("got=%v want a=0,b=2,c=0", got)
	}
}

func TestLocalBumpIsMonotonic(t *testing.T) {
	ctx := context.Background()
	s := NewLocal(0, 0)
	var last uint64
	for i := 0; i < 5; i++ {
		g, err := s.Bump(ctx, "slot")
		if err != nil {
			t.Fatal(err)
		}
		if g != last+1 {
			t.Fatalf("bump %d: got %d want %d", i, g, last+1)
		}
		last = g
	}
	if g, _ := s.Current(ctx, "slot"); g != last {
		t.Fatalf("Current=%d want %d", g, last)
	}
}

func TestLocalPruneDropsIdle(t *testing.T) {
	ctx := context.Background()
	s := NewLocal(0, 0)
	if _, err := s.Bump(ctx, "old"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	s.Prune(10 * time.Millisecond)
	if g, _ := s.Current(ctx, "old"); g != 0 {
		t.Fatalf("expected pruned -> 0, got %d", g)
	}
}

func TestLocalCloseIdempotent(t *testing.T) {
	s := NewLocal(time.Millisecond, time.Hour)
	ctx := context.Background()
	if err := s.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestNewRedisRejectsNilClientExact(t *testing.T) {
	if _, err := NewRedis(RedisConfig{}); err != ErrNilClient {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestLocalReadsKeepSlotAlive(t *testing.T) {
	ctx := context.Background()
	s := NewLocal(0, 0)
	if _, err := s.Bump(ctx, "open"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Bump(ctx, "idle"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if g, _ := s.Current(ctx, "open"); g != 1 {
		t.Fatalf("Current=%d want 1", g)
	}
	s.Prune(20 * time.Millisecond)

	if g, _ := s.Current(ctx, "open"); g != 1 {
		t.Fatalf("recently read slot was pruned")
	}
	if g, _ := s.Current(ctx, "idle"); g != 0 {
		t.Fatalf("idle slot should be pruned, got %d", g)
	}
}

func TestLocalRetention(t *testing.T) {
	ctx := context.Background()
	off := NewLocal(0, time.Hour)
	if off.Retention() != 0 {
		t.Fatalf("loop disabled without interval, Retention=%v", off.Retention())
	}
	on := NewLocal(time.Hour, 2*time.Hour)
	t.Cleanup(func() { _ = on.Close(ctx) })
	if on.Retention() != 2*time.Hour {
		t.Fatalf("Retention=%v", on.Retention())
	}
}
