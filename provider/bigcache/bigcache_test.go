package bigcache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestRoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{LifeWindow: time.Minute, Shards: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(ctx) })

	if _, ok, err := p.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}

	want := []byte{0, 1, 2, 3}
	if ok, err := p.Set(ctx, "k", want, 0, 0); err != nil || !ok {
		t.Fatalf("Set ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, want) {
		t.Fatalf("Get = %v,%v,%v", got, ok, err)
	}

	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del missing should be nil, got %v", err)
	}
}
