package ristretto

import (
	"bytes"
	"context"
	"testing"
)

func newProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestSetIsVisibleToGet(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)

	want := []byte("slot-record")
	if ok, err := p.Set(ctx, "k", want, 1, 0); err != nil || !ok {
		t.Fatalf("Set ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}

	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after Del")
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for zero config")
	}
}
