package redis

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// fakeClient implements the handful of commands the provider issues.
// Anything else panics through the nil embedded interface.
type fakeClient struct {
	goredis.UniversalClient

	mu     sync.Mutex
	kv     map[string]string
	ttls   map[string]time.Duration
	getErr error
	closed int
}

func newFake() *fakeClient {
	return &fakeClient{kv: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Get(_ context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return goredis.NewStringResult("", f.getErr)
	}
	v, ok := f.kv[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, exp time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kv[key] = string(value.([]byte))
	f.ttls[key] = exp
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeClient) SetNX(_ context.Context, key string, value interface{}, exp time.Duration) *goredis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.kv[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	f.kv[key] = string(value.([]byte))
	f.ttls[key] = exp
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.kv[k]; ok {
			delete(f.kv, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	if f.closed > 1 {
		return goredis.ErrClosed
	}
	return nil
}

func TestNewRejectsNilClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestGetTranslatesMissAndHit(t *testing.T) {
	ctx := context.Background()
	fc := newFake()
	p, _ := New(Config{Client: fc})

	if b, ok, err := p.Get(ctx, "slot:ns:aa"); ok || err != nil || b != nil {
		t.Fatalf("miss: b=%v ok=%v err=%v", b, ok, err)
	}
	want := []byte{0, 'M', 'S', 'G', 'W', 0xFF}
	if ok, err := p.Set(ctx, "slot:ns:aa", want, 1, 0); !ok || err != nil {
		t.Fatalf("Set ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "slot:ns:aa")
	if !ok || err != nil || !bytes.Equal(got, want) {
		t.Fatalf("hit: got=%v ok=%v err=%v", got, ok, err)
	}

	boom := errors.New("conn reset")
	fc.getErr = boom
	if _, ok, err := p.Get(ctx, "slot:ns:aa"); ok || !errors.Is(err, boom) {
		t.Fatalf("transport error: ok=%v err=%v", ok, err)
	}
}

func TestCreateOnlyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	fc := newFake()
	p, _ := New(Config{Client: fc})

	created, err := p.Create(ctx, "slot:ns:bb", []byte("first"), 1, time.Minute)
	if err != nil || !created {
		t.Fatalf("first Create: created=%v err=%v", created, err)
	}
	created, err = p.Create(ctx, "slot:ns:bb", []byte("second"), 1, time.Minute)
	if err != nil || created {
		t.Fatalf("second Create should lose: created=%v err=%v", created, err)
	}
	if got, _, _ := p.Get(ctx, "slot:ns:bb"); string(got) != "first" {
		t.Fatalf("losing Create overwrote the record: %q", got)
	}
	if fc.ttls["slot:ns:bb"] != time.Minute {
		t.Fatalf("ttl=%v", fc.ttls["slot:ns:bb"])
	}

	if err := p.Del(ctx, "slot:ns:bb"); err != nil {
		t.Fatal(err)
	}
	if created, _ := p.Create(ctx, "slot:ns:bb", []byte("again"), 1, 0); !created {
		t.Fatalf("Create after Del should win")
	}
}

func TestNonPositiveTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	fc := newFake()
	p, _ := New(Config{Client: fc})

	if _, err := p.Set(ctx, "k", []byte("v"), 1, -time.Second); err != nil {
		t.Fatal(err)
	}
	if fc.ttls["k"] != 0 {
		t.Fatalf("negative ttl must not reach redis as KEEPTTL, got %v", fc.ttls["k"])
	}
}

func TestCloseOnlyWhenOwned(t *testing.T) {
	ctx := context.Background()
	borrowed := newFake()
	p, _ := New(Config{Client: borrowed})
	if err := p.Close(ctx); err != nil || borrowed.closed != 0 {
		t.Fatalf("borrowed client closed: closed=%d err=%v", borrowed.closed, err)
	}

	owned := newFake()
	p, _ = New(Config{Client: owned, CloseClient: true})
	if err := p.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if owned.closed != 2 {
		t.Fatalf("closed=%d", owned.closed)
	}
}
