// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    DispatchedEvery: 100, // sample: ~every 100th successful dispatch
//	    RejectedEvery:   1,   // log every rejection
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	d, _ := msgwire.New(handler, msgwire.Options{Hooks: hooks})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/msgwire"
	"github.com/unkn0wn-root/msgwire/message"
)

type Hooks struct {
	inner msgwire.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ msgwire.Hooks = (*Hooks)(nil)

func New(inner msgwire.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Hooks must not be called
// after Close.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Rejected(reason string, err error) { h.try(func() { h.inner.Rejected(reason, err) }) }
func (h *Hooks) SelfHeal(k, r string)              { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) Dispatched(ins msgwire.Instruction, s message.SenderID) {
	h.try(func() { h.inner.Dispatched(ins, s) })
}
func (h *Hooks) HandlerFailed(ins msgwire.Instruction, s message.SenderID, err error) {
	h.try(func() { h.inner.HandlerFailed(ins, s, err) })
}
