package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/msgwire"
	"github.com/unkn0wn-root/msgwire/message"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	DispatchedEvery uint64
	RejectedEvery   uint64
	// Optional sender/key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	dispatchedCtr atomic.Uint64
	rejectedCtr   atomic.Uint64
}

var _ msgwire.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Dispatched(ins msgwire.Instruction, sender message.SenderID) {
	if h.l == nil || !sample(h.opts.DispatchedEvery, &h.dispatchedCtr) {
		return
	}
	h.l.Debug("msgwire.dispatched",
		"instruction", ins.String(),
		"sender", h.redact(sender.String()))
}

func (h *Hooks) Rejected(reason string, err error) {
	if h.l == nil || !sample(h.opts.RejectedEvery, &h.rejectedCtr) {
		return
	}
	h.l.Info("msgwire.rejected",
		"reason", reason,
		"err", err)
}

func (h *Hooks) HandlerFailed(ins msgwire.Instruction, sender message.SenderID, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("msgwire.handler_failed",
		"instruction", ins.String(),
		"sender", h.redact(sender.String()),
		"err", err)
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil {
		return
	}
	h.l.Warn("msgwire.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}
