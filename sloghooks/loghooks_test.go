package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/msgwire"
	"github.com/unkn0wn-root/msgwire/message"
)

func newBufLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRedactsSender(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{})

	var sender message.SenderID
	sender[0] = 0xAB
	h.HandlerFailed(msgwire.Close, sender, errors.New("slot not found"))

	out := buf.String()
	if strings.Contains(out, sender.String()) {
		t.Fatalf("sender id leaked into log: %s", out)
	}
	if !strings.Contains(out, "msgwire.handler_failed") || !strings.Contains(out, "instruction=close") {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{RejectedEvery: 5, Redact: func(s string) string { return s }})
	for i := 0; i < 10; i++ {
		h.Rejected(msgwire.ReasonDecode, errors.New("short"))
	}
	if n := strings.Count(buf.String(), "msgwire.rejected"); n != 2 {
		t.Fatalf("expected 2 sampled lines, got %d", n)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.Dispatched(msgwire.Initialize, message.SenderID{})
	h.Rejected(msgwire.ReasonEmptyInput, msgwire.ErrEmptyInput)
	h.SelfHeal("k", "corrupt")
}
