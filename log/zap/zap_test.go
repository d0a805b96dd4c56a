package zap

import (
	"testing"

	"github.com/unkn0wn-root/msgwire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := ZapLogger{L: zap.New(core)}

	l.Warn("slot self-healed", msgwire.Fields{"key": "slot:msg:ab", "reason": "corrupt"})
	l.Debug("no fields", nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	got := entries[0]
	if got.Level != zapcore.WarnLevel || got.Message != "slot self-healed" {
		t.Fatalf("unexpected entry %+v", got.Entry)
	}
	ctx := got.ContextMap()
	if ctx["key"] != "slot:msg:ab" || ctx["reason"] != "corrupt" {
		t.Fatalf("unexpected fields %v", ctx)
	}
}
