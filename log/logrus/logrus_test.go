package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/unkn0wn-root/msgwire"
)

func TestLogrusLoggerFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := LogrusLogger{E: logrus.NewEntry(base)}

	l.Error("update failed", msgwire.Fields{"sender": "ab"})

	last := hook.LastEntry()
	if last == nil {
		t.Fatalf("expected an entry")
	}
	if last.Level != logrus.ErrorLevel || last.Message != "update failed" || last.Data["sender"] != "ab" {
		t.Fatalf("unexpected entry %+v", last)
	}
}
