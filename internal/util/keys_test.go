package util

import (
	"strings"
	"testing"

	"github.com/unkn0wn-root/msgwire/message"
)

func TestSlotKeyIsolatesNamespaces(t *testing.T) {
	var id message.SenderID
	id[31] = 0x0f
	a, b := SlotKey("a", id), SlotKey("b", id)
	if a == b {
		t.Fatalf("namespaces share a key: %s", a)
	}
	if !strings.HasPrefix(a, "slot:a:") || !strings.HasSuffix(a, "0f") {
		t.Fatalf("unexpected key %s", a)
	}
}
