package util

import (
	"github.com/unkn0wn-root/msgwire/message"
)

// SlotKey returns the storage key of a sender's slot: "slot:<ns>:<hex sender>".
func SlotKey(ns string, sender message.SenderID) string {
	return "slot:" + ns + ":" + sender.String()
}
