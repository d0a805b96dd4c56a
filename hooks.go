package msgwire

import "github.com/unkn0wn-root/msgwire/message"

// Rejection reasons passed to Hooks.Rejected.
const (
	ReasonEmptyInput            = "empty_input"
	ReasonUnknownInstruction    = "unknown_instruction"
	ReasonDecode                = "decode"
	ReasonDiscriminatorMismatch = "discriminator_mismatch"
	ReasonMissingFee            = "missing_fee"
)

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; wrap slow ones with
// hooks/async.
type Hooks interface {
	// The handler for ins returned nil.
	Dispatched(ins Instruction, sender message.SenderID)

	// Input was refused before any handler ran. reason is one of the Reason*
	// constants.
	Rejected(reason string, err error)

	// The handler for ins returned err (passed back to the caller unchanged).
	HandlerFailed(ins Instruction, sender message.SenderID, err error)

	// A stored slot was deleted on read.
	// reason ∈ {"corrupt", "gen_mismatch", "value_decode"}
	SelfHeal(storageKey, reason string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Dispatched(Instruction, message.SenderID)           {}
func (NopHooks) Rejected(string, error)                             {}
func (NopHooks) HandlerFailed(Instruction, message.SenderID, error) {}
func (NopHooks) SelfHeal(string, string)                            {}
