package msgwire

import (
	"fmt"
	"strings"
)

// Instruction is the closed set of operations a message can request.
type Instruction uint8

const (
	Initialize Instruction = iota
	Close
	Update

	numInstructions = 3
)

var instructionNames = [numInstructions]string{"initialize", "close", "update"}

func (i Instruction) String() string {
	if i.Valid() {
		return instructionNames[i]
	}
	return fmt.Sprintf("instruction(%d)", uint8(i))
}

func (i Instruction) Valid() bool { return i < numInstructions }

// ParseInstruction accepts the names printed by String, case-insensitively.
func ParseInstruction(s string) (Instruction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range instructionNames {
		if name == s {
			return Instruction(i), nil
		}
	}
	return 0, fmt.Errorf("msgwire: unknown instruction name %q", s)
}

func (i Instruction) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, &InvalidInstructionError{Instruction: i}
	}
	return []byte(i.String()), nil
}

func (i *Instruction) UnmarshalText(b []byte) error {
	v, err := ParseInstruction(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// RequiresFee reports whether the instruction refuses messages without a
// priority fee.
func (i Instruction) RequiresFee() bool { return i == Close || i == Update }

// Opcodes pins the wire byte of each Instruction, indexed by Instruction.
// The table is part of the wire contract: pick one and keep it.
type Opcodes [numInstructions]byte

var (
	// CanonicalOpcodes is the default numbering.
	CanonicalOpcodes = Opcodes{Initialize: 0x00, Close: 0x01, Update: 0x02}
	// LegacyOpcodes matches deployments that numbered instructions 3/6/9.
	LegacyOpcodes = Opcodes{Initialize: 0x03, Close: 0x06, Update: 0x09}
)

// Validate checks that every instruction has a distinct code.
func (o Opcodes) Validate() error {
	for i := 0; i < numInstructions; i++ {
		for j := i + 1; j < numInstructions; j++ {
			if o[i] == o[j] {
				return fmt.Errorf("%w: %s and %s share code 0x%02x",
					ErrInvalidOpcodes, Instruction(i), Instruction(j), o[i])
			}
		}
	}
	return nil
}

// Code returns the wire byte for ins. ins must be Valid.
func (o Opcodes) Code(ins Instruction) byte { return o[ins] }

// Lookup maps a wire byte back to its Instruction.
func (o Opcodes) Lookup(code byte) (Instruction, bool) {
	for i, c := range o {
		if c == code {
			return Instruction(i), true
		}
	}
	return 0, false
}
