package msgwire

// Options tune a Dispatcher. The zero value is valid.
type Options struct {
	// Opcodes pins the wire numbering; zero value => CanonicalOpcodes.
	Opcodes Opcodes

	// StrictDiscriminator also requires the record's discriminator field to
	// equal the envelope opcode. Off by default: the envelope byte is the
	// only routing source and the field is carried through untouched.
	StrictDiscriminator bool

	Hooks Hooks // if nil, NopHooks is used
}

// New returns a Dispatcher routing to h.
func New(h Handler, opts Options) (*Dispatcher, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	ops := coalesce(opts.Opcodes, CanonicalOpcodes)
	if err := ops.Validate(); err != nil {
		return nil, err
	}
	return &Dispatcher{
		h:      h,
		ops:    ops,
		strict: opts.StrictDiscriminator,
		hooks:  coalesce[Hooks](opts.Hooks, NopHooks{}),
	}, nil
}
