// Command msgwirectl builds, inspects and dispatches msgwire instruction
// envelopes.
//
//	msgwirectl [-config file.toml] encode -op update -sender <hex> -fee 10 -data hello
//	msgwirectl [-config file.toml] inspect <hex envelope>...
//	msgwirectl [-config file.toml] dispatch < envelopes.txt
//
// inspect and dispatch read one hex envelope per argument, or one per line on
// stdin when no arguments are given.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/unkn0wn-root/msgwire"
	"github.com/unkn0wn-root/msgwire/message"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("msgwirectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "TOML config file")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: msgwirectl [-config file.toml] <encode|inspect|dispatch> [flags] [envelopes...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "msgwirectl: %v\n", err)
		return 1
	}

	sub, rest := fs.Arg(0), fs.Args()[1:]
	switch sub {
	case "encode":
		err = runEncode(cfg, rest, stdout, stderr)
	case "inspect":
		err = runInspect(cfg, rest, stdin, stdout)
	case "dispatch":
		err = runDispatch(ctx, cfg, rest, stdin, stdout, stderr)
	default:
		fs.Usage()
		return 2
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "msgwirectl %s: %v\n", sub, err)
		return 1
	}
	return 0
}

func newDispatcher(cfg config, h msgwire.Handler, hooks msgwire.Hooks) (*msgwire.Dispatcher, error) {
	return msgwire.New(h, msgwire.Options{
		Opcodes:             cfg.Dispatch.Opcodes,
		StrictDiscriminator: cfg.Dispatch.StrictDiscriminator,
		Hooks:               hooks,
	})
}

func runEncode(cfg config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	op := fs.String("op", "initialize", "instruction: initialize|close|update")
	sender := fs.String("sender", "", "sender id, 64 hex chars (default all zero)")
	size := fs.Uint64("size", 0, "size field (default len(data))")
	fee := fs.Uint64("fee", 0, "priority fee, 0 = absent")
	data := fs.String("data", "", "message body, at most 1024 bytes")
	disc := fs.Uint64("disc", 0, "discriminator field (default the instruction's opcode)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ins, err := msgwire.ParseInstruction(*op)
	if err != nil {
		return err
	}
	d, err := newDispatcher(cfg, msgwire.HandlerFuncs{}, nil)
	if err != nil {
		return err
	}

	m := message.Message{
		Discriminator: uint64(d.Opcodes().Code(ins)),
		Size:          uint64(len(*data)),
		PriorityFee:   message.FeeFromWire(*fee),
	}
	if *sender != "" {
		if m.SenderID, err = message.ParseSenderID(*sender); err != nil {
			return err
		}
	}
	if m.Data, err = message.BodyFrom([]byte(*data)); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			m.Size = *size
		case "disc":
			m.Discriminator = *disc
		}
	})

	raw, err := d.Envelope(ins, m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, hex.EncodeToString(raw))
	return err
}

type inspected struct {
	Instruction msgwire.Instruction `json:"instruction"`
	Opcode      uint8               `json:"opcode"`
	Message     message.Message     `json:"message"`
}

func runInspect(cfg config, args []string, stdin io.Reader, stdout io.Writer) error {
	d, err := newDispatcher(cfg, msgwire.HandlerFuncs{}, nil)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	failed := 0
	err = eachEnvelope(args, stdin, func(raw []byte) error {
		ins, m, err := d.Parse(raw)
		if err != nil {
			failed++
			return enc.Encode(map[string]string{"error": err.Error()})
		}
		return enc.Encode(inspected{Instruction: ins, Opcode: raw[0], Message: m})
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d envelope(s) rejected", failed)
	}
	return nil
}

func runDispatch(ctx context.Context, cfg config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	log, flush, err := buildLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	defer flush()

	hooks, err := buildHooks(cfg.Log, stderr)
	if err != nil {
		return err
	}
	defer hooks.Close()

	store, err := buildStore(cfg.Store, log, hooks)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Shutdown(ctx); err != nil {
			log.Warn("store shutdown failed", msgwire.Fields{"err": err})
		}
	}()

	rt := &routed{h: store}
	d, err := newDispatcher(cfg, rt, hooks)
	if err != nil {
		return err
	}

	failed := 0
	err = eachEnvelope(args, stdin, func(raw []byte) error {
		rt.reset()
		if err := d.Dispatch(ctx, raw); err != nil {
			failed++
			_, werr := fmt.Fprintf(stdout, "fail %v\n", err)
			return werr
		}
		_, werr := fmt.Fprintf(stdout, "ok %s %s\n", rt.ins, rt.sender)
		return werr
	})
	if err != nil {
		return err
	}
	log.Info("dispatch finished", msgwire.Fields{"failed": failed, "collected": store.Collected()})
	if _, err := fmt.Fprintf(stdout, "collected %d\n", store.Collected()); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d envelope(s) failed", failed)
	}
	return nil
}

// routed remembers the instruction and sender of the last message it passed
// on to h.
type routed struct {
	h      msgwire.Handler
	ins    msgwire.Instruction
	sender message.SenderID
}

func (r *routed) reset() { *r = routed{h: r.h} }

func (r *routed) Initialize(ctx context.Context, m message.Message) error {
	r.ins, r.sender = msgwire.Initialize, m.SenderID
	return r.h.Initialize(ctx, m)
}

func (r *routed) Update(ctx context.Context, m message.Message) error {
	r.ins, r.sender = msgwire.Update, m.SenderID
	return r.h.Update(ctx, m)
}

func (r *routed) Close(ctx context.Context, m message.Message) error {
	r.ins, r.sender = msgwire.Close, m.SenderID
	return r.h.Close(ctx, m)
}

// eachEnvelope feeds fn the decoded hex envelopes from args, or from stdin
// lines when args is empty. Blank lines and lines starting with # are skipped.
func eachEnvelope(args []string, stdin io.Reader, fn func([]byte) error) error {
	handle := func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "#") {
			return nil
		}
		raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return fmt.Errorf("envelope %.16q...: %w", s, err)
		}
		return fn(raw)
	}

	if len(args) > 0 {
		for _, a := range args {
			if err := handle(a); err != nil {
				return err
			}
		}
		return nil
	}

	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 0, 4*msgwire.EnvelopeLen), 16*msgwire.EnvelopeLen)
	for sc.Scan() {
		if err := handle(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}
