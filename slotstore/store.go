// Package slotstore is a msgwire.Handler that keeps the latest message of
// every sender in a byte store.
//
// Each sender owns one slot. Initialize opens it, Update replaces the stored
// message, Close removes it. Every mutation bumps the slot's generation, and
// stored records carry the generation they were written at; a record whose
// generation is not current, that fails to unframe, or whose payload no
// longer decodes is deleted on read and reported as a miss.
//
// Opening a slot is atomic across processes when the provider implements
// provider.Creator (provider/redis does). Otherwise two processes sharing a
// provider can both open the same sender and the last write wins.
package slotstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/msgwire"
	"github.com/unkn0wn-root/msgwire/codec"
	"github.com/unkn0wn-root/msgwire/genstore"
	"github.com/unkn0wn-root/msgwire/internal/util"
	"github.com/unkn0wn-root/msgwire/internal/wire"
	"github.com/unkn0wn-root/msgwire/message"
	"github.com/unkn0wn-root/msgwire/provider"
)

const defaultNamespace = "default"

var (
	ErrSlotExists   = errors.New("slotstore: slot already open")
	ErrSlotNotFound = errors.New("slotstore: slot not open")
	ErrRejected     = errors.New("slotstore: provider rejected write")
	ErrNoProvider   = errors.New("slotstore: provider is required")
)

// SlotError ties a slot failure to the sender it concerns.
type SlotError struct {
	Sender message.SenderID
	Err    error
}

func (e *SlotError) Error() string { return e.Err.Error() + " (sender " + e.Sender.String() + ")" }
func (e *SlotError) Unwrap() error { return e.Err }

// CostFunc returns the provider cost of storing record under key.
type CostFunc func(key string, record []byte) int64

type Options struct {
	Namespace string            // default "default"
	Provider  provider.Provider // required

	// Codec encodes the stored message; nil => codec.Fixed.
	Codec codec.Codec[message.Message]

	// GenStore holds slot generations; nil => genstore.Local that never
	// prunes. A pruned or expired generation makes the stored record stale,
	// so any retention or TTL on a custom GenStore must outlast the longest
	// gap between reads of an open slot. Share one between processes
	// (genstore.Redis) when they share Provider.
	GenStore genstore.GenStore

	Logger msgwire.Logger // nil => NopLogger
	Hooks  msgwire.Hooks  // nil => NopHooks

	// TTL is passed to every provider write; <= 0 keeps slots until closed.
	TTL time.Duration

	// MaxValueBytes caps encoded payloads in both directions; <= 0 disables.
	MaxValueBytes int

	// ComputeCost defaults to the record length.
	ComputeCost CostFunc
}

// Store is safe for concurrent use as far as its Provider and GenStore are.
type Store struct {
	ns       string
	provider provider.Provider
	codec    codec.Codec[message.Message]
	gen      genstore.GenStore
	log      msgwire.Logger
	hooks    msgwire.Hooks
	ttl      time.Duration
	maxValue int
	cost     CostFunc

	collected atomic.Uint64
	closeOnce sync.Once
	closeErr  error
}

var _ msgwire.Handler = (*Store)(nil)

func New(opts Options) (*Store, error) {
	if opts.Provider == nil {
		return nil, ErrNoProvider
	}
	s := &Store{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		gen:      opts.GenStore,
		log:      opts.Logger,
		hooks:    opts.Hooks,
		ttl:      opts.TTL,
		maxValue: opts.MaxValueBytes,
		cost:     opts.ComputeCost,
	}
	if s.ns == "" {
		s.ns = defaultNamespace
	}
	if s.codec == nil {
		s.codec = codec.Fixed{}
	}
	if s.maxValue > 0 {
		s.codec = codec.LimitCodec[message.Message]{Inner: s.codec, MaxDecode: s.maxValue}
	}
	if s.gen == nil {
		s.gen = genstore.NewLocal(0, 0)
	}
	if s.log == nil {
		s.log = msgwire.NopLogger{}
	}
	if s.hooks == nil {
		s.hooks = msgwire.NopHooks{}
	}
	if s.cost == nil {
		s.cost = func(_ string, rec []byte) int64 { return int64(len(rec)) }
	}
	return s, nil
}

// Initialize opens the sender's slot with msg.
//
// The record is written at the next generation before the generation is
// bumped, so a process that loses a conditional create leaves the winner's
// record current. Reads accept a record one generation ahead for that window.
func (s *Store) Initialize(ctx context.Context, msg message.Message) error {
	k := s.key(msg.SenderID)
	if _, ok, err := s.get(ctx, k, msg.SenderID); err != nil {
		return err
	} else if ok {
		return &SlotError{Sender: msg.SenderID, Err: ErrSlotExists}
	}
	cur, err := s.gen.Current(ctx, k)
	if err != nil {
		return fmt.Errorf("slotstore: read generation: %w", err)
	}
	want := cur + 1
	if err := s.create(ctx, k, want, msg); err != nil {
		return err
	}
	gen, err := s.gen.Bump(ctx, k)
	if err != nil {
		_ = s.provider.Del(ctx, k)
		return fmt.Errorf("slotstore: bump generation: %w", err)
	}
	if gen != want {
		// another writer bumped in between; restamp our record
		if err := s.put(ctx, k, gen, msg); err != nil {
			return err
		}
	}
	s.addFee(msg)
	s.log.Debug("slot opened", msgwire.Fields{"key": k, "gen": gen})
	return nil
}

// Update replaces the message stored in an open slot.
func (s *Store) Update(ctx context.Context, msg message.Message) error {
	k := s.key(msg.SenderID)
	if err := s.mustExist(ctx, k, msg.SenderID); err != nil {
		return err
	}
	gen, err := s.gen.Bump(ctx, k)
	if err != nil {
		return fmt.Errorf("slotstore: bump generation: %w", err)
	}
	if err := s.put(ctx, k, gen, msg); err != nil {
		return err
	}
	s.addFee(msg)
	s.log.Debug("slot updated", msgwire.Fields{"key": k, "gen": gen})
	return nil
}

// Close removes an open slot. The generation is bumped before the delete so
// a copy that survives the delete is stale on its next read.
func (s *Store) Close(ctx context.Context, msg message.Message) error {
	k := s.key(msg.SenderID)
	if err := s.mustExist(ctx, k, msg.SenderID); err != nil {
		return err
	}
	gen, err := s.gen.Bump(ctx, k)
	if err != nil {
		return fmt.Errorf("slotstore: bump generation: %w", err)
	}
	if err := s.provider.Del(ctx, k); err != nil {
		s.log.Warn("slot delete failed", msgwire.Fields{"key": k, "err": err})
	}
	s.addFee(msg)
	s.log.Debug("slot closed", msgwire.Fields{"key": k, "gen": gen})
	return nil
}

// Get returns the message stored for sender.
func (s *Store) Get(ctx context.Context, sender message.SenderID) (message.Message, bool, error) {
	return s.get(ctx, s.key(sender), sender)
}

// Generations reports the current generation of each sender's slot.
// Senders never seen report 0.
func (s *Store) Generations(ctx context.Context, senders []message.SenderID) (map[message.SenderID]uint64, error) {
	keys := make([]string, len(senders))
	for i, id := range senders {
		keys[i] = s.key(id)
	}
	gens, err := s.gen.CurrentMany(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[message.SenderID]uint64, len(senders))
	for i, id := range senders {
		out[id] = gens[keys[i]]
	}
	return out, nil
}

// Collected is the sum of priority fees carried by every message this Store
// accepted since it was created. It saturates at math.MaxUint64.
func (s *Store) Collected() uint64 { return s.collected.Load() }

// Shutdown closes the generation store then the provider.
// Safe to call more than once.
func (s *Store) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() {
		if err := s.gen.Close(ctx); err != nil {
			s.log.Warn("genstore close failed", msgwire.Fields{"err": err})
		}
		s.closeErr = s.provider.Close(ctx)
	})
	return s.closeErr
}

func (s *Store) key(sender message.SenderID) string { return util.SlotKey(s.ns, sender) }

func (s *Store) mustExist(ctx context.Context, k string, sender message.SenderID) error {
	_, ok, err := s.get(ctx, k, sender)
	if err != nil {
		return err
	}
	if !ok {
		return &SlotError{Sender: sender, Err: ErrSlotNotFound}
	}
	return nil
}

func (s *Store) get(ctx context.Context, k string, sender message.SenderID) (message.Message, bool, error) {
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return message.Message{}, false, err
	}
	gen, payload, err := wire.DecodeSlot(raw)
	if err != nil {
		s.heal(ctx, k, "corrupt")
		return message.Message{}, false, nil
	}
	cur, err := s.gen.Current(ctx, k)
	if err != nil {
		return message.Message{}, false, fmt.Errorf("slotstore: read generation: %w", err)
	}
	// one ahead: an Initialize that has written but not bumped yet
	if gen != cur && gen != cur+1 {
		s.heal(ctx, k, "gen_mismatch")
		return message.Message{}, false, nil
	}
	msg, err := s.codec.Decode(payload)
	if err != nil {
		s.heal(ctx, k, "value_decode")
		return message.Message{}, false, nil
	}
	if msg.SenderID != sender {
		s.heal(ctx, k, "corrupt")
		return message.Message{}, false, nil
	}
	return msg, true, nil
}

func (s *Store) record(k string, gen uint64, msg message.Message) ([]byte, error) {
	payload, err := s.codec.Encode(msg)
	if err != nil {
		return nil, fmt.Errorf("slotstore: encode: %w", err)
	}
	if s.maxValue > 0 && len(payload) > s.maxValue {
		return nil, fmt.Errorf("slotstore: %w: %d > %d", codec.ErrPayloadTooLarge, len(payload), s.maxValue)
	}
	return wire.EncodeSlot(gen, payload), nil
}

// create writes a new slot record, refusing to replace one when the provider
// can create conditionally.
func (s *Store) create(ctx context.Context, k string, gen uint64, msg message.Message) error {
	c, ok := s.provider.(provider.Creator)
	if !ok {
		return s.put(ctx, k, gen, msg)
	}
	rec, err := s.record(k, gen, msg)
	if err != nil {
		return err
	}
	created, err := c.Create(ctx, k, rec, s.cost(k, rec), s.ttl)
	if err != nil {
		return err
	}
	if !created {
		return &SlotError{Sender: msg.SenderID, Err: ErrSlotExists}
	}
	return nil
}

func (s *Store) put(ctx context.Context, k string, gen uint64, msg message.Message) error {
	rec, err := s.record(k, gen, msg)
	if err != nil {
		return err
	}
	ok, err := s.provider.Set(ctx, k, rec, s.cost(k, rec), s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Warn("slot write rejected by provider", msgwire.Fields{"key": k})
		return &SlotError{Sender: msg.SenderID, Err: ErrRejected}
	}
	return nil
}

func (s *Store) heal(ctx context.Context, k, reason string) {
	_ = s.provider.Del(ctx, k)
	s.hooks.SelfHeal(k, reason)
	s.log.Debug("slot self-healed", msgwire.Fields{"key": k, "reason": reason})
}

func (s *Store) addFee(msg message.Message) {
	fee, ok := msg.PriorityFee.Get()
	if !ok {
		return
	}
	for {
		old := s.collected.Load()
		sum := old + fee
		if sum < old {
			sum = math.MaxUint64
		}
		if s.collected.CompareAndSwap(old, sum) {
			return
		}
	}
}
