package msgwire

import (
	"context"

	"github.com/unkn0wn-root/msgwire/message"
)

// Handler receives decoded, validated messages. Close and Update are only
// called with a present priority fee. Returned errors reach the Dispatch
// caller unchanged.
type Handler interface {
	Initialize(ctx context.Context, msg message.Message) error
	Close(ctx context.Context, msg message.Message) error
	Update(ctx context.Context, msg message.Message) error
}

// HandlerFuncs adapts plain functions to Handler. A nil func accepts the
// message and does nothing.
type HandlerFuncs struct {
	OnInitialize func(ctx context.Context, msg message.Message) error
	OnClose      func(ctx context.Context, msg message.Message) error
	OnUpdate     func(ctx context.Context, msg message.Message) error
}

var _ Handler = HandlerFuncs{}

func (h HandlerFuncs) Initialize(ctx context.Context, msg message.Message) error {
	return call(h.OnInitialize, ctx, msg)
}

func (h HandlerFuncs) Close(ctx context.Context, msg message.Message) error {
	return call(h.OnClose, ctx, msg)
}

func (h HandlerFuncs) Update(ctx context.Context, msg message.Message) error {
	return call(h.OnUpdate, ctx, msg)
}

func call(fn func(context.Context, message.Message) error, ctx context.Context, msg message.Message) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, msg)
}
