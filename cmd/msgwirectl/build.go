package main

import (
	"fmt"
	"io"
	stdslog "log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/msgwire"
	"github.com/unkn0wn-root/msgwire/codec"
	"github.com/unkn0wn-root/msgwire/genstore"
	asynchook "github.com/unkn0wn-root/msgwire/hooks/async"
	logruslog "github.com/unkn0wn-root/msgwire/log/logrus"
	slogadapter "github.com/unkn0wn-root/msgwire/log/slog"
	zaplog "github.com/unkn0wn-root/msgwire/log/zap"
	zerologadapter "github.com/unkn0wn-root/msgwire/log/zerolog"
	"github.com/unkn0wn-root/msgwire/message"
	"github.com/unkn0wn-root/msgwire/provider"
	bcprovider "github.com/unkn0wn-root/msgwire/provider/bigcache"
	redisprovider "github.com/unkn0wn-root/msgwire/provider/redis"
	rprovider "github.com/unkn0wn-root/msgwire/provider/ristretto"
	"github.com/unkn0wn-root/msgwire/sloghooks"
	"github.com/unkn0wn-root/msgwire/slotstore"
)

// buildLogger returns the configured backend writing to w and a flush func.
func buildLogger(cfg logConfig, w io.Writer) (msgwire.Logger, func(), error) {
	nop := func() {}
	switch cfg.Backend {
	case "none", "":
		return msgwire.NopLogger{}, nop, nil
	case "zap":
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log.level: %w", err)
		}
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			lvl,
		)
		l := zap.New(core)
		return zaplog.ZapLogger{L: l}, func() { _ = l.Sync() }, nil
	case "logrus":
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log.level: %w", err)
		}
		l := logrus.New()
		l.SetOutput(w)
		l.SetLevel(lvl)
		l.SetFormatter(&logrus.JSONFormatter{})
		return logruslog.LogrusLogger{E: logrus.NewEntry(l)}, nop, nil
	case "slog":
		h, err := slogHandler(cfg.Level, w)
		if err != nil {
			return nil, nil, err
		}
		return slogadapter.Logger{L: stdslog.New(h)}, nop, nil
	case "zerolog":
		lvl, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log.level: %w", err)
		}
		l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
		return zerologadapter.Logger{L: l}, nop, nil
	default:
		return nil, nil, fmt.Errorf("log.backend: unknown backend %q", cfg.Backend)
	}
}

func slogHandler(level string, w io.Writer) (stdslog.Handler, error) {
	var lvl stdslog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	return stdslog.NewJSONHandler(w, &stdslog.HandlerOptions{Level: lvl}), nil
}

// buildHooks logs dispatcher and store events through slog on a worker
// goroutine. Close the returned hooks to flush them.
func buildHooks(cfg logConfig, w io.Writer) (*asynchook.Hooks, error) {
	var inner msgwire.Hooks = msgwire.NopHooks{}
	if cfg.Backend != "none" && cfg.Backend != "" {
		h, err := slogHandler(cfg.Level, w)
		if err != nil {
			return nil, err
		}
		inner = sloghooks.New(stdslog.New(h), sloghooks.Options{RejectedEvery: 1})
	}
	return asynchook.New(inner, 1, 256), nil
}

func buildCodec(name string) (codec.Codec[message.Message], error) {
	switch name {
	case "fixed", "":
		return codec.Fixed{}, nil
	case "proto":
		return codec.NewFixedProto(), nil
	case "cbor":
		return codec.NewCBOR[message.Message](true)
	case "msgpack":
		return codec.Msgpack[message.Message]{}, nil
	case "json":
		return codec.JSON[message.Message]{}, nil
	default:
		return nil, fmt.Errorf("store.codec: unknown codec %q", name)
	}
}

func buildBackend(cfg storeConfig) (provider.Provider, genstore.GenStore, error) {
	switch cfg.Backend {
	case "ristretto", "":
		p, err := rprovider.New(rprovider.Config{
			NumCounters: cfg.Ristretto.NumCounters,
			MaxCost:     cfg.Ristretto.MaxCost,
			BufferItems: cfg.Ristretto.BufferItems,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case "bigcache":
		p, err := bcprovider.New(bcprovider.Config{
			LifeWindow:         cfg.Bigcache.LifeWindow,
			Shards:             cfg.Bigcache.Shards,
			HardMaxCacheSizeMB: cfg.Bigcache.HardMaxMB,
			MaxEntrySize:       cfg.Bigcache.MaxEntrySize,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		p, err := redisprovider.New(redisprovider.Config{Client: client, CloseClient: true})
		if err != nil {
			return nil, nil, err
		}
		// the provider owns the client; generations live next to the slots
		gs, err := genstore.NewRedis(genstore.RedisConfig{
			Client:    client,
			Namespace: cfg.Namespace,
			TTL:       cfg.GenTTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, gs, nil
	default:
		return nil, nil, fmt.Errorf("store.backend: unknown backend %q", cfg.Backend)
	}
}

func buildStore(cfg storeConfig, log msgwire.Logger, hooks msgwire.Hooks) (*slotstore.Store, error) {
	c, err := buildCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}
	p, gs, err := buildBackend(cfg)
	if err != nil {
		return nil, err
	}
	return slotstore.New(slotstore.Options{
		Namespace:     cfg.Namespace,
		Provider:      p,
		Codec:         c,
		GenStore:      gs,
		Logger:        log,
		Hooks:         hooks,
		TTL:           cfg.TTL,
		MaxValueBytes: cfg.MaxValueBytes,
	})
}
