package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/unkn0wn-root/msgwire"
)

type config struct {
	Dispatch dispatchConfig
	Log      logConfig
	Store    storeConfig
}

type dispatchConfig struct {
	Opcodes             msgwire.Opcodes
	StrictDiscriminator bool
}

type logConfig struct {
	Backend string // zap|logrus|slog|zerolog|none
	Level   string
}

type storeConfig struct {
	Namespace     string
	Backend       string // ristretto|bigcache|redis
	Codec         string // fixed|cbor|msgpack|json|proto
	TTL           time.Duration
	MaxValueBytes int

	RedisAddr string
	GenTTL    time.Duration

	Ristretto ristrettoConfig
	Bigcache  bigcacheConfig
}

type ristrettoConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

type bigcacheConfig struct {
	LifeWindow   time.Duration
	Shards       int
	HardMaxMB    int
	MaxEntrySize int
}

func defaultConfig() config {
	return config{
		Dispatch: dispatchConfig{Opcodes: msgwire.CanonicalOpcodes},
		Log:      logConfig{Backend: "zap", Level: "info"},
		Store: storeConfig{
			Namespace: "msgwirectl",
			Backend:   "ristretto",
			Codec:     "fixed",
			RedisAddr: "127.0.0.1:6379",
			Ristretto: ristrettoConfig{NumCounters: 100_000, MaxCost: 64 << 20, BufferItems: 64},
			Bigcache:  bigcacheConfig{LifeWindow: 10 * time.Minute, Shards: 64},
		},
	}
}

type fileConfig struct {
	Dispatch struct {
		Opcodes             string `toml:"opcodes"`
		Codes               []int  `toml:"codes"`
		StrictDiscriminator bool   `toml:"strict_discriminator"`
	} `toml:"dispatch"`
	Log struct {
		Backend string `toml:"backend"`
		Level   string `toml:"level"`
	} `toml:"log"`
	Store struct {
		Namespace     string `toml:"namespace"`
		Backend       string `toml:"backend"`
		Codec         string `toml:"codec"`
		TTL           string `toml:"ttl"`
		MaxValueBytes int    `toml:"max_value_bytes"`
		RedisAddr     string `toml:"redis_addr"`
		GenTTL        string `toml:"gen_ttl"`
		Ristretto     struct {
			NumCounters int64 `toml:"num_counters"`
			MaxCost     int64 `toml:"max_cost"`
			BufferItems int64 `toml:"buffer_items"`
		} `toml:"ristretto"`
		Bigcache struct {
			LifeWindow   string `toml:"life_window"`
			Shards       int    `toml:"shards"`
			HardMaxMB    int    `toml:"hard_max_mb"`
			MaxEntrySize int    `toml:"max_entry_size"`
		} `toml:"bigcache"`
	} `toml:"store"`
}

// loadConfig overlays the keys present in path onto defaultConfig.
// An empty path returns the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load msgwirectl config: %w", err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return config{}, fmt.Errorf("load msgwirectl config: unknown key %q", undec[0].String())
	}

	if meta.IsDefined("dispatch", "opcodes") {
		ops, err := parseOpcodes(raw.Dispatch.Opcodes)
		if err != nil {
			return config{}, err
		}
		cfg.Dispatch.Opcodes = ops
	}
	if meta.IsDefined("dispatch", "codes") {
		if len(raw.Dispatch.Codes) != len(cfg.Dispatch.Opcodes) {
			return config{}, fmt.Errorf("dispatch.codes: want %d codes, got %d",
				len(cfg.Dispatch.Opcodes), len(raw.Dispatch.Codes))
		}
		var ops msgwire.Opcodes
		for i, c := range raw.Dispatch.Codes {
			if c < 0 || c > 0xFF {
				return config{}, fmt.Errorf("dispatch.codes[%d]: %d is not a byte", i, c)
			}
			ops[i] = byte(c)
		}
		cfg.Dispatch.Opcodes = ops
	}
	if err := cfg.Dispatch.Opcodes.Validate(); err != nil {
		return config{}, err
	}
	if meta.IsDefined("dispatch", "strict_discriminator") {
		cfg.Dispatch.StrictDiscriminator = raw.Dispatch.StrictDiscriminator
	}

	if meta.IsDefined("log", "backend") {
		cfg.Log.Backend = lower(raw.Log.Backend)
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = lower(raw.Log.Level)
	}

	st := raw.Store
	if meta.IsDefined("store", "namespace") {
		if ns := strings.TrimSpace(st.Namespace); ns != "" {
			cfg.Store.Namespace = ns
		}
	}
	if meta.IsDefined("store", "backend") {
		cfg.Store.Backend = lower(st.Backend)
	}
	if meta.IsDefined("store", "codec") {
		cfg.Store.Codec = lower(st.Codec)
	}
	if meta.IsDefined("store", "ttl") {
		if cfg.Store.TTL, err = parseDuration("store.ttl", st.TTL); err != nil {
			return config{}, err
		}
	}
	if meta.IsDefined("store", "max_value_bytes") {
		cfg.Store.MaxValueBytes = st.MaxValueBytes
	}
	if meta.IsDefined("store", "redis_addr") {
		cfg.Store.RedisAddr = strings.TrimSpace(st.RedisAddr)
	}
	if meta.IsDefined("store", "gen_ttl") {
		if cfg.Store.GenTTL, err = parseDuration("store.gen_ttl", st.GenTTL); err != nil {
			return config{}, err
		}
	}

	if meta.IsDefined("store", "ristretto", "num_counters") {
		cfg.Store.Ristretto.NumCounters = st.Ristretto.NumCounters
	}
	if meta.IsDefined("store", "ristretto", "max_cost") {
		cfg.Store.Ristretto.MaxCost = st.Ristretto.MaxCost
	}
	if meta.IsDefined("store", "ristretto", "buffer_items") {
		cfg.Store.Ristretto.BufferItems = st.Ristretto.BufferItems
	}

	if meta.IsDefined("store", "bigcache", "life_window") {
		if cfg.Store.Bigcache.LifeWindow, err = parseDuration("store.bigcache.life_window", st.Bigcache.LifeWindow); err != nil {
			return config{}, err
		}
	}
	if meta.IsDefined("store", "bigcache", "shards") {
		cfg.Store.Bigcache.Shards = st.Bigcache.Shards
	}
	if meta.IsDefined("store", "bigcache", "hard_max_mb") {
		cfg.Store.Bigcache.HardMaxMB = st.Bigcache.HardMaxMB
	}
	if meta.IsDefined("store", "bigcache", "max_entry_size") {
		cfg.Store.Bigcache.MaxEntrySize = st.Bigcache.MaxEntrySize
	}

	return cfg, nil
}

func parseOpcodes(name string) (msgwire.Opcodes, error) {
	switch lower(name) {
	case "", "canonical":
		return msgwire.CanonicalOpcodes, nil
	case "legacy":
		return msgwire.LegacyOpcodes, nil
	default:
		return msgwire.Opcodes{}, fmt.Errorf("dispatch.opcodes: unknown table %q (canonical|legacy)", name)
	}
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
