package config

import (
	"fmt"
	"net"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/rudransh61/Bhandar/internal/log"
	"github.com/rudransh61/Bhandar/pkg/bhandar"
)

// Opts represents the config given by users.
type Opts struct {
	Addr            string        `short:"a" long:"addr" env:"BHANDAR_ADDR" default:":8080" description:"address to bind this server"`
	ReapInterval    time.Duration `long:"reap-interval" env:"BHANDAR_REAP_INTERVAL" default:"10s" description:"how often expired entries are swept; 0 disables the reaper"`
	RequestTimeout  time.Duration `long:"request-timeout" env:"BHANDAR_REQUEST_TIMEOUT" default:"5s" description:"deadline applied to every request"`
	ShutdownTimeout time.Duration `long:"shutdown-timeout" env:"BHANDAR_SHUTDOWN_TIMEOUT" default:"5s" description:"grace period for in-flight requests on shutdown"`
	MaxKeyLen       int           `long:"max-key-len" env:"BHANDAR_MAX_KEY_LEN" default:"256" description:"maximum key length in bytes"`
	MaxValueLen     int           `long:"max-value-len" env:"BHANDAR_MAX_VALUE_LEN" default:"1048576" description:"maximum value length in bytes"`
	Shards          int           `long:"shards" env:"BHANDAR_SHARDS" default:"32" description:"number of independently locked store shards"`
	TTLUnits        []string      `long:"ttl-unit" env:"BHANDAR_TTL_UNITS" env-delim:"," description:"accepted ttl unit suffix (s, ms, m, h); repeatable, defaults to s"`
	LogLevel        string        `short:"l" long:"log-level" env:"BHANDAR_LOG_LEVEL" default:"info" description:"trace, debug, info, warn or error"`
	LogPretty       bool          `long:"log-pretty" env:"BHANDAR_LOG_PRETTY" description:"human readable log output"`

	// The below are the read-only opts induced by the user-given config values.

	Level     zerolog.Level
	TTLParser *bhandar.TTLParser
}

// Parse reads opts from args and the environment, then validates them.
func Parse(args []string) (*Opts, error) {
	var o Opts
	if _, err := flags.NewParser(&o, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Validate checks o and fills in the derived Level and TTLParser.
func (o *Opts) Validate() error {
	if _, _, err := net.SplitHostPort(o.Addr); err != nil {
		return fmt.Errorf("not a valid listen address %q: %v", o.Addr, err)
	}
	if o.ReapInterval < 0 {
		return fmt.Errorf("reap-interval must not be negative: %s", o.ReapInterval)
	}
	if o.RequestTimeout <= 0 {
		return fmt.Errorf("request-timeout must be positive: %s", o.RequestTimeout)
	}
	if o.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown-timeout must not be negative: %s", o.ShutdownTimeout)
	}
	if o.MaxKeyLen <= 0 {
		return fmt.Errorf("max-key-len must be positive: %d", o.MaxKeyLen)
	}
	if o.MaxValueLen <= 0 {
		return fmt.Errorf("max-value-len must be positive: %d", o.MaxValueLen)
	}
	if o.Shards <= 0 {
		return fmt.Errorf("shards must be positive: %d", o.Shards)
	}

	level, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return fmt.Errorf("not a valid log level %q", o.LogLevel)
	}
	o.Level = level

	p, err := bhandar.NewTTLParser(o.TTLUnits...)
	if err != nil {
		return err
	}
	o.TTLParser = p

	return nil
}

// StoreOptions translates opts into bhandar.Store options.
func (o *Opts) StoreOptions() []bhandar.Option {
	return []bhandar.Option{
		bhandar.WithShards(o.Shards),
		bhandar.WithMaxKeyLen(o.MaxKeyLen),
		bhandar.WithMaxValueLen(o.MaxValueLen),
	}
}
