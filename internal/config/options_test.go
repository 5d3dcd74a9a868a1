package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	o, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", o.Addr)
	assert.Equal(t, 10*time.Second, o.ReapInterval)
	assert.Equal(t, 5*time.Second, o.RequestTimeout)
	assert.Equal(t, 256, o.MaxKeyLen)
	assert.Equal(t, 1<<20, o.MaxValueLen)
	assert.Equal(t, 32, o.Shards)
	assert.Equal(t, zerolog.InfoLevel, o.Level)
	assert.Equal(t, []string{"s"}, o.TTLParser.Units())
	assert.Len(t, o.StoreOptions(), 3)
}

func TestParse_Env(t *testing.T) {
	t.Setenv("BHANDAR_ADDR", "127.0.0.1:9000")
	t.Setenv("BHANDAR_TTL_UNITS", "s,m")

	o, err := Parse([]string{"--reap-interval", "1m", "-l", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", o.Addr)
	assert.Equal(t, time.Minute, o.ReapInterval)
	assert.Equal(t, zerolog.DebugLevel, o.Level)
	assert.Equal(t, []string{"m", "s"}, o.TTLParser.Units())
}

func TestOpts_Validate(t *testing.T) {
	valid := func() Opts {
		return Opts{
			Addr:           ":8080",
			RequestTimeout: time.Second,
			MaxKeyLen:      1,
			MaxValueLen:    1,
			Shards:         1,
			LogLevel:       "info",
		}
	}
	tests := []struct {
		name    string
		mutate  func(o *Opts)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Opts) {}},
		{name: "bad addr", mutate: func(o *Opts) { o.Addr = "8080" }, wantErr: true},
		{name: "negative reap interval", mutate: func(o *Opts) { o.ReapInterval = -time.Second }, wantErr: true},
		{name: "zero request timeout", mutate: func(o *Opts) { o.RequestTimeout = 0 }, wantErr: true},
		{name: "zero key len", mutate: func(o *Opts) { o.MaxKeyLen = 0 }, wantErr: true},
		{name: "zero value len", mutate: func(o *Opts) { o.MaxValueLen = 0 }, wantErr: true},
		{name: "zero shards", mutate: func(o *Opts) { o.Shards = 0 }, wantErr: true},
		{name: "bad level", mutate: func(o *Opts) { o.LogLevel = "loud" }, wantErr: true},
		{name: "bad unit", mutate: func(o *Opts) { o.TTLUnits = []string{"d"} }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, o.TTLParser)
		})
	}
}
