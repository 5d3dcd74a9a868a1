package bhandar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", raw: "60s", want: time.Minute},
		{name: "zero", raw: "0s", want: 0},
		{name: "leading zeros", raw: "007s", want: 7 * time.Second},
		{name: "no unit", raw: "60", wantErr: true},
		{name: "negative", raw: "-5s", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "unit only", raw: "s", wantErr: true},
		{name: "fraction", raw: "1.5s", wantErr: true},
		{name: "plus sign", raw: "+5s", wantErr: true},
		{name: "minutes disabled", raw: "5m", wantErr: true},
		{name: "milliseconds disabled", raw: "5ms", wantErr: true},
		{name: "space", raw: "5 s", wantErr: true},
		{name: "overflow", raw: "99999999999999999999s", wantErr: true},
		{name: "overflow after scaling", raw: "9223372037s", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTTL(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "ttl", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTTLParserExtendedUnits(t *testing.T) {
	p, err := NewTTLParser("h", "ms", "s", "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"h", "m", "ms", "s"}, p.Units())

	for raw, want := range map[string]time.Duration{
		"250ms": 250 * time.Millisecond,
		"2m":    2 * time.Minute,
		"1h":    time.Hour,
		"3s":    3 * time.Second,
	} {
		got, err := p.Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err = p.Parse("1d")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestNewTTLParserUnknownUnit(t *testing.T) {
	_, err := NewTTLParser("d")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)

	assert.Panics(t, func() { MustTTLParser("fortnight") })
}
