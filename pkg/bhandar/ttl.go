package bhandar

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// knownUnits are the suffixes a TTLParser can be configured to accept.
var knownUnits = map[string]time.Duration{
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
}

// DefaultTTLUnits is the unit set accepted when none is configured.
var DefaultTTLUnits = []string{"s"}

// TTLParser turns strings such as "60s" into durations. The count must be a
// non-negative integer immediately followed by one of the enabled units.
type TTLParser struct {
	units map[string]time.Duration
}

var defaultTTLParser = MustTTLParser(DefaultTTLUnits...)

// NewTTLParser returns a parser accepting the given unit suffixes. With no
// units it accepts seconds only.
func NewTTLParser(units ...string) (*TTLParser, error) {
	if len(units) == 0 {
		units = DefaultTTLUnits
	}
	p := &TTLParser{units: make(map[string]time.Duration, len(units))}
	for _, u := range units {
		d, ok := knownUnits[u]
		if !ok {
			return nil, fmt.Errorf("bhandar: unknown ttl unit %q", u)
		}
		p.units[u] = d
	}
	return p, nil
}

// MustTTLParser is like NewTTLParser but panics on an unknown unit.
func MustTTLParser(units ...string) *TTLParser {
	p, err := NewTTLParser(units...)
	if err != nil {
		panic(err)
	}
	return p
}

// Units returns the enabled unit suffixes in sorted order.
func (p *TTLParser) Units() []string {
	out := make([]string, 0, len(p.units))
	for u := range p.units {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}

// Parse validates raw and converts it to a duration. Every failure is a
// *ValidationError on the "ttl" field.
func (p *TTLParser) Parse(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, invalid("ttl", "required")
	}
	if raw[0] == '-' {
		return 0, invalid("ttl", "%q must not be negative", raw)
	}

	i := strings.IndexFunc(raw, func(r rune) bool { return r < '0' || r > '9' })
	switch i {
	case -1:
		return 0, invalid("ttl", "%q has no unit, expected one of %s", raw, strings.Join(p.Units(), ", "))
	case 0:
		return 0, invalid("ttl", "%q must start with a non-negative integer", raw)
	}

	unit, ok := p.units[raw[i:]]
	if !ok {
		return 0, invalid("ttl", "unsupported unit %q, expected one of %s", raw[i:], strings.Join(p.Units(), ", "))
	}

	n, err := strconv.ParseInt(raw[:i], 10, 64)
	if err != nil || n > math.MaxInt64/int64(unit) {
		return 0, invalid("ttl", "%q is out of range", raw)
	}

	return time.Duration(n) * unit, nil
}

// ParseTTL parses raw with the default, seconds-only parser.
func ParseTTL(raw string) (time.Duration, error) {
	return defaultTTLParser.Parse(raw)
}
