// Package ordernum generates human-facing order references.
//
// A reference is probabilistic, not a unique key: two calls within the
// same millisecond window may collide. Uniqueness is enforced by storage.
package ordernum

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

const (
	prefix     = "ORD"
	suffixLen  = 6
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	stampRange = 1_000_000
)

var format = regexp.MustCompile(`^ORD-\d{6}-[A-Z0-9]{6}$`)

type Clock interface {
	Now() time.Time
}

type Rand interface {
	IntN(n int) int
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// globalRand uses the auto-seeded top level source of math/rand/v2,
// which is safe for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type Opt func(*Generator) error

func ClockOpt(c Clock) Opt {
	return func(g *Generator) error {
		if c == nil {
			return errors.New("clock is nil")
		}
		g.clock = c
		return nil
	}
}

func RandOpt(r Rand) Opt {
	return func(g *Generator) error {
		if r == nil {
			return errors.New("rand is nil")
		}
		g.rand = r
		return nil
	}
}

type Generator struct {
	clock Clock
	rand  Rand
}

func New(opts ...Opt) (Generator, error) {
	const op = "ordernum.New"

	g := Generator{clock: systemClock{}, rand: globalRand{}}
	for _, opt := range opts {
		if err := opt(&g); err != nil {
			return Generator{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return g, nil
}

// Generate returns ORD-<last 6 digits of unix millis>-<6 random [A-Z0-9]>.
func (g Generator) Generate() string {
	// clocks before the epoch give negative millis
	stamp := (g.clock.Now().UnixMilli()%stampRange + stampRange) % stampRange

	var b strings.Builder
	b.Grow(len(prefix) + 1 + 6 + 1 + suffixLen)
	fmt.Fprintf(&b, "%s-%06d-", prefix, stamp)
	for range suffixLen {
		b.WriteByte(alphabet[g.rand.IntN(len(alphabet))])
	}
	return b.String()
}

func Valid(s string) bool {
	return format.MatchString(s)
}
