package ordernum_test

import (
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/ordernum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// seqRand returns the queued values in order, cycling.
type seqRand struct {
	vals []int
	pos  int
}

func (r *seqRand) IntN(n int) int {
	v := r.vals[r.pos%len(r.vals)] % n
	r.pos++
	return v
}

func TestGenerate(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		clock := fixedClock(time.UnixMilli(1_718_000_123_456))
		g, err := ordernum.New(
			ordernum.ClockOpt(clock),
			ordernum.RandOpt(&seqRand{vals: []int{0, 1, 25, 26, 35, 7}}),
		)
		require.NoError(t, err)
		assert.Equal(t, "ORD-123456-ABZ09H", g.Generate())
	})

	t.Run("LeadingZeros", func(t *testing.T) {
		clock := fixedClock(time.UnixMilli(1_718_000_000_042))
		g, err := ordernum.New(
			ordernum.ClockOpt(clock),
			ordernum.RandOpt(&seqRand{vals: []int{0}}),
		)
		require.NoError(t, err)
		assert.Equal(t, "ORD-000042-AAAAAA", g.Generate())
	})

	t.Run("BeforeEpoch", func(t *testing.T) {
		clock := fixedClock(time.UnixMilli(-5))
		g, err := ordernum.New(
			ordernum.ClockOpt(clock),
			ordernum.RandOpt(&seqRand{vals: []int{0}}),
		)
		require.NoError(t, err)

		v := g.Generate()
		assert.Equal(t, "ORD-999995-AAAAAA", v)
		assert.True(t, ordernum.Valid(v))
	})

	t.Run("FormatAndSpread", func(t *testing.T) {
		g, err := ordernum.New()
		require.NoError(t, err)

		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			v := g.Generate()
			require.True(t, ordernum.Valid(v), v)
			seen[v] = struct{}{}
		}
		assert.Len(t, seen, 1000)
	})

	t.Run("NilOpts", func(t *testing.T) {
		_, err := ordernum.New(ordernum.ClockOpt(nil))
		assert.Error(t, err)
		_, err = ordernum.New(ordernum.RandOpt(nil))
		assert.Error(t, err)
	})
}

func TestValid(t *testing.T) {
	assert.True(t, ordernum.Valid("ORD-000001-A1B2C3"))
	assert.False(t, ordernum.Valid("ORD-1-A1B2C3"))
	assert.False(t, ordernum.Valid("ORD-000001-a1b2c3"))
	assert.False(t, ordernum.Valid("ord-000001-A1B2C3"))
	assert.False(t, ordernum.Valid("ORD-000001-A1B2C3X"))
}
