package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duelcore/internal/game/dice"
)

// fixedSource always returns the same values.
type fixedSource struct {
	i int
	f float64
}

func (s fixedSource) Intn(n int) int {
	if s.i >= n {
		return n - 1
	}
	return s.i
}
func (s fixedSource) Float64() float64 { return s.f }

func TestCryptoSource_Intn_Property(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 1000).Draw(rt, "n")
		v := src.Intn(n)
		if v < 0 || v >= n {
			rt.Fatalf("Intn(%d) = %d out of range", n, v)
		}
	})
}

func TestCryptoSource_Float64InUnitInterval(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		f := src.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestCryptoSource_IntnPanicsOnZero(t *testing.T) {
	assert.PanicsWithValue(t, "dice: Intn called with n <= 0", func() {
		dice.NewCryptoSource().Intn(0)
	})
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestChance_Bounds(t *testing.T) {
	src := fixedSource{f: 0}
	assert.False(t, dice.Chance(src, 0), "zero probability never passes")
	assert.False(t, dice.Chance(src, -1))
	assert.True(t, dice.Chance(fixedSource{f: 0.999}, 1), "probability one always passes")
	assert.True(t, dice.Chance(fixedSource{f: 0.2}, 0.3))
	assert.False(t, dice.Chance(fixedSource{f: 0.3}, 0.3))
}

func TestChance_Frequency(t *testing.T) {
	src := dice.NewSeededSource(7)
	hits := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		if dice.Chance(src, 0.3) {
			hits++
		}
	}
	assert.InDelta(t, 0.3, float64(hits)/trials, 0.05)
}

func TestBetween_Property(t *testing.T) {
	src := dice.NewSeededSource(1)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := rapid.IntRange(lo, lo+100).Draw(rt, "hi")
		v := dice.Between(src, lo, hi)
		if v < lo || v > hi {
			rt.Fatalf("Between(%d,%d) = %d", lo, hi, v)
		}
	})
}

func TestWeighted(t *testing.T) {
	assert.Equal(t, -1, dice.Weighted(fixedSource{}, nil))
	assert.Equal(t, -1, dice.Weighted(fixedSource{}, []float64{0, -1}))
	assert.Equal(t, 1, dice.Weighted(fixedSource{f: 0}, []float64{0, 2, 3}))
	assert.Equal(t, 2, dice.Weighted(fixedSource{f: 0.5}, []float64{0, 2, 3}))
	assert.Equal(t, 2, dice.Weighted(fixedSource{f: 0.9999}, []float64{1, 0, 1}))
}

func TestRoller_LogsDraws(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(fixedSource{i: 3, f: 0.25}, zap.New(core))

	assert.Equal(t, 3, r.Intn(10))
	assert.Equal(t, 0.25, r.Float64())
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "dice intn", logs.All()[0].Message)
	assert.Equal(t, "dice float", logs.All()[1].Message)
}
