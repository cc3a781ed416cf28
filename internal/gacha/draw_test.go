package gacha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawBounds(t *testing.T) {
	got, err := Draw(0, NewSeededRNG(1))
	require.NoError(t, err)
	assert.False(t, got, "p=0 should never hit")

	got, err = Draw(1, NewSeededRNG(1))
	require.NoError(t, err)
	assert.True(t, got, "p=1 should always hit")

	_, err = Draw(-0.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
	_, err = Draw(1.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
}

func TestDrawStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	rng := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := Draw(p, rng)
		require.NoError(t, err)
		if ok {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	assert.InDelta(t, p, freq, 0.01)
}

func TestRollIntRange(t *testing.T) {
	rng := NewSeededRNG(7)
	for i := 0; i < 10000; i++ {
		v := rollInt(1000, rng)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 1000)
	}
	assert.Equal(t, 1, rollInt(1, rng))
	assert.Equal(t, 1, rollInt(0, rng))
}

func TestSeededStreamsIndependent(t *testing.T) {
	a := NewSeededStream(42, 0)
	b := NewSeededStream(42, 1)
	same := true
	for i := 0; i < 16; i++ {
		if a.Float64() != b.Float64() {
			same = false
		}
	}
	assert.False(t, same, "distinct streams must diverge")
}
