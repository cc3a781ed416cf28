package gacha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptRNG replays a fixed sequence of floats, cycling when exhausted.
type scriptRNG struct {
	vals []float64
	i    int
}

func (s *scriptRNG) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestStateValidate(t *testing.T) {
	ok := BannerState{CurrentPity: 10, HardPity: 90, Radiance: 1}
	require.NoError(t, ok.Validate())

	assert.ErrorIs(t, BannerState{HardPity: 0, Radiance: 1}.Validate(), ErrHardPity)
	assert.ErrorIs(t, BannerState{CurrentPity: 91, HardPity: 90, Radiance: 1}.Validate(), ErrPityBounds)
	assert.ErrorIs(t, BannerState{CurrentPity: -1, HardPity: 90, Radiance: 1}.Validate(), ErrPityBounds)
	assert.ErrorIs(t, BannerState{HardPity: 90, Radiance: 0}.Validate(), ErrRadiance)
	assert.ErrorIs(t, BannerState{HardPity: 90, Radiance: 4}.Validate(), ErrRadiance)
}

func TestHitProbabilityCurve(t *testing.T) {
	st := BannerState{HardPity: 90, Radiance: 1}

	// far zone: flat base rate
	st.CurrentPity = 0
	assert.InDelta(t, 0.001, HitProbability(st), 1e-12)
	st.CurrentPity = 73 // distance 17, one before the window
	assert.InDelta(t, 0.001, HitProbability(st), 1e-12)

	// window boundaries match the formula literally
	st.CurrentPity = 74 // distance 16
	assert.InDelta(t, 0.06, HitProbability(st), 1e-12)
	st.CurrentPity = 89 // distance 1
	assert.InDelta(t, 0.96, HitProbability(st), 1e-12)

	// monotone non-decreasing across the window
	prev := 0.0
	for d := SoftPityWindow; d >= 1; d-- {
		st.CurrentPity = st.HardPity - d
		p := HitProbability(st)
		require.GreaterOrEqual(t, p, prev, "distance %d", d)
		assert.InDelta(t, SoftPityStep*float64(1+SoftPityWindow-d), p, 1e-12)
		prev = p
	}

	// hard pity is a separate terminal net
	st.CurrentPity = st.HardPity
	assert.Equal(t, 1.0, HitProbability(st))
}

func TestHardPityForcesHit(t *testing.T) {
	// the miss-iest possible source still cannot dodge hard pity
	e := NewEngine(&scriptRNG{vals: []float64{0.999999}})
	st := BannerState{CurrentPity: 90, HardPity: 90, Radiance: 1}
	next, out := e.Draw(st)
	assert.True(t, out.Hit)
	assert.Equal(t, 0, next.CurrentPity)
}

func TestMissOnlyAdvancesPity(t *testing.T) {
	// far zone: 0.99 maps to roll 991, never the sentinel
	e := NewEngine(&scriptRNG{vals: []float64{0.99}})
	st := BannerState{CurrentPity: 10, HardPity: 90, Guaranteed: true, Radiance: 2}
	next, out := e.Draw(st)
	assert.False(t, out.Hit)
	assert.False(t, out.Limited)
	assert.Equal(t, 11, next.CurrentPity)
	assert.True(t, next.Guaranteed, "miss must not touch the guarantee")
	assert.Equal(t, 2, next.Radiance, "miss must not touch radiance")
}

func TestBaseZoneSentinelRoll(t *testing.T) {
	// 0.0055 maps to roll 6 exactly: the far-zone sentinel
	e := NewEngine(&scriptRNG{vals: []float64{0.0055, 0.0}})
	st := BannerState{CurrentPity: 0, HardPity: 90, Radiance: 1}
	_, out := e.Draw(st)
	assert.True(t, out.Hit)
	assert.True(t, out.Limited, "coin value 0.0 wins the 50/50")
}

func TestBaseZoneRateConverges(t *testing.T) {
	e := NewEngine(NewSeededRNG(42))
	st := BannerState{CurrentPity: 0, HardPity: 90, Radiance: 1}
	const n = 200000
	hits := 0
	for i := 0; i < n; i++ {
		_, out := e.Draw(st) // state discarded: pity stays far from the cap
		if out.Hit {
			hits++
		}
	}
	rate := float64(hits) / float64(n)
	assert.InDelta(t, 0.001, rate, 0.0005)
}

func TestGuaranteeResolvesLimited(t *testing.T) {
	// no rng values should be consumed: forced hit + guarantee
	e := NewEngine(&scriptRNG{vals: []float64{0.999}})
	st := BannerState{CurrentPity: 90, HardPity: 90, Guaranteed: true, Radiance: 2}
	next, out := e.Draw(st)
	assert.True(t, out.Limited)
	assert.False(t, next.Guaranteed)
	assert.Equal(t, 2, next.Radiance, "guaranteed hits leave radiance alone")
}

func TestLossArmsGuarantee(t *testing.T) {
	e := NewEngine(&scriptRNG{vals: []float64{0.9}}) // coin loses
	st := BannerState{CurrentPity: 90, HardPity: 90, Radiance: 1}
	next, out := e.Draw(st)
	assert.True(t, out.Hit)
	assert.False(t, out.Limited)
	assert.True(t, next.Guaranteed)
	assert.Equal(t, 2, next.Radiance)

	// and the very next rare hit must be limited, unconditionally
	next.CurrentPity = next.HardPity
	next, out = e.Draw(next)
	assert.True(t, out.Limited)
	assert.False(t, next.Guaranteed)
}

func TestFairWinSkipsRadiance(t *testing.T) {
	e := NewEngine(&scriptRNG{vals: []float64{0.1}}) // coin wins
	st := BannerState{CurrentPity: 90, HardPity: 90, Radiance: 2}
	next, out := e.Draw(st)
	assert.True(t, out.Limited)
	assert.Equal(t, 2, next.Radiance, "wins never advance the streak")
	assert.False(t, next.Guaranteed)
}

func TestRadianceForcesThirdLoss(t *testing.T) {
	// every fair coin in this test loses; guarantee hits interleave
	e := NewEngine(&scriptRNG{vals: []float64{0.9}})
	st := BannerState{CurrentPity: 90, HardPity: 90, Radiance: 1}

	// loss 1: streak 1 -> 2, guarantee armed
	st, out := e.Draw(st)
	require.False(t, out.Limited)
	require.Equal(t, 2, st.Radiance)

	// guaranteed hit in between, streak untouched
	st.CurrentPity = st.HardPity
	st, out = e.Draw(st)
	require.True(t, out.Limited)
	require.Equal(t, 2, st.Radiance)

	// loss 2: streak 2 -> 3
	st.CurrentPity = st.HardPity
	st, out = e.Draw(st)
	require.False(t, out.Limited)
	require.Equal(t, 3, st.Radiance)

	// guaranteed hit again
	st.CurrentPity = st.HardPity
	st, out = e.Draw(st)
	require.True(t, out.Limited)

	// loss 3 activates: reported as a win, streak wraps to 1
	st.CurrentPity = st.HardPity
	st, out = e.Draw(st)
	assert.True(t, out.Limited)
	assert.Equal(t, 1, st.Radiance)
	assert.False(t, st.Guaranteed)
}

func TestAdvanceRadiance(t *testing.T) {
	next, activated := advanceRadiance(1)
	assert.Equal(t, 2, next)
	assert.False(t, activated)

	next, activated = advanceRadiance(2)
	assert.Equal(t, 3, next)
	assert.False(t, activated)

	next, activated = advanceRadiance(3)
	assert.Equal(t, 1, next)
	assert.True(t, activated)
}

func TestDrawDoesNotMutateInput(t *testing.T) {
	e := NewEngine(NewSeededRNG(1))
	st := BannerState{CurrentPity: 5, HardPity: 90, Radiance: 1}
	snapshot := st
	for i := 0; i < 100; i++ {
		e.Draw(st)
	}
	assert.Equal(t, snapshot, st)
}
