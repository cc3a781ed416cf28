package gacha

import "errors"

// Curve constants. These are fixed by the banner mechanics and are not
// configurable at runtime.
const (
	// SoftPityWindow is how many draws before hard pity the rising
	// curve takes over from the base rate.
	SoftPityWindow = 16
	// SoftPityStep is the per-draw probability increment inside the
	// window: p = SoftPityStep * (1 + SoftPityWindow - distance).
	SoftPityStep = 0.06
	// Far from pity, a draw hits when a uniform roll in [1, BaseOdds]
	// lands on BaseSentinel (0.1%).
	BaseOdds     = 1000
	BaseSentinel = 6
	// FairWinProb is the unmodified chance a rare hit is the featured
	// variant.
	FairWinProb = 0.5
	// Radiance streak bounds. A fair-coin loss while the counter sits
	// at RadianceMax converts into a win and wraps the counter.
	RadianceMin = 1
	RadianceMax = 3
)

var (
	ErrHardPity   = errors.New("hard pity must be >= 1")
	ErrPityBounds = errors.New("current pity must satisfy 0 <= current <= hard pity")
	ErrRadiance   = errors.New("radiance counter must be 1, 2 or 3")
)

// BannerState is the complete lottery state carried between draws.
// It is a value type: Engine.Draw returns a successor instead of
// mutating, so trials can copy the same initial state and stay
// independent.

type BannerState struct {
	CurrentPity int  // draws since the last rare hit
	HardPity    int  // forced-hit threshold; constant for a run
	Guaranteed  bool // next rare hit is forced featured
	Radiance    int  // consecutive-loss escalation counter, cycles 1..3
}

// Validate checks the state invariants.
func (s BannerState) Validate() error {
	if s.HardPity < 1 {
		return ErrHardPity
	}
	if s.CurrentPity < 0 || s.CurrentPity > s.HardPity {
		return ErrPityBounds
	}
	if s.Radiance < RadianceMin || s.Radiance > RadianceMax {
		return ErrRadiance
	}
	return nil
}

// Outcome reports a single draw.

type Outcome struct {
	Hit     bool // a rare dropped this draw
	Limited bool // the rare was the featured variant; implies Hit
}
