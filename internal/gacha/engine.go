package gacha

// Engine evaluates single draws against the banner mechanics:
// - hard pity forces a rare hit at CurrentPity == HardPity
// - inside the soft window the hit chance ramps linearly per draw
// - far from pity the base rate is a 1-in-1000 sentinel roll
// On a hit, the guarantee / fair-coin / radiance chain decides whether
// the rare is the featured variant.
//
// Draw never mutates its input; callers thread the returned state.

type Engine struct {
	rng RandomSource
}

// NewEngine creates an engine over the given source. nil => crypto RNG.
func NewEngine(rng RandomSource) *Engine {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Engine{rng: rng}
}

// HitProbability returns the modeled chance that one draw from s yields
// a rare hit. Draw uses the same curve; this is exposed so the shape can
// be inspected and tested without sampling.
func HitProbability(s BannerState) float64 {
	if s.CurrentPity >= s.HardPity {
		return 1
	}
	distance := s.HardPity - s.CurrentPity
	if distance <= SoftPityWindow {
		return SoftPityStep * float64(1+SoftPityWindow-distance)
	}
	return 1.0 / float64(BaseOdds)
}

// Draw runs one wish from state s and returns the successor state plus
// the outcome. A miss only advances pity.
func (e *Engine) Draw(s BannerState) (BannerState, Outcome) {
	if e.rollHit(s) {
		return e.resolveHit(s)
	}
	s.CurrentPity++
	return s, Outcome{}
}

// rollHit decides whether a rare drops, honoring hard pity and the soft
// ramp. The far zone rolls an integer against the sentinel instead of a
// weighted coin, matching the published base-rate mechanics.
func (e *Engine) rollHit(s BannerState) bool {
	if s.CurrentPity >= s.HardPity {
		return true
	}
	distance := s.HardPity - s.CurrentPity
	if distance <= SoftPityWindow {
		// p peaks at 0.96 for distance 1, so validation cannot fail
		hit, _ := Draw(SoftPityStep*float64(1+SoftPityWindow-distance), e.rng)
		return hit
	}
	return rollInt(BaseOdds, e.rng) == BaseSentinel
}

// resolveHit settles a rare hit: pity resets, then the guarantee
// short-circuit, the fair coin, and the radiance escalation run in that
// order. Losing the fair coin arms the guarantee for the next hit.
func (e *Engine) resolveHit(s BannerState) (BannerState, Outcome) {
	s.CurrentPity = 0

	if s.Guaranteed {
		s.Guaranteed = false
		return s, Outcome{Hit: true, Limited: true}
	}

	win, _ := Draw(FairWinProb, e.rng)
	if !win {
		// a loss may still convert through the radiance streak
		s.Radiance, win = advanceRadiance(s.Radiance)
	}
	if win {
		s.Guaranteed = false
		return s, Outcome{Hit: true, Limited: true}
	}
	s.Guaranteed = true
	return s, Outcome{Hit: true}
}

// advanceRadiance moves the consecutive-loss counter after a fair-coin
// loss. At RadianceMax the loss activates: it is reported as a win and
// the counter wraps to RadianceMin. Guaranteed hits and fair-coin wins
// never touch the counter.
func advanceRadiance(r int) (next int, activated bool) {
	if r >= RadianceMax {
		return RadianceMin, true
	}
	return r + 1, false
}
