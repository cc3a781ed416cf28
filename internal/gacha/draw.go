package gacha

import (
	"errors"
	"math"
)

var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

// Draw under p, return if it is hit
// p <= 0 => no hit. p >= 1 => must hit. otherwise, rng.Float64() < p

func Draw(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// rollInt draws a uniform integer in [1, n]. n must be >= 1.
func rollInt(n int, rng RandomSource) int {
	if n <= 1 {
		return 1
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	v := int(rng.Float64() * float64(n))
	if v >= n { // guard the top edge against float rounding
		v = n - 1
	}
	return v + 1
}
