package gacha

import (
	"errors"
	"math"
	"sort"
	"sync"
)

var (
	ErrBudget  = errors.New("budget must be >= 1")
	ErrTarget  = errors.New("target must be >= 1")
	ErrTrials  = errors.New("trials must be >= 1")
	ErrWorkers = errors.New("workers must be >= 0")
)

// SimParams describes one Monte Carlo batch.

type SimParams struct {
	Budget  int         // draws per trial
	Target  int         // featured hits wanted within the budget
	Initial BannerState // starting state, copied into every trial
	Trials  int
	Seed    uint64 // 0 => crypto source, irreproducible
	Workers int    // <= 1 => serial
}

// Validate rejects parameters the simulation itself assumes are sound.
func (p SimParams) Validate() error {
	if p.Budget < 1 {
		return ErrBudget
	}
	if p.Target < 1 {
		return ErrTarget
	}
	if p.Trials < 1 {
		return ErrTrials
	}
	if p.Workers < 0 {
		return ErrWorkers
	}
	return p.Initial.Validate()
}

// TrialResult is one simulated run of Budget draws. The draw-index
// fields hold the budget as a summable stand-in when the milestone
// never happened; the booleans are authoritative for reached-ness.

type TrialResult struct {
	TargetReached   bool
	DrawsToTarget   int
	FirstHitReached bool
	DrawsToFirstHit int
}

// Stats summarizes draws-to-target across trials that reached the
// target (percentiles use linear interpolation).

type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
}

// SimulationResult is the batch-level aggregate, immutable once
// computed. The two averages are ceil(sum/trials) over all trials with
// the budget standing in for unreached milestones; they are +Inf only
// when no trial at all reached the respective milestone.

type SimulationResult struct {
	SuccessProbability float64
	AvgDrawsToTarget   float64
	AvgDrawsToFirstHit float64
	SuccessTrials      int
	Trials             int
	TargetStats        Stats // over trials that reached the target
}

// RunMonteCarlo runs p.Trials independent trials and folds them into a
// SimulationResult. With Workers > 1 trials split across goroutines;
// each worker draws from its own PCG stream and writes into its own
// slice region, so a fixed seed reproduces bit-identical results
// regardless of scheduling.
func RunMonteCarlo(p SimParams) (SimulationResult, error) {
	if err := p.Validate(); err != nil {
		return SimulationResult{}, err
	}

	results := make([]TrialResult, p.Trials)
	workers := p.Workers
	if workers > p.Trials {
		workers = p.Trials
	}
	if workers <= 1 {
		runTrials(trialRNG(p.Seed, 0), p, results)
		return aggregate(p, results), nil
	}

	chunk := p.Trials / workers
	rem := p.Trials % workers
	var wg sync.WaitGroup
	start := 0
	for w := 0; w < workers; w++ {
		n := chunk
		if w < rem {
			n++
		}
		region := results[start : start+n]
		start += n
		wg.Add(1)
		go func(stream uint64, region []TrialResult) {
			defer wg.Done()
			runTrials(trialRNG(p.Seed, stream), p, region)
		}(uint64(w), region)
	}
	wg.Wait()
	return aggregate(p, results), nil
}

func trialRNG(seed, stream uint64) RandomSource {
	if seed == 0 {
		return DefaultRNG()
	}
	return NewSeededStream(seed, stream)
}

// runTrials fills region with one trial per slot off a single engine.
func runTrials(rng RandomSource, p SimParams, region []TrialResult) {
	e := NewEngine(rng)
	for i := range region {
		region[i] = runTrial(e, p)
	}
}

// runTrial replays Budget draws from a fresh copy of the initial state.
// Draw indices are 1-based.
func runTrial(e *Engine, p SimParams) TrialResult {
	st := p.Initial
	res := TrialResult{DrawsToTarget: p.Budget, DrawsToFirstHit: p.Budget}
	hits := 0
	for i := 1; i <= p.Budget; i++ {
		var out Outcome
		st, out = e.Draw(st)
		if !out.Limited {
			continue
		}
		hits++
		if !res.FirstHitReached {
			res.FirstHitReached = true
			res.DrawsToFirstHit = i
		}
		if hits >= p.Target && !res.TargetReached {
			res.TargetReached = true
			res.DrawsToTarget = i
		}
	}
	return res
}

// aggregate folds per-trial results into batch statistics. Reached-ness
// comes only from the explicit per-trial flags; the sentinel values feed
// nothing but the summed averages.
func aggregate(p SimParams, results []TrialResult) SimulationResult {
	var (
		success   int
		firstHits int
		sumTarget int
		sumFirst  int
		reached   []int
	)
	for _, r := range results {
		sumTarget += r.DrawsToTarget
		sumFirst += r.DrawsToFirstHit
		if r.TargetReached {
			success++
			reached = append(reached, r.DrawsToTarget)
		}
		if r.FirstHitReached {
			firstHits++
		}
	}
	return SimulationResult{
		SuccessProbability: float64(success) / float64(p.Trials),
		AvgDrawsToTarget:   avgOrInf(sumTarget, p.Trials, success > 0),
		AvgDrawsToFirstHit: avgOrInf(sumFirst, p.Trials, firstHits > 0),
		SuccessTrials:      success,
		Trials:             p.Trials,
		TargetStats:        calcStats(reached),
	}
}

// avgOrInf reports ceil(sum/trials), or +Inf when the milestone never
// happened in any trial. The infinity decision deliberately ignores the
// averaged value: an average that coincidentally equals 0 or the budget
// must not be misread as "never reached".
func avgOrInf(sum, trials int, everReached bool) float64 {
	if !everReached {
		return math.Inf(1)
	}
	return math.Ceil(float64(sum) / float64(trials))
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if p <= 0 || n == 1 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
	}
}
