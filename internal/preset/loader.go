package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/wishsim/internal/pricing"
	"github.com/xtding233/wishsim/internal/token"
)

// Fallbacks applied after merging when a preset leaves a field unset.
const (
	DefaultTrials = 10000
	DefaultHard   = 90
)

// Paths helper for preset files.
type Paths struct {
	BaseDir string // base directory, e.g. ./configs
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "presets", "default.yaml")
}
func (p Paths) PresetPath(name string) string {
	return filepath.Join(p.BaseDir, "presets", name+".yaml")
}

// Loader reads YAML presets and merges default → named preset.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawPreset // key: preset name or "$default"
}

// NewLoader creates a preset loader over the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawPreset),
	}
}

// LoadMerged loads and merges default → named preset (name optional).
// It returns the merged RawPreset without normalization.
func (l *Loader) LoadMerged(name string) (RawPreset, error) {
	key := name
	if key == "" {
		key = "$default"
	}
	l.mu.RLock()
	if cfg, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawPreset{}, fmt.Errorf("read default preset: %w", err)
	}
	merged := defCfg
	if name != "" {
		named, err := readYAML(l.paths.PresetPath(name))
		if err != nil {
			return RawPreset{}, fmt.Errorf("read preset %q: %w", name, err)
		}
		merged = mergeRaw(merged, named)
	}

	l.mu.Lock()
	l.cache[key] = merged
	l.mu.Unlock()
	return merged, nil
}

// Resolve merges, normalizes and validates a preset into Params.
func (l *Loader) Resolve(name string) (Params, error) {
	raw, err := l.LoadMerged(name)
	if err != nil {
		return Params{}, err
	}
	p := normalize(raw)
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Invalidate clears the cache. Called when hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawPreset)
}

// readYAML loads one preset file. A missing default file yields a zero
// preset so the built-in fallbacks apply; a missing named preset is an
// error.
func readYAML(path string) (RawPreset, error) {
	var cfg RawPreset
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && filepath.Base(path) == "default.yaml" {
			return RawPreset{}, nil
		}
		return RawPreset{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawPreset{}, err
	}
	return cfg, nil
}

// mergeRaw deep-merges b over a: scalar pointers from b win when set,
// slices replace wholesale.
func mergeRaw(a, b RawPreset) RawPreset {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	switch {
	case out.Banner == nil && b.Banner != nil:
		c := *b.Banner
		out.Banner = &c
	case out.Banner != nil && b.Banner != nil:
		if b.Banner.HardPity != nil {
			out.Banner.HardPity = b.Banner.HardPity
		}
		if b.Banner.Guaranteed != nil {
			out.Banner.Guaranteed = b.Banner.Guaranteed
		}
		if b.Banner.Radiance != nil {
			out.Banner.Radiance = b.Banner.Radiance
		}
	}

	switch {
	case out.Simulation == nil && b.Simulation != nil:
		c := *b.Simulation
		out.Simulation = &c
	case out.Simulation != nil && b.Simulation != nil:
		if b.Simulation.Trials != nil {
			out.Simulation.Trials = b.Simulation.Trials
		}
		if b.Simulation.Workers != nil {
			out.Simulation.Workers = b.Simulation.Workers
		}
	}

	switch {
	case out.Token == nil && b.Token != nil:
		c := *b.Token
		out.Token = &c
	case out.Token != nil && b.Token != nil:
		if b.Token.Name != "" {
			out.Token.Name = b.Token.Name
		}
		if b.Token.PerDraw != nil {
			out.Token.PerDraw = b.Token.PerDraw
		}
		if b.Token.PerTenDraw != nil {
			out.Token.PerTenDraw = b.Token.PerTenDraw
		}
	}

	switch {
	case out.Store == nil && b.Store != nil:
		c := *b.Store
		out.Store = &c
	case out.Store != nil && b.Store != nil:
		if b.Store.Currency != "" {
			out.Store.Currency = b.Store.Currency
		}
		if b.Store.TaxRate != 0 {
			out.Store.TaxRate = b.Store.TaxRate
		}
		if len(b.Store.Packs) > 0 {
			out.Store.Packs = append([]PackCfg(nil), b.Store.Packs...)
		}
	}

	return out
}

// normalize applies fallbacks and converts to the engine-facing types.
func normalize(raw RawPreset) Params {
	p := Params{
		Version:  raw.Version,
		HardPity: DefaultHard,
		Radiance: 1,
		Trials:   DefaultTrials,
	}
	if raw.Banner != nil {
		if raw.Banner.HardPity != nil {
			p.HardPity = *raw.Banner.HardPity
		}
		if raw.Banner.Guaranteed != nil {
			p.Guaranteed = *raw.Banner.Guaranteed
		}
		if raw.Banner.Radiance != nil {
			p.Radiance = *raw.Banner.Radiance
		}
	}
	if raw.Simulation != nil {
		if raw.Simulation.Trials != nil {
			p.Trials = *raw.Simulation.Trials
		}
		if raw.Simulation.Workers != nil {
			p.Workers = *raw.Simulation.Workers
		}
	}
	if raw.Token != nil {
		p.Token = token.Token{Name: raw.Token.Name}
		if raw.Token.PerDraw != nil {
			p.Token.PerDraw = *raw.Token.PerDraw
		}
		if raw.Token.PerTenDraw != nil {
			p.Token.PerTenDraw = *raw.Token.PerTenDraw
		}
	}
	if raw.Store != nil {
		p.Store = pricing.Catalog{
			TokenName: p.Token.Name,
			Currency:  raw.Store.Currency,
			TaxRate:   raw.Store.TaxRate,
		}
		for _, pc := range raw.Store.Packs {
			p.Store.Packs = append(p.Store.Packs, pricing.Pack{
				ID:          pc.ID,
				Name:        pc.Name,
				Tokens:      pc.Tokens,
				BonusTokens: pc.BonusTokens,
				FirstTimeX2: pc.FirstTimeX2,
				PriceCents:  pc.PriceCents,
			})
		}
	}
	return p
}
