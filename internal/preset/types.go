package preset

import (
	"github.com/xtding233/wishsim/internal/pricing"
	"github.com/xtding233/wishsim/internal/token"
)

// RawPreset is a banner preset as loaded from YAML. Pointer fields keep
// "absent" distinguishable from zero so presets merge over the default.

type RawPreset struct {
	Version    string         `yaml:"version"`
	Banner     *BannerCfg     `yaml:"banner,omitempty"`
	Simulation *SimulationCfg `yaml:"simulation,omitempty"`
	Token      *TokenCfg      `yaml:"token,omitempty"`
	Store      *StoreCfg      `yaml:"store,omitempty"`
	Notes      string         `yaml:"notes,omitempty"`
}

type BannerCfg struct {
	HardPity   *int  `yaml:"hard_pity"`
	Guaranteed *bool `yaml:"guaranteed,omitempty"`
	Radiance   *int  `yaml:"radiance,omitempty"`
}

type SimulationCfg struct {
	Trials  *int `yaml:"trials,omitempty"`
	Workers *int `yaml:"workers,omitempty"`
}

type TokenCfg struct {
	Name       string `yaml:"name,omitempty"` // e.g. "Primogem"
	PerDraw    *int   `yaml:"per_draw,omitempty"`
	PerTenDraw *int   `yaml:"per_ten_draw,omitempty"`
}

type StoreCfg struct {
	Currency string    `yaml:"currency,omitempty"` // ISO code
	TaxRate  float64   `yaml:"tax_rate,omitempty"`
	Packs    []PackCfg `yaml:"packs,omitempty"`
}

type PackCfg struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Tokens      int    `yaml:"tokens"`
	BonusTokens int    `yaml:"bonus_tokens,omitempty"`
	FirstTimeX2 bool   `yaml:"first_time_x2,omitempty"`
	PriceCents  int    `yaml:"price_cents"`
}

// Params is the normalized view handed to the CLI and the server after
// merging and defaulting.

type Params struct {
	Version    string
	HardPity   int `validate:"gte=1"`
	Guaranteed bool
	Radiance   int `validate:"gte=1,lte=3"`
	Trials     int `validate:"gte=1"`
	Workers    int `validate:"gte=0"`
	Token      token.Token
	Store      pricing.Catalog
}
