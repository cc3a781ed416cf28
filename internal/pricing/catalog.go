package pricing

import "math"

// Pack models a purchasable SKU in the store.

type Pack struct {
	ID          string // SKU id, e.g. "6480"
	Name        string // display name, e.g. "6480 Pack"
	Tokens      int    // base tokens granted
	BonusTokens int    // permanent extra tokens (non-first-time)
	FirstTimeX2 bool   // first purchase doubles base Tokens (not BonusTokens)
	PriceCents  int    // price in minor units
}

// Catalog is a regional product catalog plus tax info. If prices are
// tax-inclusive, set TaxRate = 0 and pass the inclusive price.

type Catalog struct {
	TokenName string  // e.g. "Primogem"
	Currency  string  // ISO code, e.g. "CAD"
	TaxRate   float64 // applied on the subtotal, e.g. 0.13
	Packs     []Pack
}

// FirstTimeState tracks per-pack first-time eligibility.
type FirstTimeState map[string]bool // packID -> x2 still available

// Plan summarizes a purchase plan.

type Plan struct {
	Purchases   []Purchase
	SubCents    int // subtotal before tax
	TaxCents    int
	TotalCents  int
	TotalTokens int
	Currency    string
}

// Purchase is one line item in the plan.

type Purchase struct {
	PackID     string
	Name       string
	Qty        int
	UnitPrice  int // cents
	UnitTokens int // tokens per unit in this plan (x2/bonus applied)
	Subtotal   int // cents
}

// applyTax computes tax and total for a subtotal.
func applyTax(sub int, taxRate float64) (tax, total int) {
	if taxRate <= 0 {
		return 0, sub
	}
	t := int(math.Round(float64(sub) * taxRate))
	return t, sub + t
}
