package token

// Token defines how many currency units a draw costs.

type Token struct {
	Name       string // e.g. "Primogem", "Stellar Jade"
	PerDraw    int    // tokens per single draw, e.g. 160
	PerTenDraw int    // optional bundle rate; if 0 => 10 * PerDraw
}

// CostForDraws returns how many tokens n draws require, applying the
// ten-draw bundle rate to full bundles when one is configured.
func (t Token) CostForDraws(n int) int {
	if n <= 0 {
		return 0
	}
	if t.PerTenDraw > 0 && n >= 10 {
		tens := n / 10
		rem := n % 10
		return tens*t.PerTenDraw + rem*t.PerDraw
	}
	return n * t.PerDraw
}

// DrawsForTokens returns the maximum number of draws affordable with the
// given token balance.
func (t Token) DrawsForTokens(tokens int) int {
	if t.PerDraw <= 0 || tokens <= 0 {
		return 0
	}
	// bundles only help when actually discounted
	if t.PerTenDraw > 0 && t.PerTenDraw < 10*t.PerDraw {
		tens := tokens / t.PerTenDraw
		rem := (tokens - tens*t.PerTenDraw) / t.PerDraw
		return tens*10 + rem
	}
	return tokens / t.PerDraw
}
