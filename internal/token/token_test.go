package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostForDraws(t *testing.T) {
	plain := Token{Name: "Primogem", PerDraw: 160}
	assert.Equal(t, 0, plain.CostForDraws(0))
	assert.Equal(t, 0, plain.CostForDraws(-5))
	assert.Equal(t, 160, plain.CostForDraws(1))
	assert.Equal(t, 1600, plain.CostForDraws(10))

	bundled := Token{Name: "Jade", PerDraw: 160, PerTenDraw: 1500}
	assert.Equal(t, 1440, bundled.CostForDraws(9), "no bundle below ten draws")
	assert.Equal(t, 1500, bundled.CostForDraws(10))
	assert.Equal(t, 1500+3*160, bundled.CostForDraws(13))
	assert.Equal(t, 2*1500, bundled.CostForDraws(20))
}

func TestDrawsForTokens(t *testing.T) {
	plain := Token{PerDraw: 160}
	assert.Equal(t, 0, plain.DrawsForTokens(0))
	assert.Equal(t, 0, plain.DrawsForTokens(159))
	assert.Equal(t, 1, plain.DrawsForTokens(160))
	assert.Equal(t, 10, plain.DrawsForTokens(1605))

	bundled := Token{PerDraw: 160, PerTenDraw: 1500}
	assert.Equal(t, 10, bundled.DrawsForTokens(1500))
	assert.Equal(t, 13, bundled.DrawsForTokens(1500+3*160))

	// a bundle priced like ten singles is no discount at all
	flat := Token{PerDraw: 160, PerTenDraw: 1600}
	assert.Equal(t, 9, flat.DrawsForTokens(1599))
	assert.Equal(t, 10, flat.DrawsForTokens(1600))

	assert.Equal(t, 0, Token{}.DrawsForTokens(1000))
}
