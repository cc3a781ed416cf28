package pricing

import (
	"math"
	"sort"

	"github.com/xtding233/wishsim/internal/token"
)

// First-time-double variants are one-shot, so they are chosen by subset
// enumeration rather than inside the unbounded knapsack. Store catalogs
// hold a handful of SKUs; the bound only guards pathological input.
const maxDoublePacks = 16

const unreachable = int(^uint(0) >> 1)

type variant struct {
	id, name   string
	tok, price int
}

// splitVariants expands the catalog into unbounded normal variants and
// one-shot first-time x2 variants.
func splitVariants(cat Catalog, first FirstTimeState) (normals, doubles []variant) {
	for _, p := range cat.Packs {
		if p.FirstTimeX2 && first != nil && first[p.ID] {
			doubles = append(doubles, variant{
				id:    p.ID + "#x2",
				name:  p.Name + " (x2)",
				tok:   p.Tokens*2 + p.BonusTokens,
				price: p.PriceCents,
			})
		}
		normals = append(normals, variant{
			id:    p.ID,
			name:  p.Name,
			tok:   p.Tokens + p.BonusTokens,
			price: p.PriceCents,
		})
	}
	if len(doubles) > maxDoublePacks {
		doubles = doubles[:maxDoublePacks]
	}
	return normals, doubles
}

// MinCostForDraws plans the cheapest purchases that fund n draws priced
// by t against the catalog.
func MinCostForDraws(cat Catalog, t token.Token, draws int, first FirstTimeState) Plan {
	return MinCostAtLeastTokens(cat, t.CostForDraws(draws), first)
}

// MinCostAtLeastTokens finds the minimum-cost combination yielding at
// least targetTokens. Normal packs may repeat; each first-time x2
// variant is bought at most once.
func MinCostAtLeastTokens(cat Catalog, targetTokens int, first FirstTimeState) Plan {
	if targetTokens <= 0 || len(cat.Packs) == 0 {
		return Plan{Currency: cat.Currency}
	}
	normals, doubles := splitVariants(cat, first)

	maxTok := 0
	for _, e := range normals {
		if e.tok > maxTok {
			maxTok = e.tok
		}
	}

	// dp[t] = min cost to reach t tokens (t clamped at limit, which
	// permits a slight overshoot at minimal cost).
	limit := targetTokens + maxTok
	dp := make([]int, limit+1)
	chose := make([]int, limit+1)
	prev := make([]int, limit+1)
	for t := range dp {
		dp[t] = unreachable
		chose[t] = -1
		prev[t] = -1
	}
	dp[0] = 0
	for t := 0; t <= limit; t++ {
		if dp[t] == unreachable {
			continue
		}
		for i, e := range normals {
			if e.tok == 0 {
				continue
			}
			nt := t + e.tok
			if nt > limit {
				nt = limit
			}
			if cost := dp[t] + e.price; cost < dp[nt] {
				dp[nt] = cost
				chose[nt] = i
				prev[nt] = t
			}
		}
	}

	// bestCost[t]: cheapest way to reach >= t tokens via normals alone.
	bestCost := make([]int, limit+1)
	bestAt := make([]int, limit+1)
	bestCost[limit] = dp[limit]
	bestAt[limit] = limit
	for t := limit - 1; t >= 0; t-- {
		bestCost[t] = bestCost[t+1]
		bestAt[t] = bestAt[t+1]
		if dp[t] <= bestCost[t] {
			bestCost[t] = dp[t]
			bestAt[t] = t
		}
	}

	// Try every subset of one-shot doubles on top of the normal DP.
	bestTotal := unreachable
	bestMask := 0
	bestNormT := -1
	for mask := 0; mask < 1<<len(doubles); mask++ {
		tok0, cost0 := 0, 0
		for i, d := range doubles {
			if mask&(1<<i) != 0 {
				tok0 += d.tok
				cost0 += d.price
			}
		}
		need := targetTokens - tok0
		if need < 0 {
			need = 0
		}
		total := cost0
		normT := -1
		if need > 0 {
			if bestCost[need] == unreachable {
				continue
			}
			total += bestCost[need]
			normT = bestAt[need]
		}
		if total < bestTotal {
			bestTotal = total
			bestMask = mask
			bestNormT = normT
		}
	}
	if bestTotal == unreachable {
		return Plan{Currency: cat.Currency}
	}

	counts := map[variant]int{}
	for i, d := range doubles {
		if bestMask&(1<<i) != 0 {
			counts[d] = 1
		}
	}
	for t := bestNormT; t > 0 && chose[t] >= 0; t = prev[t] {
		counts[normals[chose[t]]]++
	}
	return buildPlan(cat, counts)
}

// MaxTokensUnderBudget maximizes tokens obtainable for at most
// budgetCents (tax included). Same variant model as the min-cost plan.
func MaxTokensUnderBudget(cat Catalog, budgetCents int, first FirstTimeState) Plan {
	if budgetCents <= 0 || len(cat.Packs) == 0 {
		return Plan{Currency: cat.Currency}
	}
	normals, doubles := splitVariants(cat, first)

	// Prices are pre-tax; shrink the spendable budget so the taxed
	// total stays under the cap.
	effBudget := budgetCents
	if cat.TaxRate > 0 {
		// nudge past float division error so exact fits stay affordable
		effBudget = int(math.Floor(float64(budgetCents)/(1+cat.TaxRate) + 1e-9))
	}

	// dp[c] = max tokens at exact pre-tax cost c via normals.
	dp := make([]int, effBudget+1)
	chose := make([]int, effBudget+1)
	for c := range dp {
		dp[c] = -1
		chose[c] = -1
	}
	dp[0] = 0
	for c := 0; c <= effBudget; c++ {
		if dp[c] < 0 {
			continue
		}
		for i, e := range normals {
			nc := c + e.price
			if nc > effBudget {
				continue
			}
			if val := dp[c] + e.tok; val > dp[nc] {
				dp[nc] = val
				chose[nc] = i
			}
		}
	}

	// bestTok[c]: max tokens spending <= c on normals.
	bestTok := make([]int, effBudget+1)
	bestAt := make([]int, effBudget+1)
	bestTok[0] = 0
	for c := 1; c <= effBudget; c++ {
		bestTok[c] = bestTok[c-1]
		bestAt[c] = bestAt[c-1]
		if dp[c] > bestTok[c] {
			bestTok[c] = dp[c]
			bestAt[c] = c
		}
	}

	bestTotal := -1
	bestMask := 0
	bestNormC := 0
	for mask := 0; mask < 1<<len(doubles); mask++ {
		tok0, cost0 := 0, 0
		for i, d := range doubles {
			if mask&(1<<i) != 0 {
				tok0 += d.tok
				cost0 += d.price
			}
		}
		if cost0 > effBudget {
			continue
		}
		rem := effBudget - cost0
		if total := tok0 + bestTok[rem]; total > bestTotal {
			bestTotal = total
			bestMask = mask
			bestNormC = bestAt[rem]
		}
	}
	if bestTotal <= 0 {
		return Plan{Currency: cat.Currency}
	}

	counts := map[variant]int{}
	for i, d := range doubles {
		if bestMask&(1<<i) != 0 {
			counts[d] = 1
		}
	}
	for c := bestNormC; c > 0 && chose[c] >= 0; c -= normals[chose[c]].price {
		counts[normals[chose[c]]]++
	}
	return buildPlan(cat, counts)
}

// buildPlan groups chosen variants into deterministic line items and
// totals them up.
func buildPlan(cat Catalog, counts map[variant]int) Plan {
	plan := Plan{Currency: cat.Currency}
	for v, qty := range counts {
		sub := v.price * qty
		plan.Purchases = append(plan.Purchases, Purchase{
			PackID:     v.id,
			Name:       v.name,
			Qty:        qty,
			UnitPrice:  v.price,
			UnitTokens: v.tok,
			Subtotal:   sub,
		})
		plan.SubCents += sub
		plan.TotalTokens += v.tok * qty
	}
	sort.Slice(plan.Purchases, func(i, j int) bool {
		return plan.Purchases[i].PackID < plan.Purchases[j].PackID
	})
	plan.TaxCents, plan.TotalCents = applyTax(plan.SubCents, cat.TaxRate)
	return plan
}
