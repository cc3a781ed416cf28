package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xtding233/wishsim/internal/preset"
	"github.com/xtding233/wishsim/internal/pricing"
)

type planFlags struct {
	draws       int
	budgetCents int
	presetName  string
	configDir   string
	noFirstTime bool
}

func newPlanCmd() *cobra.Command {
	f := &planFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Cheapest store purchases to fund a wish budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, f)
		},
	}
	cmd.Flags().IntVarP(&f.draws, "draws", "n", 0, "number of wishes to fund")
	cmd.Flags().IntVar(&f.budgetCents, "budget-cents", 0, "instead: maximize tokens under this spend")
	cmd.Flags().StringVar(&f.presetName, "preset", "", "banner preset name")
	cmd.Flags().StringVar(&f.configDir, "config-dir", "configs", "config directory")
	cmd.Flags().BoolVar(&f.noFirstTime, "no-first-time", false, "assume first-time doubles are used up")
	return cmd
}

func runPlan(cmd *cobra.Command, f *planFlags) error {
	if f.draws <= 0 && f.budgetCents <= 0 {
		return fmt.Errorf("one of --draws or --budget-cents is required")
	}
	prm, err := preset.NewLoader(f.configDir).Resolve(f.presetName)
	if err != nil {
		return err
	}
	if len(prm.Store.Packs) == 0 || prm.Token.PerDraw == 0 {
		return fmt.Errorf("preset %q has no store/token pricing", f.presetName)
	}

	first := pricing.FirstTimeState{}
	if !f.noFirstTime {
		for _, p := range prm.Store.Packs {
			if p.FirstTimeX2 {
				first[p.ID] = true
			}
		}
	}

	out := cmd.OutOrStdout()
	var plan pricing.Plan
	if f.draws > 0 {
		plan = pricing.MinCostForDraws(prm.Store, prm.Token, f.draws, first)
		fmt.Fprintf(out, "%d wishes cost %d %s\n", f.draws, prm.Token.CostForDraws(f.draws), prm.Token.Name)
	} else {
		plan = pricing.MaxTokensUnderBudget(prm.Store, f.budgetCents, first)
		fmt.Fprintf(out, "Best value under %s: %d %s (%d wishes)\n",
			money(f.budgetCents, plan.Currency), plan.TotalTokens, prm.Token.Name,
			prm.Token.DrawsForTokens(plan.TotalTokens))
	}
	if len(plan.Purchases) == 0 {
		fmt.Fprintln(out, "No purchase plan found.")
		return nil
	}
	for _, p := range plan.Purchases {
		fmt.Fprintf(out, "  %dx %-24s %8s  (%d tokens each)\n",
			p.Qty, p.Name, money(p.Subtotal, plan.Currency), p.UnitTokens)
	}
	fmt.Fprintf(out, "Subtotal %s, tax %s, total %s for %d tokens\n",
		money(plan.SubCents, plan.Currency), money(plan.TaxCents, plan.Currency),
		money(plan.TotalCents, plan.Currency), plan.TotalTokens)
	return nil
}

func money(cents int, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%s %d.%02d", currency, cents/100, cents%100)
}
