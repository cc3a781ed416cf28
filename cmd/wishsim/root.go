package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/xtding233/wishsim/internal/gacha"
	"github.com/xtding233/wishsim/internal/preset"
)

type rootFlags struct {
	wishes     int
	target     int
	pity       int
	hardPity   int
	guaranteed bool
	radiance   int
	trials     int
	seed       uint64
	workers    int
	presetName string
	configDir  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "wishsim",
		Short: "Monte Carlo odds for limited banner wishes",
		Long: "wishsim estimates the probability of pulling a target number of " +
			"featured 5-stars within a wish budget, accounting for hard pity, " +
			"the soft-pity ramp, the 50/50 guarantee and the radiance streak.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, f)
		},
	}

	cmd.Flags().IntVarP(&f.wishes, "wishes", "w", 0, "number of wishes to simulate")
	cmd.Flags().IntVarP(&f.target, "target", "t", 1, "target number of featured 5-stars")
	cmd.Flags().IntVarP(&f.pity, "pity", "p", 0, "current pity on the banner")
	cmd.Flags().IntVarP(&f.hardPity, "hard-pity", "P", 0, "hard pity threshold (default from preset)")
	cmd.Flags().BoolVarP(&f.guaranteed, "guaranteed", "g", false, "next 5-star is guaranteed featured")
	cmd.Flags().IntVar(&f.radiance, "radiance", 0, "radiance streak counter, 1-3 (default from preset)")
	cmd.Flags().IntVarP(&f.trials, "trials", "c", 0, "number of trials (default from preset)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "RNG seed; 0 means non-reproducible")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel trial workers; <=1 runs serially")
	cmd.Flags().StringVar(&f.presetName, "preset", "", "banner preset name")
	cmd.Flags().StringVar(&f.configDir, "config-dir", "configs", "config directory")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print average-draw figures and token cost")
	_ = cmd.MarkFlagRequired("wishes")

	cmd.AddCommand(newPlanCmd())
	return cmd
}

func runSimulate(cmd *cobra.Command, f *rootFlags) error {
	prm, err := preset.NewLoader(f.configDir).Resolve(f.presetName)
	if err != nil {
		return err
	}

	// explicit flags win over the preset
	hardPity := prm.HardPity
	if cmd.Flags().Changed("hard-pity") {
		hardPity = f.hardPity
	}
	guaranteed := prm.Guaranteed
	if cmd.Flags().Changed("guaranteed") {
		guaranteed = f.guaranteed
	}
	radiance := prm.Radiance
	if cmd.Flags().Changed("radiance") {
		radiance = f.radiance
	}
	trials := prm.Trials
	if cmd.Flags().Changed("trials") {
		trials = f.trials
	}
	workers := prm.Workers
	if cmd.Flags().Changed("workers") {
		workers = f.workers
	}

	params := gacha.SimParams{
		Budget: f.wishes,
		Target: f.target,
		Initial: gacha.BannerState{
			CurrentPity: f.pity,
			HardPity:    hardPity,
			Guaranteed:  guaranteed,
			Radiance:    radiance,
		},
		Trials:  trials,
		Seed:    f.seed,
		Workers: workers,
	}
	res, err := gacha.RunMonteCarlo(params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out,
		"The probability of getting %d featured 5-star(s) in %d wishes is approximately %.2f%% (calculated over %d trials)\n",
		f.target, f.wishes, res.SuccessProbability*100, res.Trials)

	if f.verbose {
		fmt.Fprintf(out, "Average wishes to reach the target:      %s\n", fmtAvg(res.AvgDrawsToTarget))
		fmt.Fprintf(out, "Average wishes to first featured 5-star: %s\n", fmtAvg(res.AvgDrawsToFirstHit))
		if res.SuccessTrials > 0 {
			fmt.Fprintf(out, "Wishes to target (successful trials):    p50=%.0f p90=%.0f p99=%.0f\n",
				res.TargetStats.P50, res.TargetStats.P90, res.TargetStats.P99)
		}
		if prm.Token.PerDraw > 0 {
			fmt.Fprintf(out, "Cost of %d wishes: %d %s\n",
				f.wishes, prm.Token.CostForDraws(f.wishes), prm.Token.Name)
		}
	}
	return nil
}

func fmtAvg(v float64) string {
	if math.IsInf(v, 0) {
		return "never reached"
	}
	return fmt.Sprintf("%.0f", v)
}
