package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/automation"
)

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run the steps of a scenario file in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			results, err := automation.RunScenario(ctx, sc, nil, cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "scenario %s: %d/%d steps completed\n", sc.Name, len(results), len(sc.Steps))
			return err
		},
	}
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per parameter value concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			param, _ := cmd.Flags().GetString("param")
			from, _ := cmd.Flags().GetFloat64("from")
			to, _ := cmd.Flags().GetFloat64("to")
			points, _ := cmd.Flags().GetInt("points")
			workers, _ := cmd.Flags().GetInt("workers")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			results, err := automation.RunSweep(ctx, &automation.Sweep{
				Base: cfg, Param: param, Min: from, Max: to, Points: points, Workers: workers,
			}, nil)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tMEAN T (K)\tMEAN ETOT (eV)\tMAX DRIFT (eV)\n", param)
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(w, "%g\terror: %v\t\t\n", r.Value, r.Err)
					continue
				}
				s := r.Result.Summary
				fmt.Fprintf(w, "%g\t%.1f\t%.4f\t%.2e\n", r.Value, s.MeanTemp, s.MeanTotal, s.MaxDrift)
			}
			return w.Flush()
		},
	}
	addRunFlags(cmd)
	cmd.Flags().String("param", "temperature", "parameter to sweep (temperature, timestep_fs, lj.epsilon, lj.sigma, lj.cutoff)")
	cmd.Flags().Float64("from", 20, "first value")
	cmd.Flags().Float64("to", 80, "last value")
	cmd.Flags().Int("points", 4, "number of values")
	cmd.Flags().Int("workers", 0, "concurrent runs (0 = all CPUs)")
	return cmd
}
