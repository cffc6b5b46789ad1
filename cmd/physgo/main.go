// Command physgo is the CLI entry point for running the bundled
// physics-informed training experiments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/physgo-ml/physgo/experiments/poisson"
)

const version = "v0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "physgo",
		Short:         "Physics-informed neural network training",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newVersionCmd(), newSolveCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("physgo %s\n", version)
		},
	}
}

func newSolveCmd() *cobra.Command {
	solve := &cobra.Command{
		Use:   "solve",
		Short: "Train a bundled problem",
	}
	solve.AddCommand(newPoissonCmd())
	return solve
}

func newPoissonCmd() *cobra.Command {
	cfg := poisson.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "poisson",
		Short: "Poisson equation on the unit square with a known solution",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := poisson.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Printf("run %s finished, loss %.6e\n", res.RunID, res.FinalLoss)
			fmt.Printf("validation: max abs error %.4e, mean abs error %.4e\n",
				res.Validation.MaxAbsError, res.Validation.MeanAbsError)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.PDEPoints, "pde-points", cfg.PDEPoints, "interior collocation points")
	flags.IntVar(&cfg.BoundaryPoints, "boundary-points", cfg.BoundaryPoints, "boundary collocation points")
	flags.IntVar(&cfg.AdamSteps, "adam-steps", cfg.AdamSteps, "Adam steps in stage one")
	flags.Float32Var(&cfg.AdamLR, "adam-lr", cfg.AdamLR, "Adam learning rate")
	flags.IntVar(&cfg.LBFGSSteps, "lbfgs-steps", cfg.LBFGSSteps, "LBFGS steps in stage two")
	flags.Float32Var(&cfg.LBFGSLR, "lbfgs-lr", cfg.LBFGSLR, "LBFGS line search step length")
	flags.IntVar(&cfg.LogEvery, "log-every", cfg.LogEvery, "log every n steps")
	flags.IntVar(&cfg.ValidationGrid, "validation-grid", cfg.ValidationGrid, "validation grid size per axis")
	flags.StringVar(&cfg.OutDir, "out", cfg.OutDir, "heatmap output directory (empty disables)")
	flags.StringVar(&cfg.CheckpointPath, "checkpoint", cfg.CheckpointPath, "checkpoint file (empty disables)")
	return cmd
}
