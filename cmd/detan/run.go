package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/detan/internal/config"
	"github.com/katalvlaran/detan/runner"
)

// runFlags are the flags of the run subcommand.
type runFlags struct {
	path     string
	restarts int
	parallel int
	format   string
}

func newRunCmd(rf *rootFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Anneal a problem file and print the assignments",
		Long: `run builds the distance matrix, draws one starting point per restart
and anneals the restarts concurrently under the file's policy. The printed
assignments are the raw soft memberships; no threshold is applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProblem(cmd, rf, f)
		},
	}
	cmd.Flags().StringVarP(&f.path, "config", "c", "", "problem file (YAML)")
	cmd.Flags().IntVar(&f.restarts, "restarts", 1, "number of independent restarts")
	cmd.Flags().IntVar(&f.parallel, "parallel", 0, "restarts run at once (0 = all)")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text or json")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runProblem(cmd *cobra.Command, rf *rootFlags, f *runFlags) error {
	out, err := newPrinter(f.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	log, err := rf.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	p, err := config.Load(f.path)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	rule, err := p.Rule(ctx)
	if err != nil {
		return err
	}
	jobs, err := p.Jobs(rule, f.restarts)
	if err != nil {
		return err
	}

	results, runErr := runner.RunAll(ctx, jobs, f.parallel, runner.WithLogger(log))
	if err = out.print(newReport(p, rule, results, runErr)); err != nil {
		return err
	}

	return runErr
}
