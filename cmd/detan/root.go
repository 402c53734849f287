package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/detan/runner"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "detan",
		Short: "Deterministic-annealing pairwise clustering",
		Long: `detan splits N items into k soft groups from their pairwise distances.
Each problem file names the distances, the number of groups and the cooling
schedule; detan anneals one or more restarts and prints the assignments.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&f.logFormat, "log-format", "text", "log handler: text or json")

	root.AddCommand(newRunCmd(f), newValidateCmd())

	return root
}

// logger builds the run logger writing to w.
func (f *rootFlags) logger(w io.Writer) (*runner.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	switch strings.ToLower(f.logFormat) {
	case "text":
		return runner.NewTextLogger(w, level), nil
	case "json":
		return runner.NewJSONLogger(w, level), nil
	default:
		return nil, fmt.Errorf("--log-format: unknown handler %q", f.logFormat)
	}
}
