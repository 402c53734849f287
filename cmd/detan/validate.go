package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/detan/internal/config"
)

func newValidateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a problem file and its distances without annealing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Load(path)
			if err != nil {
				return err
			}
			rule, err := p.Rule(cmd.Context())
			if err != nil {
				return err
			}
			if _, err = p.Jobs(rule, 1); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d items, %d groups, %s potential)\n",
				path, rule.Items(), p.Groups, rule.Potential())

			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "problem file (YAML)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
