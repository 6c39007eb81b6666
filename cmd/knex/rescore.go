package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRescoreCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rescore",
		Short: "Recompute keywords and confidence of every stored analysis",
		Long: `Rescore replays the raw text of every stored analysis through the
keyword engine, for instance after the lexicon was extended, and updates
the records whose keywords or confidence changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadWithoutLLM()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			a, cleanup, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.rescorer().Rescore(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d, updated %d, errors %d\n",
				res.Processed, res.Updated, res.Errors)
			return nil
		},
	}
}
