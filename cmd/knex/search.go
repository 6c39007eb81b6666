package main

import (
	"github.com/spf13/cobra"
)

func newSearchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "List stored analyses whose topics or keywords contain term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadWithoutLLM()
			if err != nil {
				return err
			}
			a, cleanup, err := buildApp(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := a.knex.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := make([]recordOutput, 0, len(records))
			for _, r := range records {
				out = append(out, toOutput(r))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
