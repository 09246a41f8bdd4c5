package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// inspectCommand prints a summary of every registered level.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "inspect [program.sdfg]",
		Short: "Summarize the laid-out levels of an SDFG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := c.relayout(cmd, &flags, args[0], false)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, renderSummary(args[0], res.Layout.Summary()))
			fmt.Fprintln(w)
			printStats(w, res.Stats)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
