package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sdfglayout/pkg/errors"
)

// dotCommand exports one laid-out level as DOT.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output string
		cfgID  int
		state  int
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "dot [program.sdfg]",
		Short: "Export a laid-out level as DOT",
		Long: `Export a laid-out level as DOT.

Positions are pinned, so the file renders as computed with
"neato -n2 -Tsvg". Select the control-flow graph with --cfg and, to export
the dataflow graph of one of its states, the state with --state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := c.relayout(cmd, &flags, args[0], false)
			if err != nil {
				return err
			}
			g, ok := levelGraph(res.Layout, cfgID, state)
			if !ok {
				if state >= 0 {
					return errors.New(errors.ErrCodeNotFound, "no state %d in cfg %d", state, cfgID)
				}
				return errors.New(errors.ErrCodeNotFound, "no laid-out cfg %d", cfgID)
			}

			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), g.DOT())
				return err
			}
			if err := os.WriteFile(output, []byte(g.DOT()), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			printSuccess(cmd.OutOrStdout(), "Exported %s", g.Title())
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&cfgID, "cfg", 0, "control-flow graph id")
	cmd.Flags().IntVar(&state, "state", -1, "state id within the cfg (default: the block level)")
	flags.register(cmd)

	return cmd
}
