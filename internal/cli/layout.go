package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

// layoutCommand creates the layout command, which writes computed geometry
// back into the program records.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [program.sdfg]",
		Short: "Compute the layout of an SDFG",
		Long: `Compute the layout of an SDFG.

Every block, dataflow node and edge in the program receives a "layout"
attribute holding its position and size. Nested sub-programs, loop bodies
and conditional branches are laid out on their own and placed inside their
container. With --omit-access-nodes, pass-through access nodes are hidden
and shortcut edges tagged "shortcut": true are added in their place.

The input file is not modified; the result is written to a new file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, &flags, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.sdfg)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, flags *layoutFlags, input, output string) error {
	g, res, err := c.relayout(cmd, flags, input, true)
	if err != nil {
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.sdfg"
	}
	if err := sdfg.ExportJSON(g, output); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Layout complete (%.0fx%.0f)", res.Layout.Width(), res.Layout.Height())
	printFile(w, output)
	printStats(w, res.Stats)
	printNextStep(w, "Inspect", appName+" inspect "+input)
	return nil
}
