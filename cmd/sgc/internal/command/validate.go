package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/shadergraph"
)

func NewValidateCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate shader graphs",
		Long: Highlight("sgc validate <file>...") + "\n\n" +
			"Check that every graph loads and is complete: all input pins bound,\n" +
			"edge types compatible, no cycles, and at least one output.\n\n" +
			"Every problem in a graph is reported, not only the first.\n",
		Args: MinArgsWithUsage(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			for _, path := range args {
				if !cli.validateFile(cmd, path) {
					invalid++
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d graphs are invalid", invalid, len(args))
			}
			return nil
		},
	}
	return cmd
}

func (c *CLI) validateFile(cmd *cobra.Command, path string) bool {
	g, err := c.loadGraph(cmd.Context(), path)
	if err != nil {
		c.Println(Failure("Error!"), path)
		c.Println(describeError(err))
		return false
	}
	errs := shadergraph.Validate(g.Script)
	if len(errs) == 0 {
		c.Println(Highlight("Valid!"), path)
		return true
	}
	c.Println(Failure("Error!"), path)
	for _, err := range errs {
		c.Println("  " + err.Error())
	}
	return false
}
