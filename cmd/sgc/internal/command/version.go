package command

import (
	"runtime"

	"github.com/spf13/cobra"
)

func NewVersionCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: Highlight("sgc version") + "\n\n" +
			"Display the current version of sgc and the Go runtime it was built with.\n",
		Args: MaxArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			cli.Println("sgc", Version, runtime.Version())
		},
	}
	return cmd
}
