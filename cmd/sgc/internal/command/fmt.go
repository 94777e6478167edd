package command

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/shadergraph/document"
)

// FmtOptions holds the options for the fmt command.
type FmtOptions struct {
	Write bool
	List  bool
}

func NewFmtCommand(cli *CLI) *cobra.Command {
	opts := FmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt <file>...",
		Short: "Rewrite graphs as canonical YAML documents",
		Long: Highlight("sgc fmt <file>...") + "\n\n" +
			"Print graphs in the canonical document form: nodes in handle order,\n" +
			"ids taken from handles and two-space indentation.\n\n" +
			"Lisp programs are converted to documents. Only YAML files can be\n" +
			"rewritten in place.\n",
		Args: MinArgsWithUsage(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := cli.formatFile(cmd, path, opts); err != nil {
					return fmt.Errorf("%s: %s", path, describeError(err))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result to the source file instead of standard output")
	cmd.Flags().BoolVarP(&opts.List, "list", "l", false, "List files whose formatting differs")
	return cmd
}

func (c *CLI) formatFile(cmd *cobra.Command, path string, opts FmtOptions) error {
	ext := strings.ToLower(filepath.Ext(path))
	yamlInput := ext == ".yaml" || ext == ".yml"
	if opts.Write && !yamlInput {
		return fmt.Errorf("cannot rewrite %s in place", ext)
	}

	g, err := c.loadGraph(cmd.Context(), path)
	if err != nil {
		return err
	}
	doc, err := document.FromScript(g.Script)
	if err != nil {
		return err
	}
	doc.Name = g.Name
	doc.Stage = g.Stage
	out, err := doc.Marshal()
	if err != nil {
		return err
	}

	if opts.List {
		orig, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !bytes.Equal(orig, out) {
			c.Println(path)
		}
	}
	if opts.Write {
		return os.WriteFile(path, out, 0o644) //nolint:gosec // documents are not secret
	}
	if !opts.List {
		_, err = c.Out.Write(out)
	}
	return err
}
