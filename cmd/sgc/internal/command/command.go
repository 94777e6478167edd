package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/document"
	"github.com/gogpu/shadergraph/internal/config"
	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lisp"
	"github.com/gogpu/shadergraph/lower"
)

// CLI is the shared state passed from the root to every subcommand.
type CLI struct {
	Out io.Writer
	Err io.Writer
	Log logr.Logger

	Config  *config.Config
	Metrics *lower.Metrics

	registry *prometheus.Registry
}

// NewCLI creates a CLI writing to out and err with default configuration.
func NewCLI(out, err io.Writer) *CLI {
	cli := &CLI{
		Out:      out,
		Err:      err,
		Log:      logr.Discard(),
		Config:   config.Default(),
		Metrics:  lower.NewMetrics(),
		registry: prometheus.NewRegistry(),
	}
	cli.Metrics.MustRegister(cli.registry)
	return cli
}

// Highlight applies a blue color to the given format and arguments.
func Highlight(format string, a ...any) string {
	return color.RGB(50, 108, 229).Sprintf(format, a...)
}

// Failure applies a red color to the given format and arguments.
func Failure(format string, a ...any) string {
	return color.RGB(229, 50, 50).Sprintf(format, a...)
}

// Println writes a line to the output stream.
func (c *CLI) Println(a ...any) {
	fmt.Fprintln(c.Out, a...)
}

// Errorln writes a line to the error stream.
func (c *CLI) Errorln(a ...any) {
	fmt.Fprintln(c.Err, a...)
}

// CompileOptions returns the configured options with metrics and logging
// attached to the lowering pass.
func (c *CLI) CompileOptions() (shadergraph.CompileOptions, error) {
	opts, err := c.Config.CompileOptions()
	if err != nil {
		return opts, err
	}
	opts.Lower = append(opts.Lower, lower.WithLogger(c.Log), lower.WithMetrics(c.Metrics))
	return opts, nil
}

// WriteMetrics writes the collected metrics in text exposition format.
func (c *CLI) WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// graph is a loaded input file.
type graph struct {
	Path   string
	Name   string
	Script *ir.Script
	// Stage is the stage declared by a document, empty when inferred.
	Stage string
	Lower []lower.Option
}

// loadGraph reads a YAML document or Lisp program, chosen by extension.
func (c *CLI) loadGraph(ctx context.Context, path string) (*graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g := &graph{Path: path, Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err := document.Parse(data)
		if err != nil {
			return nil, err
		}
		if doc.Name != "" {
			g.Name = doc.Name
		}
		if stage, ok := doc.ShaderStage(); ok {
			g.Stage = stage.String()
			g.Lower = []lower.Option{lower.WithStage(stage)}
		}
		g.Script, err = doc.Build()
		if err != nil {
			return nil, err
		}
	case ".lisp", ".zy", ".sg":
		g.Script, err = lisp.New(lisp.WithLogger(c.Log)).Evaluate(ctx, string(data))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported input %q (want .yaml, .yml, .lisp, .zy or .sg)", path)
	}
	c.Log.V(1).Info("loaded graph", "path", path, "nodes", g.Script.Len())
	return g, nil
}

// describeError renders an error with source context when available.
func describeError(err error) string {
	var se *document.SourceError
	if errors.As(err, &se) && se.Source != "" {
		return se.FormatWithContext()
	}
	return err.Error()
}

// MinArgsWithUsage returns an error if there are fewer than min args, and
// shows usage information for better user experience.
func MinArgsWithUsage(minArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) >= minArgs {
			return nil
		}
		_ = cmd.Usage()
		if minArgs == 1 {
			return fmt.Errorf("requires at least 1 argument")
		}
		return fmt.Errorf("requires at least %d arguments", minArgs)
	}
}

// MaxArgs returns an error if there are more than the max number of args.
func MaxArgs(number int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) <= number {
			return nil
		}
		return fmt.Errorf("expected at most %d arguments, got %d", number, len(args))
	}
}
