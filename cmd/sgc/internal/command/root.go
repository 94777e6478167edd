package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gogpu/shadergraph/internal/config"
)

// Version is the sgc release, set at build time with -ldflags.
var Version = "0.1.0-dev"

// GlobalOptions are the flags shared by every subcommand.
type GlobalOptions struct {
	ConfigPath  string
	Target      string
	Debug       bool
	MetricsFile string
}

func NewRootCommand(cli *CLI, opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use: "sgc",
		Short: Highlight("sgc [global options] <subcommand> [args]") + "\n" +
			"A compiler for visual shader graphs",
		Long: Highlight("Usage: sgc [global options] <subcommand> [args]\n") + "\n" +
			"sgc compiles shader graphs, written as YAML documents or Lisp programs,\n" +
			"to GLSL, HLSL, MSL and WGSL. It includes commands for validation,\n" +
			"formatting and watching graphs during development.\n",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				_ = cmd.Help()
			}
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.configure(opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.MetricsFile == "" {
				return nil
			}
			return cli.WriteMetrics(opts.MetricsFile)
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.FileName, "Configuration file")
	cmd.PersistentFlags().StringVarP(&opts.Target, "target", "t", "", "Output language. One of: (glsl | hlsl | msl | wgsl)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Set log level to debug")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write compile metrics to this file on exit")
	return cmd
}

// configure loads the configuration file, then applies the environment and
// flags in that order.
func (c *CLI) configure(opts *GlobalOptions) error {
	cfg, err := config.Load(opts.ConfigPath, opts.ConfigPath == config.FileName)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if opts.Target != "" {
		cfg.Target = opts.Target
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	c.Config = cfg

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	c.Log = log
	return nil
}

// newLogger builds a console zap logger behind logr.
func newLogger(level string) (logr.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return logr.Discard(), fmt.Errorf("invalid log level %q", level)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	zc.EncoderConfig.TimeKey = ""
	z, err := zc.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(z), nil
}

func setCobraUsageTemplate(root *cobra.Command) {
	cobra.AddTemplateFunc("StyleHeading", color.RGB(50, 108, 229).SprintFunc())
	usageTemplate := root.UsageTemplate()
	usageTemplate = strings.NewReplacer(
		`Usage:`, `{{StyleHeading "Usage:"}}`,
		`Examples:`, `{{StyleHeading "Examples:"}}`,
		`Available Commands:`, `{{StyleHeading "Available Commands:"}}`,
		`Flags:`, `{{StyleHeading "Options:"}}`,
		`Global Flags:`, `{{StyleHeading "Global Options:"}}`,
	).Replace(usageTemplate)
	root.SetUsageTemplate(usageTemplate)
}

// Execute runs sgc with the process arguments and exits.
func Execute() {
	// Disable color output if NO_COLOR is set in the environment
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		color.NoColor = true
	}

	cli := NewCLI(os.Stdout, os.Stderr)
	root := NewRootCommand(cli, &GlobalOptions{})
	setCobraUsageTemplate(root)
	root.SetVersionTemplate("{{.Version}}\n")
	AddCommands(root, cli)

	if err := root.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			cli.Errorln(Failure("Error:"), msg)
		}
		os.Exit(1)
	}
	os.Exit(0)
}

// AddCommands registers all subcommands to the root command.
func AddCommands(root *cobra.Command, cli *CLI) {
	root.AddCommand(
		NewCompileCommand(cli),
		NewValidateCommand(cli),
		NewFmtCommand(cli),
		NewWatchCommand(cli),
		NewVersionCommand(cli),
	)
}
