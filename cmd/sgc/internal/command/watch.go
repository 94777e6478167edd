package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// WatchOptions holds the options for the watch command.
type WatchOptions struct {
	CompileOptions
	Interval time.Duration
}

func NewWatchCommand(cli *CLI) *cobra.Command {
	opts := WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <file>...",
		Short: "Recompile shader graphs when they change",
		Long: Highlight("sgc watch <file>...") + "\n\n" +
			"Compile every graph, then poll the files and recompile those that\n" +
			"change until interrupted. Combine with --publish to hot-reload\n" +
			"shaders in a running renderer.\n",
		Args: MinArgsWithUsage(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.OutDir == "" {
				opts.OutDir = cli.Config.OutDir
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := cli.newSession(ctx, opts.CompileOptions)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.watch(ctx, newWatcher(args), opts.Interval)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "Output directory (default: standard output)")
	cmd.Flags().BoolVar(&opts.Publish, "publish", false, "Publish compiled shaders to the configured MQTT broker")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Skip the shader cache")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 500*time.Millisecond, "Polling interval")
	return cmd
}

// watch compiles changed files on every tick until ctx is done. Compile
// errors are reported and do not stop the loop.
func (s *session) watch(ctx context.Context, w *watcher, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, path := range w.changed() {
			if err := s.compileFile(ctx, path); err != nil {
				s.cli.Errorln(Failure("Error:"), path)
				s.cli.Errorln(describeError(err))
			}
		}
		select {
		case <-ctx.Done():
			s.cli.Log.V(1).Info("stopped watching")
			return nil
		case <-ticker.C:
		}
	}
}

// watcher tracks modification times of a fixed set of files.
type watcher struct {
	paths []string
	seen  map[string]time.Time
}

func newWatcher(paths []string) *watcher {
	return &watcher{paths: paths, seen: make(map[string]time.Time, len(paths))}
}

// changed returns the files modified since the previous call. Every
// readable file counts as changed on the first call. Missing files are
// skipped until they reappear.
func (w *watcher) changed() []string {
	var out []string
	for _, path := range w.paths {
		fi, err := os.Stat(path)
		if err != nil {
			delete(w.seen, path)
			continue
		}
		if prev, ok := w.seen[path]; ok && prev.Equal(fi.ModTime()) {
			continue
		}
		w.seen[path] = fi.ModTime()
		out = append(out, path)
	}
	return out
}
