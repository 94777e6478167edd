package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/document"
	"github.com/gogpu/shadergraph/internal/cache"
	"github.com/gogpu/shadergraph/internal/config"
	"github.com/gogpu/shadergraph/internal/publish"
	"github.com/gogpu/shadergraph/lower"
)

// CompileOptions holds the options for the compile command.
type CompileOptions struct {
	OutDir  string
	Publish bool
	NoCache bool
}

func NewCompileCommand(cli *CLI) *cobra.Command {
	opts := CompileOptions{}

	cmd := &cobra.Command{
		Use:   "compile <file>...",
		Short: "Compile shader graphs to a target language",
		Long: Highlight("sgc compile <file>...") + "\n\n" +
			"Compile YAML graph documents or Lisp programs.\n\n" +
			"Without --out the generated source is written to standard output.\n" +
			"With --out every graph is written to <out>/<name><ext>.\n",
		Args: MinArgsWithUsage(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.OutDir == "" {
				opts.OutDir = cli.Config.OutDir
			}
			s, err := cli.newSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			failed := 0
			for _, path := range args {
				if err := s.compileFile(cmd.Context(), path); err != nil {
					cli.Errorln(Failure("Error:"), path)
					cli.Errorln(describeError(err))
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d graphs failed to compile", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "Output directory (default: standard output)")
	cmd.Flags().BoolVar(&opts.Publish, "publish", false, "Publish compiled shaders to the configured MQTT broker")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Skip the shader cache")
	return cmd
}

// session compiles graphs with one set of options, cache and publisher.
type session struct {
	cli    *CLI
	opts   shadergraph.CompileOptions
	outDir string
	store  cache.Store
	pub    *publish.Publisher
}

func (c *CLI) newSession(ctx context.Context, o CompileOptions) (*session, error) {
	opts, err := c.CompileOptions()
	if err != nil {
		return nil, err
	}
	s := &session{cli: c, opts: opts, outDir: o.OutDir}

	if !o.NoCache {
		switch dsn := c.Config.Cache.DSN; dsn {
		case "":
		case config.MemoryCache:
			s.store = cache.NewMemory()
		default:
			s.store, err = cache.OpenPostgres(ctx, dsn, c.Log.WithName("cache"))
			if err != nil {
				return nil, err
			}
		}
	}

	if o.Publish {
		cfg := c.Config.MQTT
		s.pub = publish.New(cfg.URL, cfg.ClientID, cfg.Prefix, c.Log.WithName("publish"))
		if err := s.pub.Connect(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close releases the cache and broker connection.
func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.cli.Log.Error(err, "failed to close cache")
		}
	}
	if s.pub != nil {
		s.pub.Close()
	}
}

// compileFile loads, compiles and emits one graph.
func (s *session) compileFile(ctx context.Context, path string) error {
	g, err := s.cli.loadGraph(ctx, path)
	if err != nil {
		return err
	}
	hash, err := document.Hash(g.Script)
	if err != nil {
		return err
	}

	opts := s.opts
	opts.Lower = append(append([]lower.Option(nil), s.opts.Lower...), g.Lower...)
	key := cache.Key(hash, opts.Target.String(), s.fingerprint(g))

	entry, hit, err := s.lookup(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		res, err := shadergraph.Compile(g.Script, opts)
		if err != nil {
			return err
		}
		entry = cache.Entry{
			Key:        key,
			Name:       g.Name,
			Target:     res.Target.String(),
			Stage:      res.Stage.String(),
			EntryPoint: res.EntryPoint,
			Source:     res.Source,
		}
		if s.store != nil {
			if err := s.store.Put(ctx, entry); err != nil {
				return err
			}
		}
	}
	s.cli.Log.V(1).Info("compiled graph", "name", g.Name, "target", entry.Target, "cached", hit)

	if err := s.write(g.Name, entry.Source); err != nil {
		return err
	}
	if s.pub != nil {
		return s.pub.Publish(ctx, publish.Message{
			Name:   g.Name,
			Target: entry.Target,
			Stage:  entry.Stage,
			Hash:   hash,
			Source: entry.Source,
		})
	}
	return nil
}

// fingerprint extends the backend fingerprint with the lowering settings,
// which it leaves out.
func (s *session) fingerprint(g *graph) string {
	l := s.cli.Config.Lower
	return fmt.Sprintf("%s/%s/f%t/d%t", s.opts.Fingerprint(), g.Stage, l.ConstantFolding, l.DeadNodeElimination)
}

func (s *session) lookup(ctx context.Context, key string) (cache.Entry, bool, error) {
	if s.store == nil {
		return cache.Entry{}, false, nil
	}
	return s.store.Get(ctx, key)
}

// write emits source to standard output or <outDir>/<name><ext>.
func (s *session) write(name, source string) error {
	if s.outDir == "" {
		_, err := fmt.Fprint(s.cli.Out, source)
		return err
	}
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.outDir, outputName(name)+s.opts.Target.Extension())
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil { //nolint:gosec // generated shaders are not secret
		return err
	}
	s.cli.Println(Highlight("Wrote"), path)
	return nil
}

// outputName keeps a graph name from escaping the output directory.
func outputName(name string) string {
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "shader"
	}
	return name
}
