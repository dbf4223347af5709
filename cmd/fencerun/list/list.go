package list

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/flarebyte/fencerun/internal/config"
	"github.com/flarebyte/fencerun/internal/lens"
	"github.com/flarebyte/fencerun/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	cfgPath     string
	flagJSON    bool
	concurrency int
)

// Cmd implements `fencerun list`.
var Cmd = &cobra.Command{
	Use:           "list [file|glob]...",
	Short:         "List the runnable blocks of Markdown documents",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.PathOrEnv(cfgPath)
		if path == "" {
			return fmt.Errorf("missing required flag: --config (or %s)", config.EnvConfigPath)
		}
		files, err := expandPatterns(args)
		if err != nil {
			return err
		}
		perFile, err := collect(files, config.FileStore{Path: path}, concurrency)
		if err != nil {
			return err
		}
		return write(cmd.OutOrStdout(), perFile, flagJSON)
	},
}

// expandPatterns resolves glob arguments to sorted, de-duplicated paths.
// Arguments without glob metacharacters are kept as given.
func expandPatterns(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, a := range args {
		if !strings.ContainsAny(a, "*?[{") {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(a, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", a, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// collect parses every file concurrently; results keep the input order.
func collect(files []string, store config.Store, limit int) ([][]lens.Lens, error) {
	out := make([][]lens.Lens, len(files))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			ls, err := lens.Load(f, store)
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			logging.Debug().Str("file", f).Int("blocks", len(ls)).Msg("parsed document")
			out[i] = ls
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func write(w io.Writer, perFile [][]lens.Lens, asJSON bool) error {
	var enc *json.Encoder
	if asJSON {
		enc = json.NewEncoder(w)
	}
	for _, ls := range perFile {
		for _, l := range ls {
			if asJSON {
				if err := enc.Encode(l); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintln(w, Format(l)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Format renders a lens as `path:line identifier args`, line 1-based.
func Format(l lens.Lens) string {
	d := l.Block.Directive
	s := fmt.Sprintf("%s:%d %s", l.Path, l.Line+1, d.Identifier)
	if a := d.ArgString(); a != "" {
		s += " " + a
	}
	return s
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue, .yaml, .json, .jsonc)")
	Cmd.Flags().BoolVar(&flagJSON, "json", false, "Print one JSON object per block")
	Cmd.Flags().IntVar(&concurrency, "concurrency", 8, "Maximum documents parsed at once (0 = unlimited)")
}
