package run

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flarebyte/fencerun/internal/config"
	"github.com/flarebyte/fencerun/internal/lens"
	"github.com/flarebyte/fencerun/internal/logging"
	"github.com/flarebyte/fencerun/internal/runner"
	"github.com/flarebyte/fencerun/internal/sink"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	docPath string
	line    int
	workDir string
	tempDir string
)

// Cmd represents the `fencerun run` command.
var Cmd = &cobra.Command{
	Use:           "run",
	Short:         "Run one annotated block of a Markdown document",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if docPath == "" {
			return fmt.Errorf("missing required flag: --file")
		}
		path := config.PathOrEnv(cfgPath)
		if path == "" {
			return fmt.Errorf("missing required flag: --config (or %s)", config.EnvConfigPath)
		}
		store := config.FileStore{Path: path}

		lenses, err := lens.Load(docPath, store)
		if err != nil {
			return err
		}
		target, err := selectLens(lenses, line)
		if err != nil {
			return err
		}
		logging.Debug().Str("file", docPath).Int("line", target.Line+1).Str("id", target.Block.Directive.Identifier).Msg("activating block")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := runner.Runner{
			Store:   store,
			Sink:    sink.NewWriter(cmd.OutOrStdout()),
			WorkDir: workDir,
			TempDir: tempDir,
		}
		return evaluateRunExit(r.Activate(ctx, docPath, target.Block))
	},
}

// selectLens picks the block whose directive sits on the 1-based line, or
// the first block when line is 0.
func selectLens(lenses []lens.Lens, line int) (lens.Lens, error) {
	if len(lenses) == 0 {
		return lens.Lens{}, fmt.Errorf("no runnable block in %s", docPath)
	}
	if line <= 0 {
		return lenses[0], nil
	}
	l, ok := lens.At(lenses, line-1)
	if !ok {
		return lens.Lens{}, fmt.Errorf("no runnable block on line %d", line)
	}
	return l, nil
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue, .yaml, .json, .jsonc)")
	Cmd.Flags().StringVarP(&docPath, "file", "f", "", "Markdown document to read")
	Cmd.Flags().IntVarP(&line, "line", "l", 0, "1-based line of the directive to run (default: first block)")
	Cmd.Flags().StringVar(&workDir, "workdir", "", "Working directory for the child process (default: project root)")
	Cmd.Flags().StringVar(&tempDir, "temp-dir", "", "Directory for temporary code files (default: system temp)")
}
