package watch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/flarebyte/fencerun/internal/config"
	"github.com/flarebyte/fencerun/internal/lens"
	"github.com/flarebyte/fencerun/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	docPath  string
	flagJSON bool
)

// Cmd implements `fencerun watch`.
var Cmd = &cobra.Command{
	Use:           "watch",
	Short:         "Print the runnable blocks of a document each time it or the config changes",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.PathOrEnv(cfgPath)
		if path == "" {
			return fmt.Errorf("missing required flag: --config (or %s)", config.EnvConfigPath)
		}
		if docPath == "" {
			return fmt.Errorf("missing required flag: --file")
		}
		store := config.FileStore{Path: path}
		w, err := lens.NewWatcher(func() ([]lens.Lens, error) {
			return lens.Load(docPath, store)
		}, docPath, path)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w.Start()
		defer w.Stop()
		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				return nil
			case u, ok := <-w.Updates():
				if !ok {
					return nil
				}
				if err := writeUpdate(out, u, flagJSON); err != nil {
					return err
				}
			}
		}
	},
}

type jsonUpdate struct {
	Lenses []lens.Lens `json:"lenses"`
	Error  string      `json:"error,omitempty"`
}

func writeUpdate(w io.Writer, u lens.Update, asJSON bool) error {
	if asJSON {
		ju := jsonUpdate{Lenses: u.Lenses}
		if ju.Lenses == nil {
			ju.Lenses = []lens.Lens{}
		}
		if u.Err != nil {
			ju.Error = u.Err.Error()
		}
		return json.NewEncoder(w).Encode(ju)
	}
	if u.Err != nil {
		logging.Warn().Err(u.Err).Msg("lens refresh failed")
		_, err := fmt.Fprintf(w, "error: %v\n", u.Err)
		return err
	}
	if _, err := fmt.Fprintf(w, "%d runnable block(s)\n", len(u.Lenses)); err != nil {
		return err
	}
	for _, l := range u.Lenses {
		d := l.Block.Directive
		if _, err := fmt.Fprintf(w, "  %s line %d: %s %s\n", l.Title, l.Line+1, d.Identifier, d.ArgString()); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	Cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue, .yaml, .json, .jsonc)")
	Cmd.Flags().StringVarP(&docPath, "file", "f", "", "Markdown document to watch")
	Cmd.Flags().BoolVar(&flagJSON, "json", false, "Print one JSON object per refresh")
}
