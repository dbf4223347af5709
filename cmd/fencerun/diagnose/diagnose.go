package diagnose

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flarebyte/fencerun/internal/config"
	"github.com/flarebyte/fencerun/internal/directive"
	"github.com/flarebyte/fencerun/internal/lens"
	"github.com/flarebyte/fencerun/internal/plan"
	"github.com/spf13/cobra"
)

const (
	stageParse   = "parse"
	stageResolve = "resolve"
	stagePlan    = "plan"
)

var stages = []string{stageParse, stageResolve, stagePlan}

var (
	flagStage   string
	flagConfig  string
	flagFile    string
	flagLine    int
	flagDumpDir string
	flagOut     string
	flagPretty  bool
	flagTempDir string
)

// Cmd implements `fencerun diagnose`. It runs the pipeline up to a stage
// and prints that stage's result as JSON without spawning anything.
var Cmd = &cobra.Command{
	Use:           "diagnose",
	Short:         "Print the parse, resolve or plan result for a document without executing it",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagStage == "" {
			return errors.New("missing required flag: --stage")
		}
		until, err := stageIndex(flagStage)
		if err != nil {
			return err
		}
		if flagFile == "" {
			return errors.New("missing required flag: --file")
		}
		path := config.PathOrEnv(flagConfig)
		if path == "" {
			return fmt.Errorf("missing required flag: --config (or %s)", config.EnvConfigPath)
		}
		res, err := runStages(config.FileStore{Path: path}, flagFile, flagLine, until)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), res)
	},
}

func stageIndex(name string) (int, error) {
	for i, s := range stages {
		if s == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("invalid --stage: %s (expected parse|resolve|plan)", name)
}

// runStages executes stages[0..until] and returns the output of the last
// one. Each intermediate output is dumped when --dump-dir is set.
func runStages(store config.Store, doc string, line, until int) (any, error) {
	lenses, err := lens.Load(doc, store)
	if err != nil {
		return nil, err
	}
	if err := dumpStage(0, stageParse, lenses); err != nil {
		return nil, err
	}
	if until == 0 {
		return lenses, nil
	}

	target, err := pick(lenses, line)
	if err != nil {
		return nil, err
	}
	d := target.Block.Directive
	cfg, err := config.Resolve(d.Identifier, store)
	if err != nil {
		return nil, err
	}
	resolved := resolveResult{Directive: d, Config: cfg}
	if err := dumpStage(1, stageResolve, resolved); err != nil {
		return nil, err
	}
	if until == 1 {
		return resolved, nil
	}

	settings, err := store.Settings()
	if err != nil {
		return nil, err
	}
	p, err := plan.Build(d, cfg, target.Block.Region.Content, plan.Options{
		Interpreter: settings.Interpreter,
		TempDir:     flagTempDir,
	})
	if err != nil {
		return nil, err
	}
	// Nothing will run the plan, so its temp file goes right away.
	if err := p.Cleanup(); err != nil {
		return nil, err
	}
	if err := dumpStage(2, stagePlan, p); err != nil {
		return nil, err
	}
	return p, nil
}

type resolveResult struct {
	Directive directive.Directive    `json:"directive"`
	Config    config.ExecutionConfig `json:"config"`
}

func pick(lenses []lens.Lens, line int) (lens.Lens, error) {
	if len(lenses) == 0 {
		return lens.Lens{}, errors.New("no runnable block found")
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

func dumpStage(seq int, name string, v any) error {
	if flagDumpDir == "" {
		return nil
	}
	return writeJSONFile(filepath.Join(flagDumpDir, fmt.Sprintf("%02d_%s.json", seq, name)), v)
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dump dir: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func render(stdout io.Writer, v any) error {
	var (
		b   []byte
		err error
	)
	if flagPretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if flagOut == "" || flagOut == "-" {
		_, err = stdout.Write(b)
		return err
	}
	return os.WriteFile(flagOut, b, 0o644)
}

func init() {
	Cmd.Flags().StringVar(&flagStage, "stage", "", "Stage to stop at: parse|resolve|plan (required)")
	Cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to config file (.cue, .yaml, .json, .jsonc)")
	Cmd.Flags().StringVarP(&flagFile, "file", "f", "", "Markdown document to read")
	Cmd.Flags().IntVarP(&flagLine, "line", "l", 0, "1-based line of the directive (default: first block)")
	Cmd.Flags().StringVar(&flagDumpDir, "dump-dir", "", "Directory to write per-stage dumps (<seq>_<stage>.json)")
	Cmd.Flags().StringVar(&flagOut, "out", "-", "Output path")
	Cmd.Flags().BoolVar(&flagPretty, "pretty", false, "Pretty JSON")
	Cmd.Flags().StringVar(&flagTempDir, "temp-dir", "", "Directory for temporary code files (default: system temp)")
}
