package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

const (
	DefaultCommandTemplate = "python {scriptPath} {args}"
	DefaultTimeoutMs       = 30000
	DefaultInterpreter     = "python"
	DefaultFence           = "```python"
)

// ExecutionConfig is the resolved setting set for one runner identifier.
type ExecutionConfig struct {
	ScriptPath      string `json:"scriptPath"`
	CommandTemplate string `json:"commandTemplate"`
	TimeoutMs       int    `json:"timeout"`
	PassCodeAsStdin bool   `json:"passCodeAsStdin"`
	PassCodeAsFile  bool   `json:"passCodeAsFile"`
}

// Runner holds one runner entry as written in the config file, with
// presence flags for optional fields.
type Runner struct {
	ScriptPath         string
	CommandTemplate    string
	TimeoutMs          int
	PassCodeAsStdin    bool
	PassCodeAsFile     bool
	HasCommandTemplate bool
	HasTimeout         bool
	HasPassCodeAsStdin bool
	HasPassCodeAsFile  bool
}

// Resolve fills defaults for every optional field. ScriptPath has no
// default and is passed through as-is.
func (r Runner) Resolve() ExecutionConfig {
	c := ExecutionConfig{
		ScriptPath:      r.ScriptPath,
		CommandTemplate: DefaultCommandTemplate,
		TimeoutMs:       DefaultTimeoutMs,
		PassCodeAsStdin: true,
		PassCodeAsFile:  false,
	}
	if r.HasCommandTemplate && r.CommandTemplate != "" {
		c.CommandTemplate = r.CommandTemplate
	}
	if r.HasTimeout && r.TimeoutMs > 0 {
		c.TimeoutMs = r.TimeoutMs
	}
	if r.HasPassCodeAsStdin {
		c.PassCodeAsStdin = r.PassCodeAsStdin
	}
	if r.HasPassCodeAsFile {
		c.PassCodeAsFile = r.PassCodeAsFile
	}
	return c
}

// Settings are file-wide options outside of the runner table.
type Settings struct {
	// Interpreter is the binary used by direct mode.
	Interpreter string
	// Fence is the token opening a runnable region.
	Fence string
}

// File is a parsed config file.
type File struct {
	ConfigVersion string
	Interpreter   string
	Fence         string
	Runners       map[string]Runner
}

// Settings returns file-wide options with defaults applied.
func (f File) Settings() Settings {
	s := Settings{Interpreter: DefaultInterpreter, Fence: DefaultFence}
	if f.Interpreter != "" {
		s.Interpreter = f.Interpreter
	}
	if f.Fence != "" {
		s.Fence = f.Fence
	}
	return s
}

// Identifiers returns the configured runner keys, sorted.
func (f File) Identifiers() []string {
	ids := make([]string, 0, len(f.Runners))
	for k := range f.Runners {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

// Load parses a config file, choosing the format from its extension.
func Load(path string) (File, error) {
	var (
		f   File
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		f, err = loadCUE(path)
	case ".yaml", ".yml":
		f, err = loadYAML(path)
	case ".json", ".jsonc":
		f, err = loadJSON(path)
	default:
		return File{}, errors.New("unsupported config format: expected .cue, .yaml, .yml, .json or .jsonc")
	}
	if err != nil {
		return File{}, err
	}
	if f.ConfigVersion != "" && !IsSupportedConfigVersion(f.ConfigVersion) {
		return File{}, fmt.Errorf("unsupported configVersion: %q (supported: %s)", f.ConfigVersion, SupportedConfigVersionsCSV())
	}
	if f.Runners == nil {
		f.Runners = map[string]Runner{}
	}
	return f, nil
}
