package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// vscodeRunnersKey lets a VS Code settings.json carry the runner table.
const vscodeRunnersKey = "fencerun.runners"

type rawRunner struct {
	ScriptPath      string  `yaml:"scriptPath" json:"scriptPath"`
	CommandTemplate *string `yaml:"commandTemplate" json:"commandTemplate"`
	Timeout         *int    `yaml:"timeout" json:"timeout"`
	PassCodeAsStdin *bool   `yaml:"passCodeAsStdin" json:"passCodeAsStdin"`
	PassCodeAsFile  *bool   `yaml:"passCodeAsFile" json:"passCodeAsFile"`
}

type rawFile struct {
	ConfigVersion string               `yaml:"configVersion" json:"configVersion"`
	Interpreter   string               `yaml:"interpreter" json:"interpreter"`
	Fence         string               `yaml:"fence" json:"fence"`
	Runners       map[string]rawRunner `yaml:"runners" json:"runners"`
}

func (r rawRunner) toRunner() Runner {
	out := Runner{ScriptPath: r.ScriptPath}
	if r.CommandTemplate != nil {
		out.CommandTemplate, out.HasCommandTemplate = *r.CommandTemplate, true
	}
	if r.Timeout != nil {
		out.TimeoutMs, out.HasTimeout = *r.Timeout, true
	}
	if r.PassCodeAsStdin != nil {
		out.PassCodeAsStdin, out.HasPassCodeAsStdin = *r.PassCodeAsStdin, true
	}
	if r.PassCodeAsFile != nil {
		out.PassCodeAsFile, out.HasPassCodeAsFile = *r.PassCodeAsFile, true
	}
	return out
}

func (rf rawFile) toFile() File {
	f := File{
		ConfigVersion: rf.ConfigVersion,
		Interpreter:   rf.Interpreter,
		Fence:         rf.Fence,
		Runners:       make(map[string]Runner, len(rf.Runners)),
	}
	for id, r := range rf.Runners {
		f.Runners[id] = r.toRunner()
	}
	return f
}

func loadYAML(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read config: %w", err)
	}
	var rf rawFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return File{}, fmt.Errorf("invalid config: %v", err)
	}
	return rf.toFile(), nil
}

// loadJSON accepts JSON with comments and trailing commas, including a VS
// Code settings.json where the table sits under "fencerun.runners".
func loadJSON(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read config: %w", err)
	}
	data = jsonc.ToJSON(data)
	var rf rawFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return File{}, fmt.Errorf("invalid config: %v", err)
	}
	if rf.Runners == nil {
		var settings map[string]json.RawMessage
		if err := json.Unmarshal(data, &settings); err == nil {
			if raw, ok := settings[vscodeRunnersKey]; ok {
				if err := json.Unmarshal(raw, &rf.Runners); err != nil {
					return File{}, fmt.Errorf("invalid config: %s: %v", vscodeRunnersKey, err)
				}
			}
		}
	}
	return rf.toFile(), nil
}
