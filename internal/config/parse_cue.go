package config

import (
	"fmt"

	"cuelang.org/go/cue"
)

// loadCUE reads a .cue config:
//
//	configVersion: "1"
//	interpreter:   "python3"
//	runners: mygm: {
//		scriptPath:      "tools/gm.py"
//		commandTemplate: "python {scriptPath} {args}"
//		timeout:         5000
//	}
func loadCUE(path string) (File, error) {
	v, err := compileCUE(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if cv := v.LookupPath(cue.ParsePath("configVersion")); cv.Exists() {
		if cv.Kind() != cue.StringKind {
			return File{}, fmt.Errorf("invalid type for field: configVersion (expected string)")
		}
		_ = cv.Decode(&f.ConfigVersion)
	}
	f.Interpreter, _ = optionalString(v, "interpreter")
	f.Fence, _ = optionalString(v, "fence")
	runners, err := parseRunnersSection(v)
	if err != nil {
		return File{}, err
	}
	f.Runners = runners
	return f, nil
}

// parseRunnersSection extracts runners.<id>.* entries.
func parseRunnersSection(v cue.Value) (map[string]Runner, error) {
	out := map[string]Runner{}
	rv := v.LookupPath(cue.ParsePath("runners"))
	if !rv.Exists() {
		return out, nil
	}
	if rv.Kind() != cue.StructKind {
		return nil, fmt.Errorf("invalid type for field: runners (expected struct)")
	}
	it, err := rv.Fields()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}
	for it.Next() {
		out[it.Selector().Unquoted()] = parseRunner(it.Value())
	}
	return out, nil
}

func parseRunner(v cue.Value) Runner {
	var r Runner
	r.ScriptPath, _ = optionalString(v, "scriptPath")
	r.CommandTemplate, r.HasCommandTemplate = optionalString(v, "commandTemplate")
	r.TimeoutMs, r.HasTimeout = optionalInt(v, "timeout")
	r.PassCodeAsStdin, r.HasPassCodeAsStdin = optionalBool(v, "passCodeAsStdin")
	r.PassCodeAsFile, r.HasPassCodeAsFile = optionalBool(v, "passCodeAsFile")
	return r
}
