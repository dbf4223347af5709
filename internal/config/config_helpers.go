package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func optionalString(v cue.Value, name string) (string, bool) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() || f.Kind() != cue.StringKind {
		return "", false
	}
	var s string
	if err := f.Decode(&s); err != nil {
		return "", false
	}
	return s, true
}

func optionalInt(v cue.Value, name string) (int, bool) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() || f.Kind() != cue.IntKind {
		return 0, false
	}
	var n int
	if err := f.Decode(&n); err != nil {
		return 0, false
	}
	return n, true
}

func optionalBool(v cue.Value, name string) (bool, bool) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() || f.Kind() != cue.BoolKind {
		return false, false
	}
	var b bool
	if err := f.Decode(&b); err != nil {
		return false, false
	}
	return b, true
}
