// Package plan turns a directive and its runner configuration into a
// concrete process invocation.
package plan

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/flarebyte/fencerun/internal/config"
	"github.com/flarebyte/fencerun/internal/directive"
)

// Mode says how code reaches the child process.
type Mode string

const (
	ModeDirect       Mode = "direct"
	ModeStdin        Mode = "stdin"
	ModeArgumentFile Mode = "argument-file"
	ModeNone         Mode = "none"
)

// ErrEmptyCode is returned when nothing is left after stripping directive
// lines. No process must be spawned.
var ErrEmptyCode = errors.New("no code to execute after removing directive")

// ErrEmptyCommand is returned when the command template expands to nothing.
var ErrEmptyCommand = errors.New("command template expands to an empty command")

// TempFileError wraps a failure to write a temp file before spawn.
type TempFileError struct {
	Path string
	Err  error
}

func (e *TempFileError) Error() string {
	return fmt.Sprintf("failed to create temporary file %s: %v", e.Path, e.Err)
}

func (e *TempFileError) Unwrap() error { return e.Err }

// Plan is one ready-to-spawn invocation.
type Plan struct {
	Mode        Mode          `json:"mode"`
	Argv        []string      `json:"argv"`
	CommandLine string        `json:"commandLine"`
	Code        string        `json:"code"`
	Stdin       string        `json:"-"`
	HasStdin    bool          `json:"hasStdin"`
	TempFile    string        `json:"tempFile,omitempty"`
	Timeout     time.Duration `json:"timeout"`
}

// Options tune Build.
type Options struct {
	// Interpreter runs direct mode; defaults to config.DefaultInterpreter.
	Interpreter string
	// TempDir holds temp files; defaults to os.TempDir().
	TempDir string
}

// Build strips the directive from content and selects an execution mode.
// Direct mode wins over the command template. Temp files created here are
// owned by the returned plan; call Cleanup once the process is done.
func Build(d directive.Directive, cfg config.ExecutionConfig, content string, opts Options) (Plan, error) {
	code := StripDirective(content, d.Identifier)
	if code == "" {
		return Plan{Mode: ModeNone}, ErrEmptyCode
	}
	p := Plan{
		Code:    code,
		Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}
	if d.Direct() {
		return buildDirect(p, opts)
	}
	return buildTemplated(p, d, cfg, opts)
}

func buildDirect(p Plan, opts Options) (Plan, error) {
	path, err := writeTempFile(opts.TempDir, directPrefix, p.Code)
	if err != nil {
		return Plan{Mode: ModeNone}, err
	}
	interp := opts.Interpreter
	if interp == "" {
		interp = config.DefaultInterpreter
	}
	p.Mode = ModeDirect
	p.TempFile = path
	p.Argv = []string{interp, path}
	p.CommandLine = commandLine(p.Argv)
	return p, nil
}

func buildTemplated(p Plan, d directive.Directive, cfg config.ExecutionConfig, opts Options) (Plan, error) {
	args := d.ArgList()
	codeRef := ""
	if cfg.PassCodeAsFile {
		path, err := writeTempFile(opts.TempDir, codeFilePrefix, p.Code)
		if err != nil {
			return Plan{Mode: ModeNone}, err
		}
		p.TempFile = path
		codeRef = path
		args = append(args, "--code-file="+path)
	}
	argv, err := expandTemplate(cfg.CommandTemplate, templateValues{
		scriptPath: cfg.ScriptPath,
		code:       codeRef,
		args:       args,
	})
	if err != nil {
		_ = p.Cleanup()
		return Plan{Mode: ModeNone}, err
	}
	p.Argv = argv
	p.CommandLine = commandLine(argv)
	switch {
	case cfg.PassCodeAsStdin:
		p.Mode = ModeStdin
		p.Stdin = p.Code
		p.HasStdin = true
	case p.TempFile != "":
		p.Mode = ModeArgumentFile
	default:
		p.Mode = ModeNone
	}
	return p, nil
}

// Cleanup removes the plan's temp file, if any. A file that is already gone
// is not an error.
func (p Plan) Cleanup() error {
	if p.TempFile == "" {
		return nil
	}
	if err := os.Remove(p.TempFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
