// Package runner is the activation boundary: it resolves, plans and runs one
// block and turns every failure into lines on the sink.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/flarebyte/fencerun/internal/config"
	"github.com/flarebyte/fencerun/internal/directive"
	"github.com/flarebyte/fencerun/internal/logging"
	"github.com/flarebyte/fencerun/internal/plan"
	"github.com/flarebyte/fencerun/internal/project"
	"github.com/flarebyte/fencerun/internal/sink"
	"github.com/flarebyte/fencerun/internal/supervisor"
)

var (
	banner = strings.Repeat("=", 50)
	rule   = strings.Repeat("─", 30)
	footer = strings.Repeat("─", 50)
)

// Runner activates blocks. The zero value is not usable; Store is required.
type Runner struct {
	Store config.Store
	Sink  sink.Sink
	// WorkDir overrides the project root lookup.
	WorkDir string
	// TempDir holds temp files; empty means os.TempDir().
	TempDir string
	// Env is added to the child environment.
	Env map[string]string
}

// Report describes what happened. Err is set when nothing was spawned
// (missing config, empty code, temp file failure) or on an internal fault.
type Report struct {
	Ran     bool
	Plan    plan.Plan
	Outcome supervisor.Outcome
	Err     error
}

// Activate runs block from the document at docPath. Configuration is read
// fresh from the store on every call. It never panics past this boundary
// and never retries.
func (r Runner) Activate(ctx context.Context, docPath string, b directive.Block) (rep Report) {
	out := r.Sink
	if out == nil {
		out = sink.Discard
	}
	defer func() {
		if v := recover(); v != nil {
			rep = Report{Err: fmt.Errorf("internal error: %v", v)}
			out.AppendLine(fmt.Sprintf("Error: %v", v))
			logging.Error().Interface("panic", v).Msg("activation aborted")
		}
	}()

	out.Clear()
	out.Show()
	out.AppendLine(banner)
	out.AppendLine("Running Python code from " + docPath)

	d := b.Directive
	cfg, err := config.Resolve(d.Identifier, r.Store)
	if err != nil {
		var nf *config.NotFoundError
		if errors.As(err, &nf) {
			out.AppendLine(fmt.Sprintf("❌ No configuration found for %s", d.Identifier))
			out.AppendLine("Available GM identifiers: " + strings.Join(nf.Available, ", "))
		} else {
			out.AppendLine("Error: " + err.Error())
		}
		return Report{Err: err}
	}
	settings, err := r.Store.Settings()
	if err != nil {
		out.AppendLine("Error: " + err.Error())
		return Report{Err: err}
	}
	writeConfig(out, d, cfg)

	p, err := plan.Build(d, cfg, b.Region.Content, plan.Options{Interpreter: settings.Interpreter, TempDir: r.TempDir})
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrEmptyCode):
			out.AppendLine("No code to execute after removing GM directive.")
		default:
			var tfe *plan.TempFileError
			if errors.As(err, &tfe) {
				out.AppendLine("[FILE ERROR] " + err.Error())
			} else {
				out.AppendLine("Error: " + err.Error())
			}
		}
		return Report{Err: err}
	}

	out.AppendLine("Code to execute:")
	out.AppendLine(rule)
	out.AppendLine(p.Code)
	out.AppendLine(rule)
	switch p.Mode {
	case plan.ModeDirect:
		out.AppendLine("Created temporary file: " + p.TempFile)
	case plan.ModeArgumentFile, plan.ModeStdin:
		if p.TempFile != "" {
			out.AppendLine("Code saved to temporary file: " + p.TempFile)
		}
	}
	out.AppendLine("Executing: " + p.CommandLine)

	res := supervisor.Run(ctx, p, out, supervisor.Options{
		WorkDir: project.WorkDir(r.WorkDir, docPath),
		Env:     r.Env,
	})
	writeOutcome(out, p, res)
	return Report{Ran: true, Plan: p, Outcome: res}
}

func writeConfig(out sink.Sink, d directive.Directive, cfg config.ExecutionConfig) {
	if b, err := json.MarshalIndent(cfg, "", "  "); err == nil {
		out.AppendLine(string(b))
	}
	args, _ := json.Marshal(d.Args)
	params, _ := json.Marshal(d.Params)
	out.AppendLine("GM Identifier: " + d.Identifier)
	out.AppendLine("Script Path: " + cfg.ScriptPath)
	out.AppendLine("Command Template: " + cfg.CommandTemplate)
	out.AppendLine(fmt.Sprintf("Pass Code As Stdin: %t", cfg.PassCodeAsStdin))
	out.AppendLine(fmt.Sprintf("Pass Code As File: %t", cfg.PassCodeAsFile))
	out.AppendLine(fmt.Sprintf("Timeout: %d", cfg.TimeoutMs))
	out.AppendLine("GM Directive args: " + string(args))
	out.AppendLine("GM Directive params: " + string(params))
	out.AppendLine(banner)
}

func writeOutcome(out sink.Sink, p plan.Plan, res supervisor.Outcome) {
	switch res.Class {
	case supervisor.ClassSpawnError:
		out.AppendLine(fmt.Sprintf("[SPAWN ERROR] %v", res.Err))
	case supervisor.ClassTimedOut:
		out.AppendLine(footer)
		out.AppendLine(fmt.Sprintf("⏰ Execution timed out after %s", p.Timeout))
	default:
		out.AppendLine("")
		out.AppendLine(footer)
		code := "null"
		if res.ExitCode != nil {
			code = fmt.Sprintf("%d", *res.ExitCode)
		}
		out.AppendLine("Process exited with code: " + code)
		if res.Class == supervisor.ClassSucceeded {
			out.AppendLine("✅ Execution completed successfully")
		} else {
			out.AppendLine("❌ Execution failed")
		}
	}
	switch {
	case res.TempFileRemoved:
		out.AppendLine("Temporary file cleaned up: " + p.TempFile)
	case p.TempFile != "":
		out.AppendLine("Failed to clean up temporary file: " + p.TempFile)
	}
}
