// Package supervisor spawns a planned process, streams its output to a sink,
// enforces the plan's timeout and removes the plan's temp file afterwards.
package supervisor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/flarebyte/fencerun/internal/config"
	"github.com/flarebyte/fencerun/internal/logging"
	"github.com/flarebyte/fencerun/internal/plan"
	"github.com/flarebyte/fencerun/internal/sink"
)

// Class is the terminal classification of a run.
type Class string

const (
	ClassSucceeded  Class = "succeeded"
	ClassFailed     Class = "failed"
	ClassTimedOut   Class = "timedOut"
	ClassSpawnError Class = "spawnError"
)

const (
	// ErrorPrefix marks stderr chunks in the sink.
	ErrorPrefix = "[ERROR] "
	// TimeoutNotice is written to the sink when the timer fires.
	TimeoutNotice = "⏰ Execution timed out, killing process..."

	defaultWaitDelay = 2 * time.Second
)

// Outcome is the terminal result of one run. ExitCode is nil when the
// process was killed or never started.
type Outcome struct {
	Class           Class         `json:"class"`
	ExitCode        *int          `json:"exitCode"`
	Stdout          string        `json:"stdout"`
	Stderr          string        `json:"stderr"`
	Err             error         `json:"-"`
	Duration        time.Duration `json:"duration"`
	TempFileRemoved bool          `json:"tempFileRemoved,omitempty"`
}

// Options configure the child process.
type Options struct {
	// WorkDir is the child's working directory; empty inherits ours.
	WorkDir string
	// Env is overlaid on the parent environment after the UTF-8 override.
	Env map[string]string
	// WaitDelay bounds how long output copying may outlive the process.
	WaitDelay time.Duration
}

// Run executes p and blocks until a terminal outcome. It never returns an
// error: start failures are reported as ClassSpawnError. Cancelling ctx
// kills the process like a timeout does.
func Run(ctx context.Context, p plan.Plan, out sink.Sink, opts Options) (res Outcome) {
	if out == nil {
		out = sink.Discard
	}
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		res.TempFileRemoved = cleanup(p)
	}()

	if len(p.Argv) == 0 {
		return Outcome{Class: ClassSpawnError, Err: errors.New("empty command")}
	}
	cmd := exec.Command(p.Argv[0], p.Argv[1:]...)
	cmd.Dir = opts.WorkDir
	cmd.Env = applyEnvOverlay(os.Environ(), childEnv(opts.Env))
	setProcessGroup(cmd)
	cmd.WaitDelay = opts.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = defaultWaitDelay
	}
	stdout := &streamWriter{sink: out}
	stderr := &streamWriter{sink: out, prefix: ErrorPrefix}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if p.HasStdin {
		// os/exec copies the payload and closes the pipe once written.
		cmd.Stdin = strings.NewReader(p.Stdin)
	}

	logging.Debug().Strs("argv", p.Argv).Str("dir", cmd.Dir).Str("mode", string(p.Mode)).Msg("spawn")
	if err := cmd.Start(); err != nil {
		return Outcome{Class: ClassSpawnError, Err: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultTimeoutMs) * time.Millisecond
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var (
		waitErr  error
		class    Class
		causeErr error
	)
	select {
	case waitErr = <-done:
		timer.Stop()
	case <-timer.C:
		out.AppendLine("")
		out.AppendLine(TimeoutNotice)
		killProcess(cmd)
		waitErr = <-done
		class = ClassTimedOut
	case <-ctx.Done():
		timer.Stop()
		killProcess(cmd)
		waitErr = <-done
		causeErr = ctx.Err()
		class = ClassFailed
		if errors.Is(causeErr, context.DeadlineExceeded) {
			class = ClassTimedOut
		}
	}

	res = Outcome{Stdout: stdout.String(), Stderr: stderr.String(), Err: causeErr}
	if class != "" {
		res.Class = class
		return res
	}
	return classifyExit(res, cmd, waitErr)
}

// classifyExit maps a normal termination to succeeded or failed.
func classifyExit(res Outcome, cmd *exec.Cmd, waitErr error) Outcome {
	code := -1
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}
	if code >= 0 {
		res.ExitCode = &code
	}
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil, errors.Is(waitErr, exec.ErrWaitDelay):
	case errors.As(waitErr, &exitErr):
	default:
		res.Err = waitErr
	}
	if code == 0 && res.Err == nil {
		res.Class = ClassSucceeded
	} else {
		res.Class = ClassFailed
	}
	return res
}

// childEnv forces UTF-8 stdio for Python children, then applies extra.
func childEnv(extra map[string]string) map[string]string {
	env := map[string]string{"PYTHONIOENCODING": "utf-8"}
	for k, v := range extra {
		env[k] = v
	}
	return env
}

// cleanup removes the plan's temp file. Failures are logged; they do
// not change the outcome.
func cleanup(p plan.Plan) bool {
	if p.TempFile == "" {
		return false
	}
	if err := p.Cleanup(); err != nil {
		logging.Warn().Err(err).Str("path", p.TempFile).Msg("temp file cleanup failed")
		return false
	}
	logging.Debug().Str("path", p.TempFile).Msg("temp file removed")
	return true
}
