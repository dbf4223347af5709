package run

import (
	"github.com/flarebyte/fencerun/internal/runner"
	"github.com/flarebyte/fencerun/internal/supervisor"
)

const (
	exitCodeSuccess = 0
	exitCodeExecErr = 1
	exitCodeTimeout = 124
)

type runExitError struct {
	code int
	msg  string
}

func (e runExitError) Error() string { return e.msg }
func (e runExitError) ExitCode() int { return e.code }

func evaluateRunExit(rep runner.Report) error {
	if rep.Err != nil {
		return runExitError{code: exitCodeExecErr, msg: rep.Err.Error()}
	}
	if !rep.Ran {
		return runExitError{code: exitCodeExecErr, msg: "nothing was executed"}
	}
	switch rep.Outcome.Class {
	case supervisor.ClassSucceeded:
		return nil
	case supervisor.ClassTimedOut:
		return runExitError{code: exitCodeTimeout, msg: "execution timed out"}
	case supervisor.ClassSpawnError:
		return runExitError{code: exitCodeExecErr, msg: "failed to start process"}
	default:
		return runExitError{code: exitCodeExecErr, msg: "execution failed"}
	}
}
