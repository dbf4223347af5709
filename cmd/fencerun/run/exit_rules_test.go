package run

import (
	"errors"
	"testing"

	"github.com/flarebyte/fencerun/internal/lens"
	"github.com/flarebyte/fencerun/internal/runner"
	"github.com/flarebyte/fencerun/internal/supervisor"
)

func assertExitError(t *testing.T, err error, wantMsg string, wantCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != wantMsg {
		t.Fatalf("unexpected error: %v", err)
	}
	ec, ok := err.(interface{ ExitCode() int })
	if !ok || ec.ExitCode() != wantCode {
		t.Fatalf("unexpected exit code")
	}
}

func TestEvaluateRunExit_Succeeded(t *testing.T) {
	rep := runner.Report{Ran: true, Outcome: supervisor.Outcome{Class: supervisor.ClassSucceeded}}
	if err := evaluateRunExit(rep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvaluateRunExit_Failed(t *testing.T) {
	code := 3
	rep := runner.Report{Ran: true, Outcome: supervisor.Outcome{Class: supervisor.ClassFailed, ExitCode: &code}}
	assertExitError(t, evaluateRunExit(rep), "execution failed", exitCodeExecErr)
}

func TestEvaluateRunExit_TimedOut(t *testing.T) {
	rep := runner.Report{Ran: true, Outcome: supervisor.Outcome{Class: supervisor.ClassTimedOut}}
	assertExitError(t, evaluateRunExit(rep), "execution timed out", exitCodeTimeout)
}

func TestEvaluateRunExit_SpawnError(t *testing.T) {
	rep := runner.Report{Ran: true, Outcome: supervisor.Outcome{Class: supervisor.ClassSpawnError}}
	assertExitError(t, evaluateRunExit(rep), "failed to start process", exitCodeExecErr)
}

func TestEvaluateRunExit_ReportErrorWins(t *testing.T) {
	rep := runner.Report{Err: errors.New("configuration not found for GM identifier: gm")}
	assertExitError(t, evaluateRunExit(rep), "configuration not found for GM identifier: gm", exitCodeExecErr)
}

func TestSelectLens(t *testing.T) {
	lenses := []lens.Lens{{Line: 1}, {Line: 7}}
	l, err := selectLens(lenses, 0)
	if err != nil || l.Line != 1 {
		t.Fatalf("default selection: %+v %v", l, err)
	}
	l, err = selectLens(lenses, 8)
	if err != nil || l.Line != 7 {
		t.Fatalf("line selection: %+v %v", l, err)
	}
	if _, err := selectLens(lenses, 3); err == nil {
		t.Fatalf("expected error for line without directive")
	}
	if _, err := selectLens(nil, 0); err == nil {
		t.Fatalf("expected error for empty document")
	}
}
