package entities

import "fmt"

// Pipeline phases reported in StepError
const (
	PhaseList     = "list"
	PhaseSelect   = "select"
	PhaseMkdir    = "mkdir"
	PhaseDownload = "download"
	PhaseVerify   = "verify"
	PhaseChmod    = "chmod"
	PhaseTest     = "test"
)

// StepError is a fatal failure of one pipeline step. It names the failing
// operation so the operator can rerun it by hand.
type StepError struct {
	Phase    string
	Version  string
	Command  string
	ExitCode int // exit status of a child process, 0 when not applicable
	Err      error
}

func (e *StepError) Error() string {
	msg := e.Phase + " failed"
	if e.Version != "" {
		msg += " for " + e.Version
	}
	if e.Command != "" {
		msg += fmt.Sprintf(" (%s)", e.Command)
	}
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(": exit status %d", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StepError) Unwrap() error {
	return e.Err
}
