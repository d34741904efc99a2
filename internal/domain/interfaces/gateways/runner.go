package gateways

import "time"

// RunResult contains the outcome of a single compatibility test invocation
type RunResult struct {
	Success  bool
	ExitCode int
	Command  string
	LogPath  string
	Duration time.Duration
	Error    error
}
