package gateways

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces/gateways"
)

var _ gateways.CompatRunner = (*ScriptExecutor)(nil)

// ScriptExecutor runs the compatibility test script against a minikube binary
type ScriptExecutor struct {
	script  string
	timeout time.Duration
	logger  interfaces.Logger
}

// NewScriptExecutor creates an executor for script. A zero timeout leaves the
// runtime bound to the script itself.
func NewScriptExecutor(script string, timeout time.Duration, logger interfaces.Logger) *ScriptExecutor {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ScriptExecutor{
		script:  script,
		timeout: timeout,
		logger:  logger,
	}
}

// RunCompatTest runs "<script> <binary>" with stdout and stderr written to the
// artifact's log file, truncating any log left by a previous run.
func (se *ScriptExecutor) RunCompatTest(ctx context.Context, artifact *entities.Artifact) *gateways.RunResult {
	startTime := time.Now()
	result := &gateways.RunResult{
		Command: se.script + " " + artifact.Path,
		LogPath: artifact.LogPath,
	}

	//nolint:gosec // G304: log path is derived from the configured artifact root
	logFile, err := os.Create(artifact.LogPath)
	if err != nil {
		result.Error = fmt.Errorf("failed to create log file: %w", err)
		result.ExitCode = -1
		return result
	}
	//nolint:errcheck // Defer close on log file
	defer logFile.Close()

	execCtx := ctx
	if se.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, se.timeout)
		defer cancel()
	}

	//nolint:gosec // G204: running the configured test script is the purpose of this executor
	cmd := exec.CommandContext(execCtx, se.script, artifact.Path)
	cmd.Env = append(os.Environ(),
		"MINIKUBE_VERSION="+artifact.Version,
		"MINIKUBE_BINARY="+artifact.Path,
	)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	se.logger.Debug("executing compatibility test", interfaces.F("command", result.Command))

	err = cmd.Run()
	result.Duration = time.Since(startTime)

	if err != nil {
		result.Error = err
		var exitErr *exec.ExitError
		//nolint:gocritic // ifElseChain: checking different error types, not suitable for switch
		if execCtx.Err() == context.DeadlineExceeded {
			result.Error = fmt.Errorf("test script timeout after %v", se.timeout)
			result.ExitCode = -1
		} else if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		return result
	}

	result.Success = true
	result.ExitCode = 0
	return result
}
