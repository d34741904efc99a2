// Package orchestrators coordinates the list, fetch and test phases of a compatibility run.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces/gateways"
	"github.com/ochairo/minikube-matrix/internal/domain/services"
)

// MatrixOrchestrator runs the minikube compatibility matrix
type MatrixOrchestrator struct {
	lister   gateways.ReleaseLister
	fetcher  gateways.BinaryFetcher
	runner   gateways.CompatRunner
	layout   *services.Layout
	config   *entities.MatrixConfig
	logger   interfaces.Logger
	newRunID func() string
}

// NewMatrixOrchestrator creates a new matrix orchestrator
func NewMatrixOrchestrator(
	lister gateways.ReleaseLister,
	fetcher gateways.BinaryFetcher,
	runner gateways.CompatRunner,
	layout *services.Layout,
	config *entities.MatrixConfig,
	logger interfaces.Logger,
) *MatrixOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &MatrixOrchestrator{
		lister:   lister,
		fetcher:  fetcher,
		runner:   runner,
		layout:   layout,
		config:   config,
		logger:   logger,
		newRunID: uuid.NewString,
	}
}

// RunResult summarizes a completed run
type RunResult struct {
	RunID         string
	Artifacts     []*entities.Artifact
	FetchDuration time.Duration
	TestDuration  time.Duration
	TotalDuration time.Duration
}

// Select lists release tags and returns the artifacts of the selected versions,
// in registry order. An empty result means no versions are available.
func (o *MatrixOrchestrator) Select(ctx context.Context) ([]*entities.Artifact, error) {
	return o.selectArtifacts(ctx, o.logger)
}

func (o *MatrixOrchestrator) selectArtifacts(ctx context.Context, logger interfaces.Logger) ([]*entities.Artifact, error) {
	tags, err := o.lister.ListTags(ctx)
	if err != nil {
		return nil, &entities.StepError{
			Phase:   entities.PhaseList,
			Command: "list releases of " + o.config.Repository,
			Err:     err,
		}
	}

	selected, err := services.SelectVersions(tags, o.config.Exclude, o.config.NumTests, true)
	if errors.Is(err, services.ErrFamilyOrder) && o.config.AllowUnordered {
		logger.Warn("release order check failed, keeping first tag per family", interfaces.F("error", err.Error()))
		selected, err = services.SelectVersions(tags, o.config.Exclude, o.config.NumTests, false)
	}
	if err != nil {
		return nil, &entities.StepError{Phase: entities.PhaseSelect, Err: err}
	}

	logger.Info("selected versions",
		interfaces.F("listed", len(tags)),
		interfaces.F("selected", len(selected)),
		interfaces.F("versions", selected))

	return o.layout.Artifacts(selected), nil
}

// Fetch downloads every artifact. With download_concurrency > 1 downloads overlap,
// but once one fails no further download is started.
func (o *MatrixOrchestrator) Fetch(ctx context.Context, artifacts []*entities.Artifact) error {
	return o.fetch(ctx, artifacts, o.logger)
}

func (o *MatrixOrchestrator) fetch(ctx context.Context, artifacts []*entities.Artifact, logger interfaces.Logger) error {
	limit := o.config.DownloadConcurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, artifact := range artifacts {
		artifact := artifact
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logger.Info(fmt.Sprintf("Downloading minikube %s to %s", artifact.Version, artifact.Path),
				interfaces.F("url", artifact.RemoteURL))
			if err := o.fetcher.FetchArtifact(gctx, artifact); err != nil {
				return asStepError(err, entities.PhaseDownload, artifact.Version, "fetch "+artifact.RemoteURL)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Test runs the compatibility test for each artifact in order, one at a time,
// stopping at the first failure.
func (o *MatrixOrchestrator) Test(ctx context.Context, artifacts []*entities.Artifact) error {
	return o.test(ctx, artifacts, o.logger)
}

func (o *MatrixOrchestrator) test(ctx context.Context, artifacts []*entities.Artifact, logger interfaces.Logger) error {
	total := len(artifacts)
	for i, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}

		logger.Info(fmt.Sprintf("Testing minikube %s (%d of %d), writing log to file %s",
			artifact.Version, i+1, total, artifact.LogPath))

		result := o.runner.RunCompatTest(ctx, artifact)
		if !result.Success {
			logger.Error("compatibility test failed",
				interfaces.F("version", artifact.Version),
				interfaces.F("exit_code", result.ExitCode),
				interfaces.F("log", result.LogPath))
			return &entities.StepError{
				Phase:    entities.PhaseTest,
				Version:  artifact.Version,
				Command:  result.Command,
				ExitCode: result.ExitCode,
				Err:      result.Error,
			}
		}

		logger.Info("compatibility test passed",
			interfaces.F("version", artifact.Version),
			interfaces.F("duration", result.Duration.String()))
	}
	return nil
}

// Run selects versions, downloads all of them and then tests each in turn.
// The first failure aborts the run.
func (o *MatrixOrchestrator) Run(ctx context.Context) (*RunResult, error) {
	startTime := time.Now()
	result := &RunResult{RunID: o.newRunID()}
	logger := interfaces.WithFields(o.logger, interfaces.F("run_id", result.RunID))
	logger.Info("starting compatibility run")

	artifacts, err := o.selectArtifacts(ctx, logger)
	if err != nil {
		return result, err
	}
	result.Artifacts = artifacts

	if len(artifacts) == 0 {
		logger.Info("no versions available")
		result.TotalDuration = time.Since(startTime)
		return result, nil
	}

	fetchStart := time.Now()
	if err := o.fetch(ctx, artifacts, logger); err != nil {
		return result, err
	}
	result.FetchDuration = time.Since(fetchStart)

	testStart := time.Now()
	if err := o.test(ctx, artifacts, logger); err != nil {
		return result, err
	}
	result.TestDuration = time.Since(testStart)

	result.TotalDuration = time.Since(startTime)
	logger.Info("compatibility run passed",
		interfaces.F("versions", len(artifacts)),
		interfaces.F("duration", result.TotalDuration.String()))
	return result, nil
}

// asStepError keeps a StepError from the gateway and wraps anything else
func asStepError(err error, phase, version, command string) error {
	var stepErr *entities.StepError
	if errors.As(err, &stepErr) {
		return err
	}
	return &entities.StepError{Phase: phase, Version: version, Command: command, Err: err}
}
