package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/ochairo/minikube-matrix/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/minikube-matrix/internal/domain-orchestrators"
	"github.com/ochairo/minikube-matrix/internal/domain/entities"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces"
	"github.com/ochairo/minikube-matrix/internal/domain/services"
)

// runMatrix runs the full pipeline: select, download everything, test each version
func runMatrix(ctx context.Context, flags *pflag.FlagSet, opts *rootOptions) error {
	cfg, logger, err := loadConfig(ctx, flags, opts)
	if err != nil {
		return err
	}

	orch, err := newOrchestrator(cfg, logger)
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	if len(result.Artifacts) == 0 {
		fmt.Fprintln(opts.stdout, "No versions available")
		return nil
	}
	fmt.Fprintf(opts.stdout, "All %d minikube versions passed (download %v, tests %v)\n",
		len(result.Artifacts), result.FetchDuration, result.TestDuration)
	return nil
}

// newOrchestrator wires the GitHub lister, the release store downloader and the
// script executor for cfg
func newOrchestrator(cfg *entities.MatrixConfig, logger *interfaces.SlogLogger) (*orchestrators.MatrixOrchestrator, error) {
	var downloaderOpts []gateways.DownloaderOption
	if cfg.Verify.Checksum {
		downloaderOpts = append(downloaderOpts, gateways.WithChecksumVerification(gateways.NewChecksumVerifier()))
	}
	if cfg.Verify.SignatureSuffix != "" {
		verifier := gateways.NewGPGVerifier()
		if err := verifier.ImportKeyFromFile(cfg.Verify.Keyring); err != nil {
			return nil, err
		}
		downloaderOpts = append(downloaderOpts, gateways.WithSignatureVerification(verifier, cfg.Verify.SignatureSuffix))
	}

	lister := gateways.NewGitHubReleaseLister(cfg.APIBaseURL, cfg.Repository, cfg.PerPage, logger.With(interfaces.F("component", "lister")))
	downloader := gateways.NewDownloader(logger.With(interfaces.F("component", "downloader")), downloaderOpts...)
	executor := gateways.NewScriptExecutor(cfg.TestScript, cfg.TestTimeout, logger.With(interfaces.F("component", "runner")))

	return orchestrators.NewMatrixOrchestrator(
		lister,
		downloader,
		executor,
		services.NewLayout(cfg),
		cfg,
		logger,
	), nil
}
