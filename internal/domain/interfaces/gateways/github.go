// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
)

// ReleaseLister lists release tags from the upstream release registry
type ReleaseLister interface {
	// ListTags returns release tags in registry order (newest first)
	ListTags(ctx context.Context) ([]string, error)
}

// BinaryFetcher retrieves one artifact to its local path and marks it executable
type BinaryFetcher interface {
	FetchArtifact(ctx context.Context, artifact *entities.Artifact) error
}

// CompatRunner runs the external compatibility test against one artifact
type CompatRunner interface {
	RunCompatTest(ctx context.Context, artifact *entities.Artifact) *RunResult
}
