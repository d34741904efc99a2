// Package repositories defines interfaces for configuration storage.
package repositories

import (
	"context"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
)

// ConfigRepository loads matrix configuration
type ConfigRepository interface {
	// LoadConfig returns the configuration merged over the defaults
	LoadConfig(ctx context.Context) (*entities.MatrixConfig, error)
}
