package yaml

import (
	"context"
	"fmt"
	"os"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces/repositories"
)

var _ repositories.ConfigRepository = (*ConfigRepository)(nil)

// ConfigRepository implements repositories.ConfigRepository using a YAML file
type ConfigRepository struct {
	path   string
	parser *ConfigParser
}

// NewConfigRepository creates a repository reading path. An empty path yields the defaults.
func NewConfigRepository(path string) *ConfigRepository {
	return &ConfigRepository{
		path:   path,
		parser: NewConfigParser(),
	}
}

// LoadConfig returns the file's configuration merged over the defaults
func (r *ConfigRepository) LoadConfig(_ context.Context) (*entities.MatrixConfig, error) {
	if r.path == "" {
		cfg := entities.DefaultMatrixConfig()
		return &cfg, nil
	}

	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config not found: %s", r.path)
	}

	return r.parser.ParseFile(r.path)
}
