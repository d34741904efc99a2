// Package yaml provides YAML-based matrix configuration parsing.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlConfig represents the raw YAML structure. Pointer fields distinguish an
// absent key from an explicit zero value so defaults survive partial files.
type yamlConfig struct {
	Repository          *string    `yaml:"repository"`
	APIBaseURL          *string    `yaml:"api_base_url"`
	PerPage             *int       `yaml:"per_page"`
	StorageURL          *string    `yaml:"storage_url"`
	BinaryName          *string    `yaml:"binary_name"`
	Arch                *string    `yaml:"arch"`
	RootDir             *string    `yaml:"root_dir"`
	LogName             *string    `yaml:"log_name"`
	TestScript          *string    `yaml:"test_script"`
	TestTimeout         *string    `yaml:"test_timeout"`
	Exclude             *[]string  `yaml:"exclude"`
	AllowUnordered      *bool      `yaml:"allow_unordered"`
	DownloadConcurrency *int       `yaml:"download_concurrency"`
	Verify              yamlVerify `yaml:"verify"`
}

type yamlVerify struct {
	Checksum        *bool   `yaml:"checksum"`
	SignatureSuffix *string `yaml:"signature_suffix"`
	Keyring         *string `yaml:"keyring"`
}

// ConfigParser parses matrix configuration files
type ConfigParser struct{}

// NewConfigParser creates a new YAML parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile parses a YAML config file over the defaults
func (p *ConfigParser) ParseFile(filePath string) (*entities.MatrixConfig, error) {
	//nolint:gosec // G304: filePath is the config path given on the command line
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes over the defaults. Unknown keys are rejected.
func (p *ConfigParser) Parse(data []byte) (*entities.MatrixConfig, error) {
	var raw yamlConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := entities.DefaultMatrixConfig()
	if err := apply(&cfg, &raw); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func apply(cfg *entities.MatrixConfig, raw *yamlConfig) error {
	setString(&cfg.Repository, raw.Repository)
	setString(&cfg.APIBaseURL, raw.APIBaseURL)
	setString(&cfg.StorageURL, raw.StorageURL)
	setString(&cfg.BinaryName, raw.BinaryName)
	setString(&cfg.Arch, raw.Arch)
	setString(&cfg.RootDir, raw.RootDir)
	setString(&cfg.LogName, raw.LogName)
	setString(&cfg.TestScript, raw.TestScript)
	setString(&cfg.Verify.SignatureSuffix, raw.Verify.SignatureSuffix)
	setString(&cfg.Verify.Keyring, raw.Verify.Keyring)

	if raw.PerPage != nil {
		cfg.PerPage = *raw.PerPage
	}
	if raw.DownloadConcurrency != nil {
		cfg.DownloadConcurrency = *raw.DownloadConcurrency
	}
	if raw.AllowUnordered != nil {
		cfg.AllowUnordered = *raw.AllowUnordered
	}
	if raw.Verify.Checksum != nil {
		cfg.Verify.Checksum = *raw.Verify.Checksum
	}
	if raw.Exclude != nil {
		cfg.Exclude = append([]string(nil), *raw.Exclude...)
	}
	if raw.TestTimeout != nil && *raw.TestTimeout != "" {
		d, err := time.ParseDuration(*raw.TestTimeout)
		if err != nil {
			return fmt.Errorf("invalid test_timeout %q: %w", *raw.TestTimeout, err)
		}
		cfg.TestTimeout = d
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
