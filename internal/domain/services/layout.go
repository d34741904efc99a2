package services

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
)

// Layout maps a version tag to its local and remote artifact locations.
// The mapping is pure: the same tag always yields the same paths.
type Layout struct {
	rootDir    string
	storageURL string
	binaryName string
	logName    string
	platform   string
}

// NewLayout creates a layout for the host operating system
func NewLayout(cfg *entities.MatrixConfig) *Layout {
	return NewLayoutForOS(cfg, runtime.GOOS)
}

// NewLayoutForOS creates a layout for an explicit operating system name
func NewLayoutForOS(cfg *entities.MatrixConfig, goos string) *Layout {
	osName := strings.ToLower(goos)
	binary := strings.NewReplacer("{os}", osName, "{arch}", cfg.Arch).Replace(cfg.BinaryName)
	return &Layout{
		rootDir:    cfg.RootDir,
		storageURL: cfg.StorageURL,
		binaryName: binary,
		logName:    cfg.LogName,
		platform:   fmt.Sprintf("%s-%s", osName, cfg.Arch),
	}
}

// Platform returns the platform string, e.g. "linux-amd64"
func (l *Layout) Platform() string {
	return l.platform
}

// BinaryName returns the platform binary filename, e.g. "minikube-linux-amd64"
func (l *Layout) BinaryName() string {
	return l.binaryName
}

// LocalPath returns <root>/<version>/<binary>
func (l *Layout) LocalPath(version string) string {
	return filepath.Join(l.rootDir, version, l.binaryName)
}

// RemoteURL returns the release store URL for the version's binary
func (l *Layout) RemoteURL(version string) string {
	return strings.NewReplacer("{version}", version, "{binary}", l.binaryName).Replace(l.storageURL)
}

// Artifact builds the artifact for a version. The fetcher and the runner both use
// the returned value so they always agree on the binary path.
func (l *Layout) Artifact(version string) *entities.Artifact {
	path := l.LocalPath(version)
	return &entities.Artifact{
		Version:   version,
		Platform:  l.platform,
		Path:      path,
		RemoteURL: l.RemoteURL(version),
		LogPath:   filepath.Join(filepath.Dir(path), l.logName),
	}
}

// Artifacts builds artifacts for versions, preserving their order
func (l *Layout) Artifacts(versions []string) []*entities.Artifact {
	artifacts := make([]*entities.Artifact, 0, len(versions))
	for _, v := range versions {
		artifacts = append(artifacts, l.Artifact(v))
	}
	return artifacts
}
