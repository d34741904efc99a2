// Package entities defines core domain models and data structures.
package entities

import "path/filepath"

// Artifact represents one downloaded minikube binary and the files derived from it
type Artifact struct {
	Version   string
	Platform  string
	Path      string // local binary path, e.g. minikubes/v1.15.1/minikube-linux-amd64
	RemoteURL string
	LogPath   string // compatibility test log next to the binary
}

// Dir returns the per-version directory holding the binary and its log
func (a *Artifact) Dir() string {
	return filepath.Dir(a.Path)
}
