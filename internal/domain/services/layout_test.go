package services

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
)

func TestLayout_Linux(t *testing.T) {
	cfg := entities.DefaultMatrixConfig()
	l := NewLayoutForOS(&cfg, "Linux")

	if got := l.BinaryName(); got != "minikube-linux-amd64" {
		t.Errorf("BinaryName() = %q, want minikube-linux-amd64", got)
	}
	if got := l.Platform(); got != "linux-amd64" {
		t.Errorf("Platform() = %q, want linux-amd64", got)
	}

	want := &entities.Artifact{
		Version:   "v1.15.1",
		Platform:  "linux-amd64",
		Path:      filepath.Join("minikubes", "v1.15.1", "minikube-linux-amd64"),
		RemoteURL: "https://storage.googleapis.com/minikube/releases/v1.15.1/minikube-linux-amd64",
		LogPath:   filepath.Join("minikubes", "v1.15.1", "px.test.log"),
	}
	if diff := cmp.Diff(want, l.Artifact("v1.15.1")); diff != "" {
		t.Errorf("Artifact() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_Darwin(t *testing.T) {
	cfg := entities.DefaultMatrixConfig()
	cfg.RootDir = "/tmp/matrix"
	l := NewLayoutForOS(&cfg, "darwin")

	if got, want := l.LocalPath("v1.14.2"), filepath.Join("/tmp/matrix", "v1.14.2", "minikube-darwin-amd64"); got != want {
		t.Errorf("LocalPath() = %q, want %q", got, want)
	}
	if got, want := l.RemoteURL("v1.14.2"), "https://storage.googleapis.com/minikube/releases/v1.14.2/minikube-darwin-amd64"; got != want {
		t.Errorf("RemoteURL() = %q, want %q", got, want)
	}
}

func TestLayout_DistinctVersionsNeverCollide(t *testing.T) {
	cfg := entities.DefaultMatrixConfig()
	l := NewLayoutForOS(&cfg, "linux")

	artifacts := l.Artifacts([]string{"v1.15.1", "v1.14.2", "v1.13.1"})
	seen := make(map[string]bool)
	for _, a := range artifacts {
		if seen[a.Path] {
			t.Errorf("duplicate local path %s", a.Path)
		}
		seen[a.Path] = true
		if a.Dir() != filepath.Dir(a.LogPath) {
			t.Errorf("log %s is not next to binary %s", a.LogPath, a.Path)
		}
	}
	if len(artifacts) != 3 || artifacts[0].Version != "v1.15.1" || artifacts[2].Version != "v1.13.1" {
		t.Errorf("Artifacts() did not preserve order: %+v", artifacts)
	}
}
