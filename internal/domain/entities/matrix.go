package entities

import (
	"fmt"
	"time"
)

// MatrixConfig holds everything a compatibility run needs to know
type MatrixConfig struct {
	Repository          string // owner/repo on GitHub, e.g. "kubernetes/minikube"
	APIBaseURL          string
	PerPage             int
	StorageURL          string // template with {version} and {binary}
	BinaryName          string // template with {os} and {arch}
	Arch                string
	RootDir             string
	LogName             string
	TestScript          string
	TestTimeout         time.Duration // 0 disables the timeout
	Exclude             []string
	AllowUnordered      bool
	DownloadConcurrency int
	NumTests            int // 0 keeps every selected version
	Verify              VerifyConfig
}

// VerifyConfig configures optional integrity checks on downloaded binaries
type VerifyConfig struct {
	Checksum        bool   // fetch <url>.sha256 and compare
	SignatureSuffix string // e.g. ".asc"; empty disables signature checks
	Keyring         string // armored public keyring file
}

// DefaultMatrixConfig returns the configuration used when no config file is given
func DefaultMatrixConfig() MatrixConfig {
	return MatrixConfig{
		Repository:          "kubernetes/minikube",
		APIBaseURL:          "https://api.github.com",
		PerPage:             100,
		StorageURL:          "https://storage.googleapis.com/minikube/releases/{version}/{binary}",
		BinaryName:          "minikube-{os}-{arch}",
		Arch:                "amd64",
		RootDir:             "minikubes",
		LogName:             "px.test.log",
		TestScript:          "./test_px_on_minikube.sh",
		Exclude:             []string{"beta", "v1.7", "v1.8"},
		DownloadConcurrency: 1,
	}
}

// Validate checks that the configuration can drive a run
func (c *MatrixConfig) Validate() error {
	switch {
	case c.Repository == "":
		return fmt.Errorf("repository must not be empty")
	case c.APIBaseURL == "":
		return fmt.Errorf("api_base_url must not be empty")
	case c.StorageURL == "":
		return fmt.Errorf("storage_url must not be empty")
	case c.BinaryName == "":
		return fmt.Errorf("binary_name must not be empty")
	case c.RootDir == "":
		return fmt.Errorf("root_dir must not be empty")
	case c.LogName == "":
		return fmt.Errorf("log_name must not be empty")
	case c.TestScript == "":
		return fmt.Errorf("test_script must not be empty")
	case c.PerPage < 0 || c.PerPage > 100:
		return fmt.Errorf("per_page must be between 0 and 100, got %d", c.PerPage)
	case c.DownloadConcurrency < 0:
		return fmt.Errorf("download_concurrency must not be negative, got %d", c.DownloadConcurrency)
	case c.NumTests < 0:
		return fmt.Errorf("num-tests must not be negative, got %d", c.NumTests)
	case c.TestTimeout < 0:
		return fmt.Errorf("test_timeout must not be negative, got %v", c.TestTimeout)
	case c.Verify.SignatureSuffix != "" && c.Verify.Keyring == "":
		return fmt.Errorf("verify.keyring is required when verify.signature_suffix is set")
	}
	return nil
}
