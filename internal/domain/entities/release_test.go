package entities

import (
	"errors"
	"testing"
)

func TestFamilyKey(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{tag: "v1.15.1", want: "v1.15"},
		{tag: "v1.14.0-beta.0", want: "v1.14"},
		{tag: "v1.7.9", want: "v1.7"},
		{tag: "v2.0", want: "v2.0"},
		{tag: "latest", want: "latest"},
		{tag: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := FamilyKey(tt.tag); got != tt.want {
				t.Errorf("FamilyKey(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestMatrixConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *MatrixConfig)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(_ *MatrixConfig) {}},
		{name: "empty root dir", mutate: func(c *MatrixConfig) { c.RootDir = "" }, wantErr: true},
		{name: "empty test script", mutate: func(c *MatrixConfig) { c.TestScript = "" }, wantErr: true},
		{name: "negative concurrency", mutate: func(c *MatrixConfig) { c.DownloadConcurrency = -1 }, wantErr: true},
		{name: "negative num tests", mutate: func(c *MatrixConfig) { c.NumTests = -2 }, wantErr: true},
		{name: "per page too large", mutate: func(c *MatrixConfig) { c.PerPage = 101 }, wantErr: true},
		{name: "signature without keyring", mutate: func(c *MatrixConfig) { c.Verify.SignatureSuffix = ".asc" }, wantErr: true},
		{
			name: "signature with keyring",
			mutate: func(c *MatrixConfig) {
				c.Verify.SignatureSuffix = ".asc"
				c.Verify.Keyring = "keys.asc"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMatrixConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStepError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &StepError{Phase: PhaseDownload, Version: "v1.15.1", Command: "GET https://x -> y", Err: inner}

	want := "download failed for v1.15.1 (GET https://x -> y): connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, inner) {
		t.Error("StepError should unwrap to the underlying error")
	}

	exitErr := &StepError{Phase: PhaseTest, Version: "v1.14.2", Command: "./t.sh bin", ExitCode: 3}
	if got := exitErr.Error(); got != "test failed for v1.14.2 (./t.sh bin): exit status 3" {
		t.Errorf("Error() = %q", got)
	}
}
