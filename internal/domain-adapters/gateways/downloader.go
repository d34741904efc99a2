package gateways

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces"
	"github.com/ochairo/minikube-matrix/internal/domain/interfaces/gateways"
)

const userAgent = "minikube-matrix/1.0"

var _ gateways.BinaryFetcher = (*Downloader)(nil)

// Downloader retrieves minikube binaries from the release store
type Downloader struct {
	httpClient      *http.Client
	checksums       gateways.ChecksumVerifier
	signatures      gateways.SignatureVerifier
	signatureSuffix string
	logger          interfaces.Logger
}

// DownloaderOption configures optional verification on a Downloader
type DownloaderOption func(*Downloader)

// WithChecksumVerification compares each binary against the published <url>.sha256
func WithChecksumVerification(v gateways.ChecksumVerifier) DownloaderOption {
	return func(d *Downloader) {
		d.checksums = v
	}
}

// WithSignatureVerification checks each binary against the detached signature at <url><suffix>
func WithSignatureVerification(v gateways.SignatureVerifier, suffix string) DownloaderOption {
	return func(d *Downloader) {
		d.signatures = v
		d.signatureSuffix = suffix
	}
}

// NewDownloader creates a new downloader
func NewDownloader(logger interfaces.Logger, opts ...DownloaderOption) *Downloader {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	d := &Downloader{
		httpClient: &http.Client{
			Timeout: 10 * time.Minute, // minikube binaries are ~70MB
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FetchArtifact creates the version directory, downloads the binary over any existing
// file, optionally verifies it and marks it executable. The first failing step is
// returned as *entities.StepError.
func (d *Downloader) FetchArtifact(ctx context.Context, artifact *entities.Artifact) error {
	dir := artifact.Dir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return &entities.StepError{
			Phase:   entities.PhaseMkdir,
			Version: artifact.Version,
			Command: "mkdir -p " + dir,
			Err:     err,
		}
	}

	written, err := d.downloadFile(ctx, artifact.RemoteURL, artifact.Path)
	if err != nil {
		return &entities.StepError{
			Phase:   entities.PhaseDownload,
			Version: artifact.Version,
			Command: fmt.Sprintf("GET %s -> %s", artifact.RemoteURL, artifact.Path),
			Err:     err,
		}
	}
	d.logger.Debug("downloaded binary",
		interfaces.F("version", artifact.Version),
		interfaces.F("path", artifact.Path),
		interfaces.F("bytes", written))

	if err := d.verify(ctx, artifact); err != nil {
		return &entities.StepError{
			Phase:   entities.PhaseVerify,
			Version: artifact.Version,
			Command: "verify " + artifact.Path,
			Err:     err,
		}
	}

	//nolint:gosec // G302: the downloaded binary has to be executable
	if err := os.Chmod(artifact.Path, 0755); err != nil {
		return &entities.StepError{
			Phase:   entities.PhaseChmod,
			Version: artifact.Version,
			Command: "chmod 0755 " + artifact.Path,
			Err:     err,
		}
	}

	return nil
}

func (d *Downloader) verify(ctx context.Context, artifact *entities.Artifact) error {
	if d.checksums != nil {
		expected, err := d.fetchChecksum(ctx, artifact.RemoteURL+".sha256")
		if err != nil {
			return fmt.Errorf("failed to fetch checksum: %w", err)
		}
		if err := d.checksums.VerifyChecksum(ctx, artifact.Path, expected); err != nil {
			return err
		}
		d.logger.Debug("checksum verified", interfaces.F("version", artifact.Version))
	}

	if d.signatures != nil {
		if err := d.signatures.VerifySignature(ctx, artifact.Path, artifact.RemoteURL+d.signatureSuffix); err != nil {
			return err
		}
		d.logger.Debug("signature verified", interfaces.F("version", artifact.Version))
	}

	return nil
}

// downloadFile downloads url to dest, truncating dest if it already exists.
// A partially written dest is removed.
func (d *Downloader) downloadFile(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	//nolint:gosec // G304: dest is derived from the configured artifact root
	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return written, fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return written, fmt.Errorf("failed to close file: %w", err)
	}

	return written, nil
}

// fetchChecksum reads a published .sha256 file; the digest is its first field
func (d *Downloader) fetchChecksum(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return "", fmt.Errorf("failed to read checksum: %w", err)
	}

	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return "", fmt.Errorf("checksum file %s is empty", url)
	}
	return strings.ToLower(fields[0]), nil
}
