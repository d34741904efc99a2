package gateways

import (
	"context"
	"fmt"

	"github.com/ochairo/minikube-matrix/internal/domain/interfaces/gateways"
	"github.com/ochairo/minikube-matrix/internal/external-adapters/gpg"
)

var _ gateways.SignatureVerifier = (*gpgVerifier)(nil)

// gpgVerifier wraps the external GPG adapter to implement the domain gateway interface
type gpgVerifier struct {
	verifier *gpg.Verifier
}

// NewGPGVerifier creates a new GPG verifier gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewGPGVerifier() *gpgVerifier {
	return &gpgVerifier{
		verifier: gpg.NewVerifier(),
	}
}

// ImportKeyFromFile imports the release signing keys from a local keyring file
func (g *gpgVerifier) ImportKeyFromFile(keyPath string) error {
	if err := g.verifier.ImportKeyFromFile(keyPath); err != nil {
		return fmt.Errorf("failed to import GPG key from file: %w", err)
	}
	return nil
}

// VerifySignature verifies a detached GPG signature downloaded from a URL
func (g *gpgVerifier) VerifySignature(ctx context.Context, filePath, sigURL string) error {
	if err := g.verifier.VerifySignature(ctx, filePath, sigURL); err != nil {
		return fmt.Errorf("GPG signature verification failed: %w", err)
	}
	return nil
}
