package gateways

import "context"

// ChecksumVerifier verifies file integrity against a SHA-256 digest
type ChecksumVerifier interface {
	VerifyChecksum(ctx context.Context, filePath, expectedSum string) error
}

// SignatureVerifier verifies detached OpenPGP signatures
type SignatureVerifier interface {
	ImportKeyFromFile(keyPath string) error
	VerifySignature(ctx context.Context, filePath, sigURL string) error
}
