package core

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/go-crypt/x/blake2b"
)

const (
	// fingerprintSize is the digest length in bytes. Collision resistance
	// requirements are low; the fingerprint detects change, not tampering.
	fingerprintSize = 32

	// fingerprintBlockSize is the read block used when streaming a file
	// through the hash, keeping memory bounded regardless of file size.
	fingerprintBlockSize = 64 * 1024
)

// FingerprintReader computes the content fingerprint of everything read from
// r, streaming it through BLAKE2b in fixed-size blocks.
func FingerprintReader(r io.Reader) (Fingerprint, error) {
	h, err := blake2b.New(fingerprintSize, nil)
	if err != nil {
		return "", err
	}

	buf := make([]byte, fingerprintBlockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("fingerprinting failed: %w", err)
	}

	return Fingerprint(hex.EncodeToString(h.Sum(nil))), nil
}

// FingerprintBytes computes the content fingerprint of a byte slice.
// Identical bytes always yield an identical fingerprint.
func FingerprintBytes(data []byte) Fingerprint {
	h, _ := blake2b.New(fingerprintSize, nil)
	h.Write(data)
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// FingerprintFile computes the content fingerprint of the file at path.
func FingerprintFile(path string) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return FingerprintReader(f)
}
