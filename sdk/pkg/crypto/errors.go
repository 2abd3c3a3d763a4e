// Package crypto provides the AES-256-GCM service used for tenant database
// passwords stored at rest in the control-plane registry.
package crypto

import "errors"

var (
	// ErrInvalidKeyLength means the key is not exactly 32 bytes.
	ErrInvalidKeyLength = errors.New("encryption key must be 32 bytes")

	// ErrInvalidCiphertext means the ciphertext is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	// ErrDecryptionFailed means authentication failed: wrong key or tampered data.
	ErrDecryptionFailed = errors.New("decryption failed: authentication failed")
)
