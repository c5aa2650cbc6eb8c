// Package common defines shared constants and sentinel errors used across
// the mutestr client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Signing/encryption capability errors. ErrEncryptionUnavailable is
	// returned when a write path needs the encrypt-to-self capability and
	// the active identity does not provide one; callers must abort, never
	// downgrade private data to plaintext.
	ErrEncryptionUnavailable = errors.New("encryption capability unavailable")
	ErrDecryptionFailed      = errors.New("decryption failed")

	// Codec errors. Malformed relay data is expected (stale clients, relay
	// corruption) and is handled as "no data" at the fetch boundary, never
	// raised past it.
	ErrMalformedPayload = errors.New("malformed payload")

	// Relay publish outcome. A publish accepted by at least one relay is a
	// success; this is returned only when every relay rejected the event.
	ErrPublishRejected = errors.New("publish rejected by all relays")

	// Re-entrancy signal, not a failure: a sync was requested while one
	// was already running for the same data category.
	ErrSyncInProgress = errors.New("sync already in progress")

	// Key-ring errors.
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	ErrKeyRingEmpty      = errors.New("key ring is not initialized")
)
