// Package signer abstracts the identity used to sign and encrypt
// application records.
//
// The rest of the client never probes for capabilities at call time;
// HasEncryption reports up front whether the encrypt-to-self capability is
// present. Encrypt/decrypt take a context because an implementation may
// delegate to an external signing authority over the network.
package signer

import (
	"context"

	"github.com/nbd-wtf/go-nostr"
)

// Signer is the signing/encryption capability of the active identity.
type Signer interface {
	// PublicKey returns the hex public key of the identity.
	PublicKey() string

	// Sign fills in PubKey, ID and Sig on the event.
	Sign(ctx context.Context, ev *nostr.Event) error

	// HasEncryption reports whether EncryptToSelf/DecryptFromSelf are
	// usable with this identity.
	HasEncryption() bool

	// EncryptToSelf encrypts plaintext so only this identity can read it.
	EncryptToSelf(ctx context.Context, plaintext string) (string, error)

	// DecryptFromSelf reverses EncryptToSelf.
	DecryptFromSelf(ctx context.Context, ciphertext string) (string, error)
}
