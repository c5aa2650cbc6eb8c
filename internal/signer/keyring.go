package signer

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"github.com/mutestr/mutestr/internal/common"
	"github.com/mutestr/mutestr/internal/cryptox"
	"github.com/mutestr/mutestr/internal/repositories/kvstore"
)

// KV keys holding the sealed identity.
const (
	keySalt     = "keyring.salt"
	keyNonce    = "keyring.nonce"
	keySealed   = "keyring.sealed"
	keyVerifier = "keyring.verifier"
	keyPubKey   = "keyring.pubkey"
)

// KeyRing persists the client's Nostr secret key, sealed with a
// passphrase-derived key. The public key is stored in the clear so the
// identity can be displayed without unlocking.
type KeyRing struct {
	store kvstore.Store
}

func NewKeyRing(store kvstore.Store) *KeyRing {
	return &KeyRing{store: store}
}

// Initialized reports whether a sealed key is present.
func (k *KeyRing) Initialized(ctx context.Context) (bool, error) {
	v, err := k.store.Get(ctx, keySealed)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

// PublicKey returns the stored public key, or ErrKeyRingEmpty.
func (k *KeyRing) PublicKey(ctx context.Context) (string, error) {
	v, err := k.store.Get(ctx, keyPubKey)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", common.ErrKeyRingEmpty
	}
	return string(v), nil
}

// Create seals sk (generating a fresh key when sk is empty) under the given
// passphrase and stores it. Any previously stored identity is replaced.
func (k *KeyRing) Create(ctx context.Context, sk string, passphrase []byte) (*LocalSigner, error) {
	if sk == "" {
		sk = nostr.GeneratePrivateKey()
	}
	if _, err := hex.DecodeString(sk); err != nil {
		return nil, fmt.Errorf("secret key must be hex: %w", err)
	}

	s, err := NewLocalSigner(sk)
	if err != nil {
		return nil, err
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}
	key := cryptox.DeriveKey(passphrase, salt)
	defer cryptox.WipeBytes(key)

	sealed, nonce, err := cryptox.Seal([]byte(sk), key)
	if err != nil {
		return nil, fmt.Errorf("sealing secret key: %w", err)
	}

	// One atomic write: a failure mid-way must not leave a ring that has a
	// salt but no sealed key.
	err = k.store.SetMany(ctx, map[string][]byte{
		keySalt:     salt,
		keyNonce:    nonce,
		keySealed:   sealed,
		keyVerifier: cryptox.MakeVerifier(key),
		keyPubKey:   []byte(s.PublicKey()),
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Unlock re-derives the sealing key from the passphrase, verifies it, and
// returns a signer over the unsealed secret key. A wrong passphrase yields
// ErrInvalidPassphrase; an empty ring yields ErrKeyRingEmpty.
func (k *KeyRing) Unlock(ctx context.Context, passphrase []byte) (*LocalSigner, error) {
	sealed, err := k.store.Get(ctx, keySealed)
	if err != nil {
		return nil, err
	}
	if sealed == nil {
		return nil, common.ErrKeyRingEmpty
	}

	salt, err := k.store.Get(ctx, keySalt)
	if err != nil {
		return nil, err
	}
	nonce, err := k.store.Get(ctx, keyNonce)
	if err != nil {
		return nil, err
	}
	verifier, err := k.store.Get(ctx, keyVerifier)
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey(passphrase, salt)
	defer cryptox.WipeBytes(key)

	if subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(key)) == 0 {
		return nil, common.ErrInvalidPassphrase
	}

	sk, err := cryptox.Open(sealed, nonce, key)
	if err != nil {
		return nil, fmt.Errorf("unsealing secret key: %w", err)
	}

	return NewLocalSigner(string(sk))
}
