package signer

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip44"

	"github.com/mutestr/mutestr/internal/common"
)

// LocalSigner signs and encrypts with a secret key held in memory. The
// NIP-44 conversation key to our own public key is derived once at
// construction; every self-encryption reuses it.
type LocalSigner struct {
	sk      string
	pk      string
	convKey [32]byte
}

// NewLocalSigner derives the public key and the self conversation key from
// the given hex secret key.
func NewLocalSigner(sk string) (*LocalSigner, error) {
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		return nil, fmt.Errorf("deriving public key: %w", err)
	}

	ck, err := nip44.GenerateConversationKey(pk, sk)
	if err != nil {
		return nil, fmt.Errorf("deriving conversation key: %w", err)
	}

	s := &LocalSigner{sk: sk, pk: pk}
	copy(s.convKey[:], ck)
	return s, nil
}

func (s *LocalSigner) PublicKey() string { return s.pk }

func (s *LocalSigner) Sign(ctx context.Context, ev *nostr.Event) error {
	ev.PubKey = s.pk
	if err := ev.Sign(s.sk); err != nil {
		return fmt.Errorf("signing event: %w", err)
	}
	return nil
}

func (s *LocalSigner) HasEncryption() bool { return true }

func (s *LocalSigner) EncryptToSelf(ctx context.Context, plaintext string) (string, error) {
	ct, err := nip44.Encrypt(plaintext, s.convKey[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrEncryptionUnavailable, err)
	}
	return ct, nil
}

func (s *LocalSigner) DecryptFromSelf(ctx context.Context, ciphertext string) (string, error) {
	pt, err := nip44.Decrypt(ciphertext, s.convKey[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	return pt, nil
}
