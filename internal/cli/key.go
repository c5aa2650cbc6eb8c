package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mutestr/mutestr/internal/common"
	"github.com/mutestr/mutestr/internal/cryptox"
)

// CreateKey sets up the key ring: an existing hex secret key can be
// imported, or a fresh one is generated when the prompt is left empty.
func (a *App) CreateKey(ctx context.Context) error {
	sk, err := getSimpleText(a.reader, "Secret key in hex (leave empty to generate a new one)", os.Stdout)
	if err != nil {
		return err
	}

	pw, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer cryptox.WipeBytes(pw)

	s, err := a.ring.Create(ctx, sk, pw)
	if err != nil {
		log.Println("creating key:", err)
		return err
	}

	a.wireServices(s)
	fmt.Println("Key ready. Public key:", s.PublicKey())
	return nil
}

// Unlock unseals the stored secret key with a passphrase and wires the
// identity-bound services.
func (a *App) Unlock(ctx context.Context) error {
	pw, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer cryptox.WipeBytes(pw)

	s, err := a.ring.Unlock(ctx, pw)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidPassphrase):
			log.Println("wrong passphrase")
		case errors.Is(err, common.ErrKeyRingEmpty):
			log.Println("no key stored yet, use 'create'")
		default:
			log.Println("unlock failed:", err)
		}
		return err
	}

	a.wireServices(s)
	fmt.Println("Unlocked.")
	return nil
}

// Whoami prints the active public key.
func (a *App) Whoami(ctx context.Context) error {
	fmt.Println("Public key:", a.signer.PublicKey())
	return nil
}
