package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Protect marks a user as never mutable by packs or bulk actions.
// Usage: protect <pubkey> [note...].
func (a *App) Protect(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: protect <pubkey> [note]")
		return nil
	}
	if err := a.protected.Protect(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		log.Println(err.Error())
		return err
	}
	a.protected.PublishAsync(ctx, a.cfg.RelayURLs)
	fmt.Println("Protected.")
	return nil
}

// Unprotect removes the protection mark. Usage: unprotect <pubkey>.
func (a *App) Unprotect(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: unprotect <pubkey>")
		return nil
	}
	if err := a.protected.Unprotect(ctx, args[0]); err != nil {
		log.Println(err.Error())
		return err
	}
	a.protected.PublishAsync(ctx, a.cfg.RelayURLs)
	fmt.Println("Unprotected.")
	return nil
}

// ShowProtected lists protected users.
func (a *App) ShowProtected(ctx context.Context) error {
	users, err := a.protected.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(users) == 0 {
		fmt.Println("No protected users.")
		return nil
	}
	for _, u := range users {
		line := "  " + u.PubKey
		if u.Note != "" {
			line += " — " + u.Note
		}
		fmt.Println(line)
	}
	return nil
}

// Block adds a user to the blacklist. Usage: block <pubkey> [note...].
func (a *App) Block(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: block <pubkey> [note]")
		return nil
	}
	id, err := a.blacklist.Add(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		log.Println(err.Error())
		return err
	}
	a.blacklist.PublishAsync(ctx, a.cfg.RelayURLs)
	fmt.Println("Blocked, id:", id)
	return nil
}

// Unblock removes a blacklist entry by id. Usage: unblock <id>.
func (a *App) Unblock(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: unblock <id>")
		return nil
	}
	if err := a.blacklist.Remove(ctx, args[0]); err != nil {
		log.Println(err.Error())
		return err
	}
	a.blacklist.PublishAsync(ctx, a.cfg.RelayURLs)
	fmt.Println("Unblocked.")
	return nil
}

// ShowBlacklist lists blocked users.
func (a *App) ShowBlacklist(ctx context.Context) error {
	entries, err := a.blacklist.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Blacklist is empty.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("  %s  %s", e.ID, e.PubKey)
		if e.Note != "" {
			line += " — " + e.Note
		}
		fmt.Println(line)
	}
	return nil
}
