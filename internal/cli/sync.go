package cli

import (
	"context"
	"fmt"
	"log"
)

// Sync runs a full reconciliation pass over every category service.
func (a *App) Sync(ctx context.Context) error {
	status := a.manager.SyncAll(ctx)
	if status.InProgress {
		fmt.Println("Sync already running.")
		return nil
	}

	fmt.Printf("Synced %d services.\n", len(status.Synced))
	for _, e := range status.Errors {
		fmt.Printf("  %s: %s\n", e.Service, e.Message)
	}
	return nil
}

// Publish force-publishes the local copy of every category.
func (a *App) Publish(ctx context.Context) error {
	type publisher interface {
		Name() string
		PublishToRelay(ctx context.Context, relayURLs []string) error
	}

	for _, p := range []publisher{a.protected, a.blacklist, a.prefs, a.packs, a.backup} {
		if err := p.PublishToRelay(ctx, a.cfg.RelayURLs); err != nil {
			log.Printf("%s: %s", p.Name(), err.Error())
			continue
		}
		fmt.Println("Published:", p.Name())
	}
	return nil
}

// Discover scans other users' public mute lists for candidates.
// Usage: discover <pubkey> [pubkey...].
func (a *App) Discover(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: discover <pubkey> [pubkey...]")
		return nil
	}

	results, err := a.scanner.Scan(ctx, args, a.cfg.RelayURLs)
	if err != nil {
		log.Println(err.Error())
	}
	if len(results) == 0 {
		fmt.Println("No public mute lists found.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("%s mutes %d users, %d words, %d hashtags, %d threads\n",
			r.Owner, len(r.List.PubKeys), len(r.List.Words),
			len(r.List.Hashtags), len(r.List.Threads))
	}
	return nil
}
