package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"
)

// Backup saves a profile snapshot into the backup ring.
func (a *App) Backup(ctx context.Context) error {
	content, err := getMultiline(a.reader, "Paste the profile JSON to back up", os.Stdout)
	if err != nil {
		return err
	}
	if content == "" {
		fmt.Println("Nothing to back up.")
		return nil
	}

	if err := a.backup.Save(ctx, content); err != nil {
		log.Println(err.Error())
		return err
	}
	a.backup.PublishAsync(ctx, a.cfg.RelayURLs)
	fmt.Println("Backup saved.")
	return nil
}

// Restore prints the most recent profile snapshot.
func (a *App) Restore(ctx context.Context) error {
	snapshot, err := a.backup.Latest(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if snapshot == nil {
		fmt.Println("No backups yet.")
		return nil
	}
	fmt.Printf("Snapshot from %s:\n", time.UnixMilli(snapshot.SavedAt).Format(time.RFC3339))
	fmt.Println(snapshot.Content)
	return nil
}
