package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/mutestr/mutestr/internal/appdata"
	"github.com/mutestr/mutestr/internal/mutelist"
)

// ShowPrefs prints the current preferences.
func (a *App) ShowPrefs(ctx context.Context) error {
	p, err := a.prefs.Get(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Println("default_private:", p.DefaultPrivate)
	fmt.Println("show_reasons:  ", p.ShowReasons)
	if len(p.RelayURLs) > 0 {
		fmt.Println("relay_urls:    ", p.RelayURLs)
	}
	return nil
}

// SetPref flips a boolean preference. Usage: set <name> <on|off>.
func (a *App) SetPref(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: set <default_private|show_reasons> <on|off>")
		return nil
	}
	value := args[1] == "on" || args[1] == "true"

	err := a.prefs.Update(ctx, func(p *appdata.PreferencesPayload) {
		switch args[0] {
		case "default_private":
			p.DefaultPrivate = value
		case "show_reasons":
			p.ShowReasons = value
		}
	})
	if err != nil {
		log.Println(err.Error())
		return err
	}
	a.prefs.PublishAsync(ctx, a.cfg.RelayURLs)
	fmt.Println("Saved.")
	return nil
}

// ShowPacks lists imported mute packs.
func (a *App) ShowPacks(ctx context.Context) error {
	packs, err := a.packs.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(packs) == 0 {
		fmt.Println("No imported packs.")
		return nil
	}
	for _, p := range packs {
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %s  %s  imported %s\n", p.Address, title,
			time.UnixMilli(p.ImportedAt).Format("2006-01-02"))
	}
	return nil
}

// ImportPack fetches a shared mute pack and merges its public entries into
// the working mute list. Protected users are never merged. Usage:
// import <author-pubkey> <identifier>.
func (a *App) ImportPack(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: import <author-pubkey> <identifier>")
		return nil
	}
	author, identifier := args[0], args[1]

	filter := nostr.Filter{
		Kinds:   []int{mutelist.KindListSet},
		Authors: []string{author},
		Tags:    nostr.TagMap{"d": []string{identifier}},
		Limit:   1,
	}
	ev, err := a.gateway.FetchLatest(ctx, filter, a.cfg.RelayURLs, a.cfg.FetchTimeout)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if ev == nil {
		fmt.Println("Pack not found on the relays.")
		return nil
	}

	// Packs are other people's events: only the public partition is usable.
	pack := mutelist.FromEvent(ctx, ev, nil, mutelist.ModeListSet)

	l, err := a.loadMuteList(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	added := 0
	for _, e := range pack.PubKeys {
		protected, err := a.protected.IsProtected(ctx, e.Value)
		if err != nil {
			log.Println(err.Error())
			return err
		}
		if protected || containsValue(l.PubKeys, e.Value) {
			continue
		}
		l.PubKeys = append(l.PubKeys, e)
		added++
	}
	for _, e := range pack.Words {
		if !containsValue(l.Words, e.Value) {
			l.Words = append(l.Words, e)
			added++
		}
	}
	for _, e := range pack.Threads {
		if !containsValue(l.Threads, e.Value) {
			l.Threads = append(l.Threads, e)
			added++
		}
	}

	if err := a.saveMuteList(ctx, l); err != nil {
		log.Println(err.Error())
		return err
	}

	title := ""
	if tag := ev.Tags.GetFirst([]string{"title"}); tag != nil {
		title = tag.Value()
	}
	if _, err := a.packs.MarkImported(ctx, author+":"+identifier, title); err != nil {
		log.Println(err.Error())
		return err
	}
	a.packs.PublishAsync(ctx, a.cfg.RelayURLs)

	fmt.Printf("Imported %d entries. Run 'push' to publish the list.\n", added)
	return nil
}

// ForgetPack drops a pack from the imported list. Usage: forget <address>.
func (a *App) ForgetPack(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: forget <author-pubkey>:<identifier>")
		return nil
	}
	if err := a.packs.Forget(ctx, args[0]); err != nil {
		log.Println(err.Error())
		return err
	}
	a.packs.PublishAsync(ctx, a.cfg.RelayURLs)
	fmt.Println("Forgotten.")
	return nil
}

func containsValue(entries []mutelist.Entry, value string) bool {
	for _, e := range entries {
		if e.Value == value {
			return true
		}
	}
	return false
}
