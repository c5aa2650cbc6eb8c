package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/nbd-wtf/go-nostr"

	"github.com/mutestr/mutestr/internal/mutelist"
)

// muteListKey is the kv slot holding the working copy of the mute list.
const muteListKey = "mutelist.working"

func (a *App) loadMuteList(ctx context.Context) (*mutelist.List, error) {
	raw, err := a.store.Get(ctx, muteListKey)
	if err != nil {
		return nil, err
	}
	l := &mutelist.List{}
	if raw == nil {
		return l, nil
	}
	if err := json.Unmarshal(raw, l); err != nil {
		// A corrupt working copy is replaced, not fatal.
		log.Println("resetting corrupt mute list:", err)
		return &mutelist.List{}, nil
	}
	return l, nil
}

func (a *App) saveMuteList(ctx context.Context, l *mutelist.List) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, muteListKey, raw)
}

func collectionFor(l *mutelist.List, marker string) *[]mutelist.Entry {
	switch marker {
	case "p", "user":
		return &l.PubKeys
	case "word":
		return &l.Words
	case "t", "tag":
		return &l.Hashtags
	case "e", "thread":
		return &l.Threads
	}
	return nil
}

// Mute adds an entry to the working mute list. Usage: mute <p|word|t|e>
// <value> [reason...]. The private flag comes from the command ("mutep")
// or, when off, from the default_private preference.
func (a *App) Mute(ctx context.Context, args []string, private bool) error {
	if len(args) < 2 {
		fmt.Println("Usage: mute <p|word|t|e> <value> [reason]")
		return nil
	}

	l, err := a.loadMuteList(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	col := collectionFor(l, args[0])
	if col == nil {
		fmt.Println("Unknown mute type:", args[0])
		return nil
	}

	if !private {
		p, err := a.prefs.Get(ctx)
		if err != nil {
			log.Println(err.Error())
			return err
		}
		private = p.DefaultPrivate
	}

	value := args[1]
	if args[0] == "p" || args[0] == "user" {
		ok, err := a.protected.IsProtected(ctx, value)
		if err != nil {
			log.Println(err.Error())
			return err
		}
		if ok {
			fmt.Println("Refusing to mute a protected user. Run 'unprotect' first.")
			return nil
		}
	}

	*col = append(*col, mutelist.Entry{
		Value:   value,
		Reason:  strings.Join(args[2:], " "),
		Private: private,
	})

	if err := a.saveMuteList(ctx, l); err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Println("Muted. Run 'push' to publish the list.")
	return nil
}

// Unmute removes every entry with the given value from one collection,
// public and private alike. Usage: unmute <p|word|t|e> <value>.
func (a *App) Unmute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: unmute <p|word|t|e> <value>")
		return nil
	}

	l, err := a.loadMuteList(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	col := collectionFor(l, args[0])
	if col == nil {
		fmt.Println("Unknown mute type:", args[0])
		return nil
	}

	kept := (*col)[:0]
	removed := 0
	for _, e := range *col {
		if e.Value == args[1] {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	*col = kept

	if err := a.saveMuteList(ctx, l); err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Printf("Removed %d entries.\n", removed)
	return nil
}

// ShowMutes prints the working mute list.
func (a *App) ShowMutes(ctx context.Context) error {
	l, err := a.loadMuteList(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	showReasons := true
	if p, err := a.prefs.Get(ctx); err == nil {
		showReasons = p.ShowReasons
	}

	print := func(label string, entries []mutelist.Entry) {
		if len(entries) == 0 {
			return
		}
		fmt.Printf("%s:\n", label)
		for _, e := range entries {
			line := "  " + e.Value
			if e.Private {
				line += " [private]"
			}
			if showReasons && e.Reason != "" {
				line += " — " + e.Reason
			}
			fmt.Println(line)
		}
	}

	if l.IsEmpty() {
		fmt.Println("Mute list is empty.")
		return nil
	}
	print("Users", l.PubKeys)
	print("Words", l.Words)
	print("Hashtags", l.Hashtags)
	print("Threads", l.Threads)
	return nil
}

// PushMutes publishes the working copy as the new mute list event,
// replacing the previous one wholesale.
func (a *App) PushMutes(ctx context.Context) error {
	l, err := a.loadMuteList(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	ev, err := mutelist.ToEvent(ctx, l, a.signer)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if err := a.signer.Sign(ctx, ev); err != nil {
		log.Println(err.Error())
		return err
	}

	pctx, cancel := context.WithTimeout(ctx, a.cfg.PublishTimeout)
	defer cancel()

	res, err := a.gateway.Publish(pctx, ev, a.cfg.RelayURLs)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Printf("Published to %d of %d relays.\n", res.Accepted, len(a.cfg.RelayURLs))
	return nil
}

// PullMutes replaces the working copy with the newest mute list found on
// the configured relays.
func (a *App) PullMutes(ctx context.Context) error {
	filter := nostr.Filter{
		Kinds:   []int{mutelist.KindMuteList},
		Authors: []string{a.signer.PublicKey()},
		Limit:   1,
	}

	ev, err := a.gateway.FetchLatest(ctx, filter, a.cfg.RelayURLs, a.cfg.FetchTimeout)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if ev == nil {
		fmt.Println("No mute list found on the relays.")
		return nil
	}

	l := mutelist.FromEvent(ctx, ev, a.signer, mutelist.ModeMuteList)
	if err := a.saveMuteList(ctx, l); err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Printf("Pulled %d entries.\n", l.Size())
	return nil
}
