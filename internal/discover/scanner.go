// Package discover fetches other users' public mute lists in bulk, e.g. to
// build mute suggestions from the lists of followed accounts.
package discover

import (
	"context"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/mutestr/mutestr/internal/logging"
	"github.com/mutestr/mutestr/internal/mutelist"
	"github.com/mutestr/mutestr/internal/relays"
)

// DefaultOwnerTimeout bounds the fetch for a single owner's list.
const DefaultOwnerTimeout = 5 * time.Second

// Result is one owner's public mute list. Only the public partition is
// readable on other people's lists, so the private collections are always
// empty here.
type Result struct {
	Owner string
	List  *mutelist.List
}

// Scanner walks a set of owners and collects their public mute lists.
type Scanner struct {
	gateway      *relays.Gateway
	log          logging.Logger
	ownerTimeout time.Duration
}

func NewScanner(gateway *relays.Gateway, log logging.Logger, ownerTimeout time.Duration) *Scanner {
	if ownerTimeout <= 0 {
		ownerTimeout = DefaultOwnerTimeout
	}
	return &Scanner{gateway: gateway, log: log, ownerTimeout: ownerTimeout}
}

// Scan fetches the latest mute list of each owner in turn over the given
// relays. Owners with no list (or with only unreachable relays) are
// skipped, not failed.
//
// Cancellation is checked between owners, and an owner fetch already in
// flight is allowed to finish so its result is not wasted. On cancellation
// the results gathered so far are returned together with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, owners []string, relayURLs []string) ([]Result, error) {
	var results []Result

	for _, owner := range owners {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		ev := s.fetchList(ctx, owner, relayURLs)
		if ev == nil {
			continue
		}

		// No signer: other people's private partitions are unreadable.
		l := mutelist.FromEvent(ctx, ev, nil, mutelist.ModeMuteList)
		if l.IsEmpty() {
			continue
		}
		results = append(results, Result{Owner: owner, List: l})
	}

	return results, nil
}

func (s *Scanner) fetchList(ctx context.Context, owner string, relayURLs []string) *nostr.Event {
	// Detach from the caller's cancellation so an in-flight fetch completes;
	// the per-owner timeout still bounds it.
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.ownerTimeout)
	defer cancel()

	filter := nostr.Filter{
		Kinds:   []int{mutelist.KindMuteList},
		Authors: []string{owner},
		Limit:   1,
	}

	ev, err := s.gateway.FetchLatest(fctx, filter, relayURLs, s.ownerTimeout)
	if err != nil {
		s.log.Debug(ctx, "mute list fetch failed", "owner", owner, "err", err)
		return nil
	}
	return ev
}
