package relays

import (
	"context"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/mutestr/mutestr/internal/common"
	"github.com/mutestr/mutestr/internal/logging"
)

// DefaultFetchTimeout bounds a fan-out query. Relays may never answer
// (offline, rate-limiting), so every fetch degrades to "no data found"
// instead of hanging.
const DefaultFetchTimeout = 5 * time.Second

// DefaultPublishTimeout bounds a fan-out publish the same way: a relay
// that never acks must not hang the caller.
const DefaultPublishTimeout = 10 * time.Second

// Gateway fans queries and publishes out over a set of relays and reduces
// the responses to a single outcome.
type Gateway struct {
	pool Pool
	log  logging.Logger
}

func NewGateway(pool Pool, log logging.Logger) *Gateway {
	return &Gateway{pool: pool, log: log}
}

// FetchLatest queries every relay concurrently with the same filter and
// returns the matching event with the greatest created_at, or nil when no
// relay produced one before the timeout. Per-relay failures and timeouts
// are absorbed into the reduction; they surface only as a nil result when
// nothing at all arrived.
func (g *Gateway) FetchLatest(ctx context.Context, filter nostr.Filter, relayURLs []string, timeout time.Duration) (*nostr.Event, error) {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		best *nostr.Event
		wg   sync.WaitGroup
	)

	for _, url := range relayURLs {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()

			evs, err := g.pool.Query(cctx, url, filter)
			if err != nil {
				g.log.Debug(cctx, "relay query failed", "relay", url, "err", err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			for _, ev := range evs {
				if best == nil || ev.CreatedAt > best.CreatedAt {
					best = ev
				}
			}
		}(url)
	}

	wg.Wait()
	return best, nil
}

// PublishResult carries per-relay outcome counts for one publish.
type PublishResult struct {
	Accepted int
	Rejected int
}

// Publish sends the signed event to every relay independently. Nostr
// publish semantics are best-effort: one durable relay is enough for later
// retrieval, so the publish succeeds when at least one relay accepts. Only
// a total rejection is an error (ErrPublishRejected).
func (g *Gateway) Publish(ctx context.Context, ev *nostr.Event, relayURLs []string) (PublishResult, error) {
	var (
		mu  sync.Mutex
		res PublishResult
		wg  sync.WaitGroup
	)

	for _, url := range relayURLs {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()

			err := g.pool.Publish(ctx, url, ev)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Rejected++
				g.log.Warn(ctx, "relay rejected publish", "relay", url, "err", err)
				return
			}
			res.Accepted++
			g.log.Debug(ctx, "relay accepted publish", "relay", url, "event", ev.ID)
		}(url)
	}

	wg.Wait()

	if res.Accepted == 0 && len(relayURLs) > 0 {
		return res, common.ErrPublishRejected
	}
	return res, nil
}
