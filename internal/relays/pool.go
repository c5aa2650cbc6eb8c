// Package relays provides the fan-out query/publish gateway over a shared
// relay connection pool.
package relays

import (
	"context"
	"fmt"
	"sync"

	"github.com/nbd-wtf/go-nostr"

	"github.com/mutestr/mutestr/internal/logging"
)

// Pool is the transport the gateway fans out over: one-shot stored-event
// queries (resolved at end-of-stored-events or context expiry) and single
// publishes, both against one relay URL. Implementations multiplex many
// callers over shared connections; tests substitute a fake.
type Pool interface {
	Query(ctx context.Context, url string, filter nostr.Filter) ([]*nostr.Event, error)
	Publish(ctx context.Context, url string, ev *nostr.Event) error
	Close()
}

// NostrPool implements Pool over go-nostr relay connections. Connections
// are dialed lazily on first use and reused for the life of the process.
type NostrPool struct {
	mu     sync.Mutex
	relays map[string]*nostr.Relay
	log    logging.Logger
}

func NewNostrPool(log logging.Logger) *NostrPool {
	return &NostrPool{relays: make(map[string]*nostr.Relay), log: log}
}

func (p *NostrPool) relay(ctx context.Context, url string) (*nostr.Relay, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.relays[url]; ok && r.IsConnected() {
		return r, nil
	}

	r, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	p.relays[url] = r
	return r, nil
}

func (p *NostrPool) Query(ctx context.Context, url string, filter nostr.Filter) ([]*nostr.Event, error) {
	r, err := p.relay(ctx, url)
	if err != nil {
		return nil, err
	}
	return r.QuerySync(ctx, filter)
}

func (p *NostrPool) Publish(ctx context.Context, url string, ev *nostr.Event) error {
	r, err := p.relay(ctx, url)
	if err != nil {
		return err
	}
	return r.Publish(ctx, *ev)
}

// Close tears down every open connection.
func (p *NostrPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for url, r := range p.relays {
		if err := r.Close(); err != nil {
			p.log.Debug(context.Background(), "closing relay", "relay", url, "err", err)
		}
		delete(p.relays, url)
	}
}
