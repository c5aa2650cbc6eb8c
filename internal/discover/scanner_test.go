package discover

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"

	"github.com/mutestr/mutestr/internal/logging"
	"github.com/mutestr/mutestr/internal/relays"
)

// listPool serves a canned public mute list per owner.
type listPool struct {
	mu      sync.Mutex
	lists   map[string]nostr.Tags
	queried []string
	delay   time.Duration
}

func (p *listPool) Query(ctx context.Context, url string, f nostr.Filter) ([]*nostr.Event, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(f.Authors) != 1 {
		return nil, nil
	}
	owner := f.Authors[0]
	p.queried = append(p.queried, owner)
	tags, ok := p.lists[owner]
	if !ok {
		return nil, nil
	}
	return []*nostr.Event{{
		Kind:      10000,
		PubKey:    owner,
		CreatedAt: nostr.Now(),
		Tags:      tags,
	}}, nil
}

func (p *listPool) Publish(ctx context.Context, url string, ev *nostr.Event) error { return nil }
func (p *listPool) Close()                                                         {}

func newScanner(p *listPool, timeout time.Duration) *Scanner {
	log := logging.NewDefault()
	return NewScanner(relays.NewGateway(p, log), log, timeout)
}

func TestScan_CollectsPublicLists(t *testing.T) {
	pool := &listPool{lists: map[string]nostr.Tags{
		"alice": {{"p", "spammer1"}, {"word", "casino"}},
		"carol": {{"p", "spammer2"}},
	}}
	s := newScanner(pool, time.Second)

	results, err := s.Scan(context.Background(), []string{"alice", "bob", "carol"}, []string{"wss://sim"})
	require.NoError(t, err)
	require.Len(t, results, 2) // bob has no list

	require.Equal(t, "alice", results[0].Owner)
	require.Len(t, results[0].List.PubKeys, 1)
	require.Len(t, results[0].List.Words, 1)
	require.Equal(t, "carol", results[1].Owner)
}

func TestScan_CancellationKeepsPartialResults(t *testing.T) {
	pool := &listPool{
		lists: map[string]nostr.Tags{
			"alice": {{"p", "x"}},
			"bob":   {{"p", "y"}},
		},
		delay: 50 * time.Millisecond,
	}
	s := newScanner(pool, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(75 * time.Millisecond)
		cancel()
	}()

	results, err := s.Scan(ctx, []string{"alice", "bob", "carol", "dave"}, []string{"wss://sim"})
	require.ErrorIs(t, err, context.Canceled)

	// The first owner completed before the cancel; the in-flight second one
	// was allowed to finish; the tail was never fetched.
	require.NotEmpty(t, results)
	require.LessOrEqual(t, len(results), 2)

	pool.mu.Lock()
	defer pool.mu.Unlock()
	require.NotContains(t, pool.queried, "dave")
}

func TestScan_InFlightFetchOutlivesCancel(t *testing.T) {
	pool := &listPool{
		lists: map[string]nostr.Tags{"alice": {{"p", "x"}}},
		delay: 100 * time.Millisecond,
	}
	s := newScanner(pool, time.Second)

	// Cancelled before the only fetch can finish: the detached per-owner
	// context lets it run to completion anyway.
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	results, err := s.Scan(ctx, []string{"alice"}, []string{"wss://sim"})
	require.NoError(t, err)
	require.Len(t, results, 1)
}
