package cli

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"

	"github.com/mutestr/mutestr/internal/appdata"
	"github.com/mutestr/mutestr/internal/config"
	"github.com/mutestr/mutestr/internal/logging"
	"github.com/mutestr/mutestr/internal/relays"
	"github.com/mutestr/mutestr/internal/repositories/kvstore"
	"github.com/mutestr/mutestr/internal/signer"

	_ "modernc.org/sqlite"
)

// memPool retains published events and serves them back by kind and author.
type memPool struct {
	mu     sync.Mutex
	events []*nostr.Event
}

func (p *memPool) Query(ctx context.Context, url string, f nostr.Filter) ([]*nostr.Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*nostr.Event
	for _, ev := range p.events {
		if len(f.Kinds) > 0 && ev.Kind != f.Kinds[0] {
			continue
		}
		if len(f.Authors) > 0 && ev.PubKey != f.Authors[0] {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (p *memPool) Publish(ctx context.Context, url string, ev *nostr.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *memPool) Close() {}

func newTestApp(t *testing.T, name string) (*App, *memPool) {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE appdata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)

	cfg := &config.Config{
		RelayURLs:      []string{"wss://sim"},
		FetchTimeout:   time.Second,
		PublishTimeout: time.Second,
	}

	pool := &memPool{}
	log := logging.NewDefault()
	store := kvstore.NewSQLiteStore(db)

	s, err := signer.NewLocalSigner(nostr.GeneratePrivateKey())
	require.NoError(t, err)

	a := &App{
		cfg:     cfg,
		log:     log,
		db:      db,
		store:   store,
		ring:    signer.NewKeyRing(store),
		pool:    pool,
		gateway: relays.NewGateway(pool, log),
	}
	a.wireServices(s)
	return a, pool
}

func TestMute_AddsToWorkingCopy(t *testing.T) {
	a, _ := newTestApp(t, "cli_mute")
	ctx := context.Background()

	require.NoError(t, a.Mute(ctx, []string{"p", "abc", "spam", "bot"}, false))
	require.NoError(t, a.Mute(ctx, []string{"word", "casino"}, true))

	l, err := a.loadMuteList(ctx)
	require.NoError(t, err)
	require.Len(t, l.PubKeys, 1)
	require.Equal(t, "spam bot", l.PubKeys[0].Reason)
	require.False(t, l.PubKeys[0].Private)
	require.Len(t, l.Words, 1)
	require.True(t, l.Words[0].Private)
}

func TestMute_RefusesProtectedUser(t *testing.T) {
	a, _ := newTestApp(t, "cli_mute_protected")
	ctx := context.Background()

	require.NoError(t, a.protected.Protect(ctx, "friend", ""))
	require.NoError(t, a.Mute(ctx, []string{"p", "friend"}, false))

	l, err := a.loadMuteList(ctx)
	require.NoError(t, err)
	require.Empty(t, l.PubKeys)
}

func TestMute_DefaultPrivatePreference(t *testing.T) {
	a, _ := newTestApp(t, "cli_mute_defpriv")
	ctx := context.Background()

	require.NoError(t, a.prefs.Update(ctx, func(p *appdata.PreferencesPayload) {
		p.DefaultPrivate = true
	}))

	require.NoError(t, a.Mute(ctx, []string{"word", "quiet"}, false))

	l, err := a.loadMuteList(ctx)
	require.NoError(t, err)
	require.True(t, l.Words[0].Private)
}

func TestPushPull_RoundTripsThroughRelay(t *testing.T) {
	a, pool := newTestApp(t, "cli_pushpull")
	ctx := context.Background()

	require.NoError(t, a.Mute(ctx, []string{"p", "abc", "spam"}, false))
	require.NoError(t, a.Mute(ctx, []string{"word", "secretword"}, true))
	require.NoError(t, a.PushMutes(ctx))

	pool.mu.Lock()
	require.Len(t, pool.events, 1)
	require.NotContains(t, pool.events[0].Content, "secretword")
	pool.mu.Unlock()

	// Lose the working copy, then pull it back from the relay.
	require.NoError(t, a.store.Delete(ctx, muteListKey))
	require.NoError(t, a.PullMutes(ctx))

	l, err := a.loadMuteList(ctx)
	require.NoError(t, err)
	require.Len(t, l.PubKeys, 1)
	require.Len(t, l.Words, 1)
	require.True(t, l.Words[0].Private)
	require.Equal(t, "secretword", l.Words[0].Value)
}

func TestUnmute_RemovesAllMatches(t *testing.T) {
	a, _ := newTestApp(t, "cli_unmute")
	ctx := context.Background()

	require.NoError(t, a.Mute(ctx, []string{"word", "dup"}, false))
	require.NoError(t, a.Mute(ctx, []string{"word", "dup"}, true))
	require.NoError(t, a.Mute(ctx, []string{"word", "keep"}, false))

	require.NoError(t, a.Unmute(ctx, []string{"word", "dup"}))

	l, err := a.loadMuteList(ctx)
	require.NoError(t, err)
	require.Len(t, l.Words, 1)
	require.Equal(t, "keep", l.Words[0].Value)
}
