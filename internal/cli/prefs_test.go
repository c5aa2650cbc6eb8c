package cli

import (
	"context"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"

	"github.com/mutestr/mutestr/internal/mutelist"
	"github.com/mutestr/mutestr/internal/signer"
)

func publishPack(t *testing.T, pool *memPool, identifier string, l *mutelist.List) string {
	t.Helper()
	author, err := signer.NewLocalSigner(nostr.GeneratePrivateKey())
	require.NoError(t, err)

	ctx := context.Background()
	ev, err := mutelist.ToSetEvent(ctx, l, author, identifier, []string{"spam"})
	require.NoError(t, err)
	require.NoError(t, author.Sign(ctx, ev))
	require.NoError(t, pool.Publish(ctx, "wss://sim", ev))
	return author.PublicKey()
}

func TestImportPack_MergesAndSkipsProtected(t *testing.T) {
	a, pool := newTestApp(t, "cli_import")
	ctx := context.Background()

	author := publishPack(t, pool, "spam-pack", &mutelist.List{
		PubKeys: []mutelist.Entry{
			{Value: "spammer1", Reason: "bot"},
			{Value: "friend"},
		},
		Words: []mutelist.Entry{{Value: "casino"}},
	})

	require.NoError(t, a.protected.Protect(ctx, "friend", "never mute"))
	require.NoError(t, a.ImportPack(ctx, []string{author, "spam-pack"}))

	l, err := a.loadMuteList(ctx)
	require.NoError(t, err)
	require.Len(t, l.PubKeys, 1)
	require.Equal(t, "spammer1", l.PubKeys[0].Value)
	require.Len(t, l.Words, 1)

	packs, err := a.packs.List(ctx)
	require.NoError(t, err)
	require.Len(t, packs, 1)
	require.Equal(t, author+":spam-pack", packs[0].Address)

	// Re-importing adds nothing new and keeps a single pack entry.
	require.NoError(t, a.ImportPack(ctx, []string{author, "spam-pack"}))
	l, err = a.loadMuteList(ctx)
	require.NoError(t, err)
	require.Len(t, l.PubKeys, 1)

	packs, err = a.packs.List(ctx)
	require.NoError(t, err)
	require.Len(t, packs, 1)
}

func TestImportPack_NotFound(t *testing.T) {
	a, _ := newTestApp(t, "cli_import_missing")
	ctx := context.Background()

	require.NoError(t, a.ImportPack(ctx, []string{"nobody", "no-pack"}))

	packs, err := a.packs.List(ctx)
	require.NoError(t, err)
	require.Empty(t, packs)
}
