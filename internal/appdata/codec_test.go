package appdata

import (
	"context"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"

	"github.com/mutestr/mutestr/internal/common"
	"github.com/mutestr/mutestr/internal/signer"
)

func newTestSigner(t *testing.T) *signer.LocalSigner {
	t.Helper()
	s, err := signer.NewLocalSigner(nostr.GeneratePrivateKey())
	require.NoError(t, err)
	return s
}

// noEncSigner has an identity but no encrypt-to-self capability.
type noEncSigner struct {
	*signer.LocalSigner
}

func (s *noEncSigner) HasEncryption() bool { return false }

func TestEncodeDecode_PlaintextRoundTrip(t *testing.T) {
	c := NewCodec(newTestSigner(t))
	ctx := context.Background()

	rec, err := NewRecord(CategoryPreferences, PreferencesPayload{ShowReasons: true})
	require.NoError(t, err)
	require.False(t, rec.Encrypted)

	ev, err := c.Encode(ctx, rec)
	require.NoError(t, err)
	require.Equal(t, Kind, ev.Kind)

	d := ev.Tags.GetFirst([]string{"d"})
	require.NotNil(t, d)
	require.Equal(t, "mutestr:preferences", d.Value())

	enc := ev.Tags.GetFirst([]string{"encrypted"})
	require.NotNil(t, enc)
	require.Equal(t, "false", enc.Value())

	got, err := c.Decode(ctx, ev)
	require.NoError(t, err)
	require.Equal(t, CategoryPreferences, got.Category)
	require.Equal(t, rec.Timestamp, got.Timestamp)

	var p PreferencesPayload
	require.NoError(t, got.UnmarshalPayload(&p))
	require.True(t, p.ShowReasons)
}

func TestEncodeDecode_EncryptedRoundTrip(t *testing.T) {
	c := NewCodec(newTestSigner(t))
	ctx := context.Background()

	rec, err := NewRecord(CategoryBlacklist, BlacklistPayload{
		Entries: []BlacklistEntry{{ID: "1", PubKey: "abc", AddedAt: 1}},
	})
	require.NoError(t, err)
	require.True(t, rec.Encrypted)

	ev, err := c.Encode(ctx, rec)
	require.NoError(t, err)
	require.NotContains(t, ev.Content, "abc")

	enc := ev.Tags.GetFirst([]string{"encrypted"})
	require.NotNil(t, enc)
	require.Equal(t, "true", enc.Value())

	got, err := c.Decode(ctx, ev)
	require.NoError(t, err)
	require.True(t, got.Encrypted)

	var p BlacklistPayload
	require.NoError(t, got.UnmarshalPayload(&p))
	require.Len(t, p.Entries, 1)
	require.Equal(t, "abc", p.Entries[0].PubKey)
}

func TestEncode_EncryptedWithoutCapabilityAborts(t *testing.T) {
	c := NewCodec(&noEncSigner{newTestSigner(t)})

	rec, err := NewRecord(CategoryProtectedUsers, ProtectedUsersPayload{})
	require.NoError(t, err)

	_, err = c.Encode(context.Background(), rec)
	require.ErrorIs(t, err, common.ErrEncryptionUnavailable)
}

func TestDecode_MalformedContentIsSoftFailure(t *testing.T) {
	s := newTestSigner(t)
	c := NewCodec(s)

	ev := &nostr.Event{
		Kind:      Kind,
		CreatedAt: nostr.Now(),
		Content:   "{not json",
		Tags: nostr.Tags{
			{"d", CategoryPreferences.Address()},
			{"encrypted", "false"},
		},
	}

	_, err := c.Decode(context.Background(), ev)
	require.ErrorIs(t, err, common.ErrMalformedPayload)
}

func TestDecode_UndecryptableContent(t *testing.T) {
	c := NewCodec(newTestSigner(t))

	ev := &nostr.Event{
		Kind:      Kind,
		CreatedAt: nostr.Now(),
		Content:   "garbage-ciphertext",
		Tags: nostr.Tags{
			{"d", CategoryBlacklist.Address()},
			{"encrypted", "true"},
		},
	}

	_, err := c.Decode(context.Background(), ev)
	require.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestDecode_TimestampDerivedFromCreatedAt(t *testing.T) {
	c := NewCodec(newTestSigner(t))
	ctx := context.Background()

	rec, err := NewRecord(CategoryPreferences, PreferencesPayload{})
	require.NoError(t, err)
	rec.Timestamp = 1_700_000_000_000

	ev, err := c.Encode(ctx, rec)
	require.NoError(t, err)

	// A lying payload timestamp must not survive decoding.
	ev.CreatedAt = nostr.Timestamp(1_600_000_000)

	got, err := c.Decode(ctx, ev)
	require.NoError(t, err)
	require.Equal(t, int64(1_600_000_000_000), got.Timestamp)
}

func TestCategory_AddressRoundTrip(t *testing.T) {
	for _, cat := range Categories() {
		got, ok := CategoryFromAddress(cat.Address())
		require.True(t, ok, cat)
		require.Equal(t, cat, got)
	}

	_, ok := CategoryFromAddress("other-ns:preferences")
	require.False(t, ok)
	_, ok = CategoryFromAddress("mutestr:unknown")
	require.False(t, ok)
}

func TestCategory_EncryptionPolicy(t *testing.T) {
	require.True(t, CategoryProtectedUsers.Sensitive())
	require.True(t, CategoryBlacklist.Sensitive())
	require.True(t, ProfileBackupCategory(1).Sensitive())
	require.False(t, CategoryPreferences.Sensitive())
	require.False(t, CategoryImportedPacks.Sensitive())
}
