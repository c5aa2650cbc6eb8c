package mutelist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"github.com/mutestr/mutestr/internal/common"
	"github.com/mutestr/mutestr/internal/signer"
)

// KindMuteList is the user's replaceable mute list event.
const KindMuteList = 10000

// KindListSet is the parameterized-replaceable list set kind used for
// shareable mute packs.
const KindListSet = 30000

// Mode selects how hashtag-shaped tags are interpreted when parsing.
type Mode int

const (
	// ModeMuteList treats "t" tags as muted hashtags.
	ModeMuteList Mode = iota
	// ModeListSet treats "t" tags as the pack's category labels and skips
	// them; list sets carry no hashtag entries.
	ModeListSet
)

// tagName maps each collection to its tag marker.
const (
	tagPubKey  = "p"
	tagWord    = "word"
	tagHashtag = "t"
	tagThread  = "e"
)

// ToEvent serializes the list into an unsigned kind-10000 event template.
// Public entries become one tag each; private entries are collected into a
// JSON array of the same tag tuples and encrypted to the owner's own
// identity in the event content. When no entry is private the content is
// left empty. Writing private entries without an encryption capability
// aborts with ErrEncryptionUnavailable; the codec never downgrades a
// private entry to a public tag.
func ToEvent(ctx context.Context, l *List, s signer.Signer) (*nostr.Event, error) {
	tags, private := partition(l, ModeMuteList)

	content := ""
	if len(private) > 0 {
		if s == nil || !s.HasEncryption() {
			return nil, common.ErrEncryptionUnavailable
		}
		body, err := json.Marshal(private)
		if err != nil {
			return nil, fmt.Errorf("marshaling private entries: %w", err)
		}
		content, err = s.EncryptToSelf(ctx, string(body))
		if err != nil {
			return nil, err
		}
	}

	ev := &nostr.Event{
		Kind:      KindMuteList,
		CreatedAt: nostr.Now(),
		Content:   content,
		Tags:      tags,
	}
	if s != nil {
		ev.PubKey = s.PublicKey()
	}
	return ev, nil
}

// ToSetEvent serializes the list as a shareable kind-30000 list set under
// the given identifier. Category labels are emitted as "t" tags, which is
// why list sets cannot carry hashtag entries; any Hashtags on the list are
// dropped. Label strings travel in the clear, so private entries are still
// only the p/word/e tuples.
func ToSetEvent(ctx context.Context, l *List, s signer.Signer, identifier string, labels []string) (*nostr.Event, error) {
	tags, private := partition(l, ModeListSet)

	out := nostr.Tags{{"d", identifier}}
	for _, label := range labels {
		out = append(out, nostr.Tag{tagHashtag, label})
	}
	out = append(out, tags...)

	content := ""
	if len(private) > 0 {
		if s == nil || !s.HasEncryption() {
			return nil, common.ErrEncryptionUnavailable
		}
		body, err := json.Marshal(private)
		if err != nil {
			return nil, fmt.Errorf("marshaling private entries: %w", err)
		}
		content, err = s.EncryptToSelf(ctx, string(body))
		if err != nil {
			return nil, err
		}
	}

	ev := &nostr.Event{
		Kind:      KindListSet,
		CreatedAt: nostr.Now(),
		Content:   content,
		Tags:      out,
	}
	if s != nil {
		ev.PubKey = s.PublicKey()
	}
	return ev, nil
}

// FromEvent reverses ToEvent/ToSetEvent. Public tags always parse; the
// private partition additionally needs a decryptable content, and any
// failure there (no signer, no capability, wrong key, garbled ciphertext,
// broken JSON) degrades to an empty private partition rather than an
// error, because other people's lists and stale ciphertexts are routinely
// viewed read-only.
func FromEvent(ctx context.Context, ev *nostr.Event, s signer.Signer, mode Mode) *List {
	l := &List{}

	for _, tag := range ev.Tags {
		if len(tag) < 2 || tag[1] == "" {
			continue
		}
		reason := ""
		if len(tag) > 2 {
			reason = tag[2]
		}
		appendEntry(l, tag[0], Entry{Value: tag[1], Reason: reason}, mode)
	}

	if ev.Content == "" || s == nil || !s.HasEncryption() {
		return l
	}
	plain, err := s.DecryptFromSelf(ctx, ev.Content)
	if err != nil {
		return l
	}
	var tuples [][]string
	if err := json.Unmarshal([]byte(plain), &tuples); err != nil {
		return l
	}
	for _, tuple := range tuples {
		if len(tuple) < 2 || tuple[1] == "" {
			continue
		}
		reason := ""
		if len(tuple) > 2 {
			reason = tuple[2]
		}
		appendEntry(l, tuple[0], Entry{Value: tuple[1], Reason: reason, Private: true}, mode)
	}
	return l
}

// partition splits the list into public tags and private tag tuples,
// preserving each collection's entry order. The same value appearing in
// both partitions is kept in both; deduplication is the caller's concern.
func partition(l *List, mode Mode) (nostr.Tags, [][]string) {
	var tags nostr.Tags
	var private [][]string

	add := func(marker string, entries []Entry) {
		for _, e := range entries {
			tuple := []string{marker, e.Value}
			if e.Reason != "" {
				tuple = append(tuple, e.Reason)
			}
			if e.Private {
				private = append(private, tuple)
			} else {
				tags = append(tags, nostr.Tag(tuple))
			}
		}
	}

	add(tagPubKey, l.PubKeys)
	add(tagWord, l.Words)
	if mode == ModeMuteList {
		add(tagHashtag, l.Hashtags)
	}
	add(tagThread, l.Threads)
	return tags, private
}

func appendEntry(l *List, marker string, e Entry, mode Mode) {
	switch marker {
	case tagPubKey:
		l.PubKeys = append(l.PubKeys, e)
	case tagWord:
		l.Words = append(l.Words, e)
	case tagHashtag:
		if mode == ModeMuteList {
			l.Hashtags = append(l.Hashtags, e)
		}
	case tagThread:
		l.Threads = append(l.Threads, e)
	}
}
