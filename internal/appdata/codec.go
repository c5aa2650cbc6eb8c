package appdata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"github.com/mutestr/mutestr/internal/common"
	"github.com/mutestr/mutestr/internal/signer"
)

// Kind is the replaceable application-specific-data event kind carrying
// every addressable record.
const Kind = nostr.KindApplicationSpecificData

const (
	tagIdentifier = "d"
	tagEncrypted  = "encrypted"
)

// Filter matches the live record for one (owner, category) pair.
func Filter(owner string, c Category) nostr.Filter {
	return nostr.Filter{
		Kinds:   []int{Kind},
		Authors: []string{owner},
		Tags:    nostr.TagMap{tagIdentifier: []string{c.Address()}},
		Limit:   1,
	}
}

// Codec converts records to signable event templates and back.
type Codec struct {
	signer signer.Signer
}

func NewCodec(s signer.Signer) *Codec {
	return &Codec{signer: s}
}

// Encode serializes the record to canonical JSON and wraps it in an
// unsigned event template. Sensitive records are encrypted to the owner's
// own identity; if the active identity has no encryption capability the
// encode aborts with ErrEncryptionUnavailable rather than downgrading to
// plaintext.
func (c *Codec) Encode(ctx context.Context, rec *Record) (*nostr.Event, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}

	content := string(body)
	if rec.Encrypted {
		if !c.signer.HasEncryption() {
			return nil, common.ErrEncryptionUnavailable
		}
		content, err = c.signer.EncryptToSelf(ctx, content)
		if err != nil {
			return nil, err
		}
	}

	marker := "false"
	if rec.Encrypted {
		marker = "true"
	}

	return &nostr.Event{
		PubKey:    c.signer.PublicKey(),
		Kind:      Kind,
		CreatedAt: nostr.Timestamp(rec.Timestamp / 1000),
		Content:   content,
		Tags: nostr.Tags{
			{tagIdentifier, rec.Category.Address()},
			{tagEncrypted, marker},
		},
	}, nil
}

// Decode reverses Encode. Decryption problems yield ErrDecryptionFailed and
// JSON parse problems yield ErrMalformedPayload; callers treat both as "no
// data" because malformed records on relays are expected.
//
// The comparison timestamp is always re-derived from the signed event's
// created_at; the in-payload value is never trusted, so a forged payload
// timestamp cannot win conflict resolution.
func (c *Codec) Decode(ctx context.Context, ev *nostr.Event) (*Record, error) {
	if ev.Kind != Kind {
		return nil, fmt.Errorf("%w: unexpected kind %d", common.ErrMalformedPayload, ev.Kind)
	}

	encrypted := false
	if tag := ev.Tags.GetFirst([]string{tagEncrypted}); tag != nil {
		encrypted = tag.Value() == "true"
	}

	content := ev.Content
	if encrypted {
		if c.signer == nil || !c.signer.HasEncryption() {
			return nil, fmt.Errorf("%w: no decryption capability", common.ErrDecryptionFailed)
		}
		var err error
		content, err = c.signer.DecryptFromSelf(ctx, content)
		if err != nil {
			return nil, err
		}
	}

	var rec Record
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}

	if tag := ev.Tags.GetFirst([]string{tagIdentifier}); tag != nil {
		if cat, ok := CategoryFromAddress(tag.Value()); ok {
			rec.Category = cat
		}
	}
	if !rec.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrMalformedPayload, rec.Category)
	}

	rec.Encrypted = encrypted
	rec.Timestamp = int64(ev.CreatedAt) * 1000

	return &rec, nil
}
