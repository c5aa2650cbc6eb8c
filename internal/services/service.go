// Package services implements the per-category data services: each owns
// the local persistence of one synced category and its mapping to and from
// the generic record envelope.
//
// Between network syncs the local store is authoritative; the relay set is
// the authoritative shared store across devices. Only the resolver's
// verdict may overwrite one with the other.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mutestr/mutestr/internal/appdata"
	"github.com/mutestr/mutestr/internal/common"
	"github.com/mutestr/mutestr/internal/logging"
	"github.com/mutestr/mutestr/internal/relays"
	"github.com/mutestr/mutestr/internal/repositories/kvstore"
	"github.com/mutestr/mutestr/internal/signer"
	"github.com/mutestr/mutestr/internal/syncx"
)

// Deps bundles the collaborators shared by every category service.
type Deps struct {
	Store          kvstore.Store
	Gateway        *relays.Gateway
	Signer         signer.Signer
	Log            logging.Logger
	FetchTimeout   time.Duration
	PublishTimeout time.Duration
}

// categoryService is the generic engine behind each typed service: local
// load/save of the category's record plus the sync and publish flows.
type categoryService struct {
	category   appdata.Category
	store      kvstore.Store
	codec      *appdata.Codec
	gateway    *relays.Gateway
	signer     signer.Signer
	log        logging.Logger
	timeout    time.Duration
	pubTimeout time.Duration

	// syncing is the per-service single-flight guard: overlapping syncs on
	// the same category risk publishing a stale local snapshot over a relay
	// value a concurrent call already adopted.
	syncing atomic.Bool
}

func newCategoryService(d Deps, c appdata.Category) *categoryService {
	return &categoryService{
		category:   c,
		store:      d.Store,
		codec:      appdata.NewCodec(d.Signer),
		gateway:    d.Gateway,
		signer:     d.Signer,
		log:        d.Log.With("category", string(c)),
		timeout:    d.FetchTimeout,
		pubTimeout: d.PublishTimeout,
	}
}

func (s *categoryService) Name() string { return string(s.category) }

func (s *categoryService) localKey() string {
	return "record:" + string(s.category)
}

// LoadLocal returns the locally stored record, or nil when the category has
// never been written on this device.
func (s *categoryService) LoadLocal(ctx context.Context) (*appdata.Record, error) {
	raw, err := s.store.Get(ctx, s.localKey())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var rec appdata.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: local record: %v", common.ErrMalformedPayload, err)
	}
	rec.Encrypted = s.category.Sensitive()
	return &rec, nil
}

// SaveLocal persists the record as the category's single local copy.
func (s *categoryService) SaveLocal(ctx context.Context, rec *appdata.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling local record: %w", err)
	}
	return s.store.Set(ctx, s.localKey(), raw)
}

// SyncWithRelay reconciles the local record with the newest relay copy.
// Re-entry while a sync is running returns ErrSyncInProgress (a no-op
// signal, not a failure). Local storage is overwritten only when the
// resolver rules the relay or merged copy the winner.
func (s *categoryService) SyncWithRelay(ctx context.Context, relayURLs []string) error {
	if !s.syncing.CompareAndSwap(false, true) {
		return common.ErrSyncInProgress
	}
	defer s.syncing.Store(false)

	local, err := s.LoadLocal(ctx)
	if err != nil {
		return err
	}

	remote := s.fetchRemote(ctx, relayURLs)

	out := syncx.Resolve(s.category, local, remote)

	// Local storage is written only on a relay/merged verdict. In particular
	// the record synthesized when both sides are absent is never persisted:
	// a later sync would mistake it for a user write and owe a publish for a
	// category nobody ever touched.
	switch out.Source {
	case syncx.SourceRelay, syncx.SourceMerged:
		if err := s.SaveLocal(ctx, out.Record); err != nil {
			return err
		}
	}

	if out.NeedsPublish {
		return s.publishRecord(ctx, out.Record, relayURLs)
	}
	return nil
}

// fetchRemote fetches and decodes the newest relay record. Malformed or
// undecryptable relay data is expected; it degrades to "no remote copy".
func (s *categoryService) fetchRemote(ctx context.Context, relayURLs []string) *appdata.Record {
	filter := appdata.Filter(s.signer.PublicKey(), s.category)

	ev, err := s.gateway.FetchLatest(ctx, filter, relayURLs, s.timeout)
	if err != nil || ev == nil {
		return nil
	}

	rec, err := s.codec.Decode(ctx, ev)
	if err != nil {
		s.log.Warn(ctx, "skipping undecodable relay record", "err", err)
		return nil
	}
	return rec
}

// PublishToRelay force-publishes the current local state regardless of
// relay state. Used after a local mutation to broadcast the change without
// waiting for the next full sync.
func (s *categoryService) PublishToRelay(ctx context.Context, relayURLs []string) error {
	rec, err := s.LoadLocal(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = appdata.NewEmptyRecord(s.category)
		if err := s.SaveLocal(ctx, rec); err != nil {
			return err
		}
	}
	return s.publishRecord(ctx, rec, relayURLs)
}

// PublishAsync is the fire-and-forget variant of PublishToRelay: the user's
// action must not block on the network, so errors go to the logger instead
// of the caller. The publish is detached from the caller's cancellation.
func (s *categoryService) PublishAsync(ctx context.Context, relayURLs []string) {
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := s.PublishToRelay(bg, relayURLs); err != nil {
			s.log.Error(bg, "background publish failed", "err", err)
		}
	}()
}

// Tombstone publishes an explicit deletion record for the category and
// clears the local copy.
func (s *categoryService) Tombstone(ctx context.Context, relayURLs []string) error {
	rec := appdata.NewTombstone(s.category)
	if err := s.publishRecord(ctx, rec, relayURLs); err != nil {
		return err
	}
	return s.store.Delete(ctx, s.localKey())
}

func (s *categoryService) publishRecord(ctx context.Context, rec *appdata.Record, relayURLs []string) error {
	ev, err := s.codec.Encode(ctx, rec)
	if err != nil {
		return err
	}
	if err := s.signer.Sign(ctx, ev); err != nil {
		return err
	}

	timeout := s.pubTimeout
	if timeout <= 0 {
		timeout = relays.DefaultPublishTimeout
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.gateway.Publish(pctx, ev, relayURLs)
	if err != nil {
		return err
	}
	s.log.Info(ctx, "record published",
		"accepted", res.Accepted, "rejected", res.Rejected)
	return nil
}

// updatePayload applies fn to the category's typed payload, stamps the
// record as a fresh local write, and saves it.
func updatePayload[P any](ctx context.Context, s *categoryService, fn func(*P)) error {
	rec, err := s.LoadLocal(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = appdata.NewEmptyRecord(s.category)
	}

	var p P
	if err := rec.UnmarshalPayload(&p); err != nil {
		// A corrupt local payload is replaced rather than wedging every
		// future mutation.
		s.log.Warn(ctx, "resetting corrupt local payload", "err", err)
		p = *new(P)
	}

	fn(&p)

	if err := rec.SetPayload(p); err != nil {
		return err
	}
	rec.Deleted = false
	rec.Touch()
	return s.SaveLocal(ctx, rec)
}

// loadPayload returns the category's typed payload, zero-valued when the
// category has no local record yet.
func loadPayload[P any](ctx context.Context, s *categoryService) (P, error) {
	var p P
	rec, err := s.LoadLocal(ctx)
	if err != nil && !errors.Is(err, common.ErrMalformedPayload) {
		return p, err
	}
	if rec == nil || err != nil {
		return p, nil
	}
	if err := rec.UnmarshalPayload(&p); err != nil {
		return *new(P), nil
	}
	return p, nil
}
