package services

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/mutestr/mutestr/internal/appdata"
	"github.com/mutestr/mutestr/internal/common"
	"github.com/mutestr/mutestr/internal/logging"
	"github.com/mutestr/mutestr/internal/repositories/kvstore"
)

const nextSlotKey = "backup.next-slot"

// ProfileBackup keeps encrypted snapshots of the user's profile metadata
// in a fixed-size ring of backup slots: a bounded history instead of an
// unbounded one. Each slot is its own addressable category; the service
// syncs all of them as one unit.
type ProfileBackup struct {
	slots   [appdata.ProfileBackupSlots]*categoryService
	store   kvstore.Store
	log     logging.Logger
	syncing atomic.Bool
}

func NewProfileBackup(d Deps) *ProfileBackup {
	b := &ProfileBackup{store: d.Store, log: d.Log.With("service", "profile-backup")}
	for i := range b.slots {
		b.slots[i] = newCategoryService(d, appdata.ProfileBackupCategory(i))
	}
	return b
}

func (b *ProfileBackup) Name() string { return "profile-backup" }

// SyncWithRelay syncs every slot. Slot failures are collected, not
// short-circuited, so one bad slot cannot strand the others.
func (b *ProfileBackup) SyncWithRelay(ctx context.Context, relayURLs []string) error {
	if !b.syncing.CompareAndSwap(false, true) {
		return common.ErrSyncInProgress
	}
	defer b.syncing.Store(false)

	var firstErr error
	for _, slot := range b.slots {
		if err := slot.SyncWithRelay(ctx, relayURLs); err != nil {
			b.log.Warn(ctx, "backup slot sync failed", "slot", slot.Name(), "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Save writes a new snapshot into the next ring slot and advances the
// ring, overwriting the oldest snapshot once the ring is full.
func (b *ProfileBackup) Save(ctx context.Context, profileContent string) error {
	slot, err := b.nextSlot(ctx)
	if err != nil {
		return err
	}

	err = updatePayload(ctx, b.slots[slot], func(p *appdata.ProfileBackupPayload) {
		p.Content = profileContent
		p.SavedAt = appdata.NowMillis()
	})
	if err != nil {
		return err
	}

	next := (slot + 1) % appdata.ProfileBackupSlots
	return b.store.Set(ctx, nextSlotKey, []byte(strconv.Itoa(next)))
}

// Latest returns the most recent snapshot across all slots, or nil when no
// backup has ever been taken.
func (b *ProfileBackup) Latest(ctx context.Context) (*appdata.ProfileBackupPayload, error) {
	var best *appdata.ProfileBackupPayload
	for _, slot := range b.slots {
		p, err := loadPayload[appdata.ProfileBackupPayload](ctx, slot)
		if err != nil {
			return nil, err
		}
		if p.SavedAt == 0 {
			continue
		}
		if best == nil || p.SavedAt > best.SavedAt {
			snapshot := p
			best = &snapshot
		}
	}
	return best, nil
}

// PublishToRelay force-publishes every slot that holds a snapshot.
func (b *ProfileBackup) PublishToRelay(ctx context.Context, relayURLs []string) error {
	var firstErr error
	for _, slot := range b.slots {
		rec, err := slot.LoadLocal(ctx)
		if err != nil || rec == nil {
			continue
		}
		if err := slot.PublishToRelay(ctx, relayURLs); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PublishAsync runs PublishToRelay in the background, detached from the
// caller's cancellation. Failures are logged, not returned.
func (b *ProfileBackup) PublishAsync(ctx context.Context, relayURLs []string) {
	bctx := context.WithoutCancel(ctx)
	go func() {
		if err := b.PublishToRelay(bctx, relayURLs); err != nil {
			b.log.Warn(bctx, "background publish failed", "err", err)
		}
	}()
}

func (b *ProfileBackup) nextSlot(ctx context.Context) (int, error) {
	raw, err := b.store.Get(ctx, nextSlotKey)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 || n >= appdata.ProfileBackupSlots {
		return 0, nil
	}
	return n, nil
}
