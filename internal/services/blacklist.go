package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutestr/mutestr/internal/appdata"
)

// Blacklist manages the always-encrypted set of outright-blocked
// identities. The set is additive from the user's point of view but the
// whole record is replaced on every sync; there are no per-item relay
// deletes.
type Blacklist struct {
	*categoryService
}

func NewBlacklist(d Deps) *Blacklist {
	return &Blacklist{newCategoryService(d, appdata.CategoryBlacklist)}
}

// Add blocks the identity and returns the new entry's id. Blocking an
// already blocked identity returns the existing entry unchanged.
func (s *Blacklist) Add(ctx context.Context, pubkey, note string) (string, error) {
	var id string
	err := updatePayload(ctx, s.categoryService, func(p *appdata.BlacklistPayload) {
		for _, e := range p.Entries {
			if e.PubKey == pubkey {
				id = e.ID
				return
			}
		}
		id = uuid.NewString()
		p.Entries = append(p.Entries, appdata.BlacklistEntry{
			ID:      id,
			PubKey:  pubkey,
			AddedAt: appdata.NowMillis(),
			Note:    note,
		})
	})
	return id, err
}

// Remove deletes the entry with the given id.
func (s *Blacklist) Remove(ctx context.Context, id string) error {
	return updatePayload(ctx, s.categoryService, func(p *appdata.BlacklistPayload) {
		kept := p.Entries[:0]
		for _, e := range p.Entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		p.Entries = kept
	})
}

// List returns every blacklist entry in insertion order.
func (s *Blacklist) List(ctx context.Context) ([]appdata.BlacklistEntry, error) {
	p, err := loadPayload[appdata.BlacklistPayload](ctx, s.categoryService)
	if err != nil {
		return nil, err
	}
	return p.Entries, nil
}
