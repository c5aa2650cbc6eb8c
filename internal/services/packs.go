package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutestr/mutestr/internal/appdata"
)

// ImportedPacks tracks which shared mute packs the user has applied, in
// plaintext by policy (pack addresses are public data anyway).
type ImportedPacks struct {
	*categoryService
}

func NewImportedPacks(d Deps) *ImportedPacks {
	return &ImportedPacks{newCategoryService(d, appdata.CategoryImportedPacks)}
}

// MarkImported records that the pack at the given address was applied.
// Re-importing a known pack refreshes its title and import time.
func (s *ImportedPacks) MarkImported(ctx context.Context, address, title string) (appdata.ImportedPack, error) {
	var pack appdata.ImportedPack
	err := updatePayload(ctx, s.categoryService, func(p *appdata.ImportedPacksPayload) {
		for i, existing := range p.Packs {
			if existing.Address == address {
				p.Packs[i].Title = title
				p.Packs[i].ImportedAt = appdata.NowMillis()
				pack = p.Packs[i]
				return
			}
		}
		pack = appdata.ImportedPack{
			ID:         uuid.NewString(),
			Address:    address,
			Title:      title,
			ImportedAt: appdata.NowMillis(),
		}
		p.Packs = append(p.Packs, pack)
	})
	return pack, err
}

// Forget drops the pack with the given address from the tracking list.
func (s *ImportedPacks) Forget(ctx context.Context, address string) error {
	return updatePayload(ctx, s.categoryService, func(p *appdata.ImportedPacksPayload) {
		kept := p.Packs[:0]
		for _, pk := range p.Packs {
			if pk.Address != address {
				kept = append(kept, pk)
			}
		}
		p.Packs = kept
	})
}

// List returns every tracked pack in import order.
func (s *ImportedPacks) List(ctx context.Context) ([]appdata.ImportedPack, error) {
	p, err := loadPayload[appdata.ImportedPacksPayload](ctx, s.categoryService)
	if err != nil {
		return nil, err
	}
	return p.Packs, nil
}
