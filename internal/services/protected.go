package services

import (
	"context"

	"github.com/mutestr/mutestr/internal/appdata"
)

// ProtectedUsers manages the always-encrypted set of identities that must
// never be muted by imported packs or bulk actions.
type ProtectedUsers struct {
	*categoryService
}

func NewProtectedUsers(d Deps) *ProtectedUsers {
	return &ProtectedUsers{newCategoryService(d, appdata.CategoryProtectedUsers)}
}

// Protect adds the identity to the protected set. Adding an already
// protected identity updates its note and leaves the set otherwise
// unchanged.
func (s *ProtectedUsers) Protect(ctx context.Context, pubkey, note string) error {
	return updatePayload(ctx, s.categoryService, func(p *appdata.ProtectedUsersPayload) {
		for i, u := range p.Users {
			if u.PubKey == pubkey {
				p.Users[i].Note = note
				return
			}
		}
		p.Users = append(p.Users, appdata.ProtectedUser{
			PubKey:  pubkey,
			AddedAt: appdata.NowMillis(),
			Note:    note,
		})
	})
}

// Unprotect removes the identity from the protected set.
func (s *ProtectedUsers) Unprotect(ctx context.Context, pubkey string) error {
	return updatePayload(ctx, s.categoryService, func(p *appdata.ProtectedUsersPayload) {
		kept := p.Users[:0]
		for _, u := range p.Users {
			if u.PubKey != pubkey {
				kept = append(kept, u)
			}
		}
		p.Users = kept
	})
}

// IsProtected reports whether the identity is in the protected set.
func (s *ProtectedUsers) IsProtected(ctx context.Context, pubkey string) (bool, error) {
	p, err := loadPayload[appdata.ProtectedUsersPayload](ctx, s.categoryService)
	if err != nil {
		return false, err
	}
	for _, u := range p.Users {
		if u.PubKey == pubkey {
			return true, nil
		}
	}
	return false, nil
}

// List returns the protected identities in insertion order.
func (s *ProtectedUsers) List(ctx context.Context) ([]appdata.ProtectedUser, error) {
	p, err := loadPayload[appdata.ProtectedUsersPayload](ctx, s.categoryService)
	if err != nil {
		return nil, err
	}
	return p.Users, nil
}
