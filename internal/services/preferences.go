package services

import (
	"context"

	"github.com/mutestr/mutestr/internal/appdata"
)

// Preferences manages the plaintext client-settings category. It stays
// plaintext by policy so the settings remain usable without an active
// encryption capability.
type Preferences struct {
	*categoryService
}

func NewPreferences(d Deps) *Preferences {
	return &Preferences{newCategoryService(d, appdata.CategoryPreferences)}
}

// Get returns the current settings, zero-valued when never written.
func (s *Preferences) Get(ctx context.Context) (appdata.PreferencesPayload, error) {
	return loadPayload[appdata.PreferencesPayload](ctx, s.categoryService)
}

// Update applies fn to the settings and persists the result as a fresh
// local write.
func (s *Preferences) Update(ctx context.Context, fn func(*appdata.PreferencesPayload)) error {
	return updatePayload(ctx, s.categoryService, fn)
}
