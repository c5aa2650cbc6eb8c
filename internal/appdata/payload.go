package appdata

// Typed payload shapes, one per category. The codec and resolver are
// generic over Record; services stay strongly typed over these.

// ProtectedUser marks an identity the user never wants muted by an
// imported pack or bulk action.
type ProtectedUser struct {
	PubKey  string `json:"pubkey"`
	AddedAt int64  `json:"added_at"`
	Note    string `json:"note,omitempty"`
}

type ProtectedUsersPayload struct {
	Users []ProtectedUser `json:"users"`
}

// BlacklistEntry is an identity the user blocks outright.
type BlacklistEntry struct {
	ID      string `json:"id"`
	PubKey  string `json:"pubkey"`
	AddedAt int64  `json:"added_at"`
	Note    string `json:"note,omitempty"`
}

type BlacklistPayload struct {
	Entries []BlacklistEntry `json:"entries"`
}

// PreferencesPayload holds non-sensitive client settings.
type PreferencesPayload struct {
	DefaultPrivate bool     `json:"default_private"`
	ShowReasons    bool     `json:"show_reasons"`
	RelayURLs      []string `json:"relay_urls,omitempty"`
}

// ImportedPack tracks a mute pack the user has applied, so re-imports can
// be detected and pack removals can be offered.
type ImportedPack struct {
	ID         string `json:"id"`
	Address    string `json:"address"`
	Title      string `json:"title,omitempty"`
	ImportedAt int64  `json:"imported_at"`
}

type ImportedPacksPayload struct {
	Packs []ImportedPack `json:"packs"`
}

// ProfileBackupPayload is one historical snapshot of the user's profile
// metadata (the raw kind-0 content).
type ProfileBackupPayload struct {
	Content string `json:"content"`
	SavedAt int64  `json:"saved_at"`
}
