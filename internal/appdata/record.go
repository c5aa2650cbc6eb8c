// Package appdata implements the addressable application-data record and
// its event codec.
//
// Every synced data category is stored as a single replaceable event per
// (owner, category) pair: kind 30078 with a ["d", "mutestr:<category>"]
// identifier tag. A newer write fully supersedes an older one; records are
// never merged below whole-record granularity.
package appdata

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mutestr/mutestr/internal/common"
)

// Category identifies one synced data category.
type Category string

const (
	CategoryProtectedUsers Category = "protected-users"
	CategoryBlacklist      Category = "blacklist"
	CategoryPreferences    Category = "preferences"
	CategoryImportedPacks  Category = "imported-packs"
)

// ProfileBackupSlots is the size of the rotating ring of profile snapshots.
const ProfileBackupSlots = 3

// ProfileBackupCategory returns the category for one backup slot (0..2).
func ProfileBackupCategory(slot int) Category {
	return Category(fmt.Sprintf("profile-backup-%d", slot%ProfileBackupSlots))
}

// Categories lists every known category, backup slots included.
func Categories() []Category {
	out := []Category{
		CategoryProtectedUsers,
		CategoryBlacklist,
		CategoryPreferences,
		CategoryImportedPacks,
	}
	for i := 0; i < ProfileBackupSlots; i++ {
		out = append(out, ProfileBackupCategory(i))
	}
	return out
}

// Valid reports whether c names a known category.
func (c Category) Valid() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// Sensitive reports whether this category carries identity-sensitive data
// and therefore must always be encrypted. The policy is fixed per category,
// not user-configurable: the plaintext categories must stay readable without
// an encryption capability.
func (c Category) Sensitive() bool {
	switch c {
	case CategoryProtectedUsers, CategoryBlacklist:
		return true
	case CategoryPreferences, CategoryImportedPacks:
		return false
	}
	return strings.HasPrefix(string(c), "profile-backup-")
}

// Address returns the identifier-tag value for this category.
func (c Category) Address() string {
	return common.Namespace + ":" + string(c)
}

// CategoryFromAddress parses an identifier-tag value back into a Category.
func CategoryFromAddress(addr string) (Category, bool) {
	s, ok := strings.CutPrefix(addr, common.Namespace+":")
	if !ok {
		return "", false
	}
	c := Category(s)
	return c, c.Valid()
}

// RecordVersion is the current envelope version.
const RecordVersion = 1

// Record is the generic envelope for every synced category.
type Record struct {
	Category  Category        `json:"category"`
	Version   int             `json:"version"`
	Timestamp int64           `json:"timestamp"` // milliseconds, second-aligned
	Payload   json.RawMessage `json:"payload,omitempty"`
	Deleted   bool            `json:"deleted,omitempty"`

	// Encrypted is carried on the wire as the marker tag, not inside the
	// payload; on decode the tag is authoritative.
	Encrypted bool `json:"-"`
}

// NowMillis returns the current time in milliseconds, truncated to whole
// seconds. Relay events carry second-granularity created_at timestamps and
// that clock is canonical for conflict resolution, so local timestamps are
// second-aligned too; otherwise a record would always look newer than its
// own published copy.
func NowMillis() int64 {
	return time.Now().Unix() * 1000
}

// NewRecord builds a live record for the category with the fixed encryption
// policy applied and the payload marshaled to canonical JSON.
func NewRecord(c Category, payload any) (*Record, error) {
	r := &Record{
		Category:  c,
		Version:   RecordVersion,
		Timestamp: NowMillis(),
		Encrypted: c.Sensitive(),
	}
	if payload != nil {
		if err := r.SetPayload(payload); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewEmptyRecord synthesizes a record with no payload, used when neither a
// local nor a relay copy exists yet.
func NewEmptyRecord(c Category) *Record {
	r, _ := NewRecord(c, nil)
	return r
}

// NewTombstone builds a record marking the category as explicitly deleted.
func NewTombstone(c Category) *Record {
	r := NewEmptyRecord(c)
	r.Deleted = true
	return r
}

// SetPayload replaces the payload with the JSON encoding of v.
func (r *Record) SetPayload(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}
	r.Payload = b
	return nil
}

// UnmarshalPayload decodes the payload into v. An absent payload leaves v
// at its zero value.
func (r *Record) UnmarshalPayload(v any) error {
	if len(r.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}
	return nil
}

// Touch moves the record's timestamp to now (second-aligned). Called after
// every local mutation so the resolver sees the edit as a fresh write.
func (r *Record) Touch() {
	r.Timestamp = NowMillis()
}
