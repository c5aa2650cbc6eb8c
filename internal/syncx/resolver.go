// Package syncx reconciles local and relay state: a pure last-writer-wins
// resolver over whole records, and a manager that runs every category
// service's sync in parallel.
package syncx

import "github.com/mutestr/mutestr/internal/appdata"

// Source tags which side a resolved record came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRelay  Source = "relay"
	SourceMerged Source = "merged" // timestamp tie; relay copy adopted
)

// Outcome is the resolver's decision for one category.
type Outcome struct {
	Record *appdata.Record
	Source Source

	// NeedsPublish signals that the reconciled record must be pushed back
	// to the relays (only ever true when the local copy won).
	NeedsPublish bool
}

// Resolve decides which of the local and relay records (either nullable) is
// authoritative for the category.
//
// The policy is last-writer-wins at whole-record granularity: relays give
// no transactional cross-field guarantees, so record-level replace is the
// only conflict policy that is both simple and convergent. On an exact
// timestamp tie the relay copy wins, so perfectly synced devices converge
// instead of publishing back and forth.
func Resolve(category appdata.Category, local, relay *appdata.Record) Outcome {
	switch {
	case local == nil && relay == nil:
		return Outcome{
			Record: appdata.NewEmptyRecord(category),
			Source: SourceLocal,
		}

	case relay == nil:
		return Outcome{Record: local, Source: SourceLocal, NeedsPublish: true}

	case local == nil:
		return Outcome{Record: relay, Source: SourceRelay}
	}

	switch {
	case local.Timestamp > relay.Timestamp:
		return Outcome{Record: local, Source: SourceLocal, NeedsPublish: true}
	case relay.Timestamp > local.Timestamp:
		return Outcome{Record: relay, Source: SourceRelay}
	default:
		return Outcome{Record: relay, Source: SourceMerged}
	}
}
