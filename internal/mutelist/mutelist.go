// Package mutelist converts between the four-collection mute list and its
// single signed event: public entries as per-type tags, private entries as
// an encrypted JSON array of the same tag tuples in the event content.
package mutelist

// Entry is one muted item. Private controls the storage partition (tag vs.
// encrypted content), not logical membership: the same value may appear in
// both partitions and the codec never deduplicates.
type Entry struct {
	Value   string `json:"value"`
	Reason  string `json:"reason,omitempty"`
	Private bool   `json:"private"`
}

// List is the in-memory working copy of the user's mute list. It is
// mutated freely offline and only published explicitly, replacing the
// previous record wholesale.
type List struct {
	PubKeys  []Entry `json:"pubkeys"`
	Words    []Entry `json:"words"`
	Hashtags []Entry `json:"hashtags"`
	Threads  []Entry `json:"threads"`
}

// IsEmpty reports whether no collection holds any entry.
func (l *List) IsEmpty() bool {
	return len(l.PubKeys) == 0 && len(l.Words) == 0 &&
		len(l.Hashtags) == 0 && len(l.Threads) == 0
}

// Size returns the total entry count across all four collections.
func (l *List) Size() int {
	return len(l.PubKeys) + len(l.Words) + len(l.Hashtags) + len(l.Threads)
}
