package entry

import (
	"bytes"
	"sort"
)

// Less implements the deterministic last-write-wins total order:
// higher clock time first, ties broken by clock id descending,
// remaining ties broken by hash bytes descending. Two entries are only
// ever equal under this order if they are the same entry.
func Less(a, b *Entry) bool {
	if a.Clock.Time() != b.Clock.Time() {
		return a.Clock.Time() > b.Clock.Time()
	}
	if a.Clock.ID() != b.Clock.ID() {
		return a.Clock.ID() > b.Clock.ID()
	}
	return bytes.Compare(a.Hash.Bytes(), b.Hash.Bytes()) > 0
}

// SortLWW orders entries in place by the last-write-wins total order,
// most recent first.
func SortLWW(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

// byLWW adapts a slice of entries to sort.Interface for callers that
// need something other than SortLWW's sort.Slice call (e.g.
// sort.Stable, or wrapping with sort.Reverse for oldest first).
type byLWW []*Entry

func (s byLWW) Len() int           { return len(s) }
func (s byLWW) Less(i, j int) bool { return Less(s[i], s[j]) }
func (s byLWW) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// SortInterface returns entries wrapped as a sort.Interface ordered by
// LWW, most recent first.
func SortInterface(entries []*Entry) sort.Interface { return byLWW(entries) }
