package ipfslog

import (
	"sort"

	"github.com/ipfs/go-cid"

	"github.com/daviddao/ipfslog/pkg/entry"
)

// FindHeads returns the entries in entries that no other entry in the
// same set names as a predecessor — the heads of the DAG restricted
// to exactly this entry set. The result is sorted by clock id
// descending: the set, not this order, is what callers should rely on
// for correctness, but a deterministic order makes head listings
// reproducible.
func FindHeads(entries []*Entry) []*Entry {
	referenced := make(map[string]struct{})
	byHash := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		byHash[e.Hash.String()] = e
		for _, n := range e.Next {
			referenced[n.String()] = struct{}{}
		}
	}
	var heads []*Entry
	for h, e := range byHash {
		if _, ok := referenced[h]; !ok {
			heads = append(heads, e)
		}
	}
	sort.Slice(heads, func(i, j int) bool {
		return heads[i].Clock.ID() > heads[j].Clock.ID()
	})
	return heads
}

// FindTails returns the entries in entries that have no predecessor
// present within the same set — either they have no Next at all, or
// every hash in Next points outside the set. The result is
// deduplicated by hash and sorted by the last-write-wins comparator
// (clock, then id, then hash).
func FindTails(entries []*Entry) []*Entry {
	byHash := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		byHash[e.Hash.String()] = e
	}

	seen := make(map[string]struct{}, len(entries))
	var tails []*Entry
	addTail := func(e *Entry) {
		key := e.Hash.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		tails = append(tails, e)
	}

	for _, e := range entries {
		if len(e.Next) == 0 {
			addTail(e)
			continue
		}
		hasKnownPredecessor := false
		for _, n := range e.Next {
			if _, ok := byHash[n.String()]; ok {
				hasKnownPredecessor = true
				break
			}
		}
		if !hasKnownPredecessor {
			addTail(e)
		}
	}

	entry.SortLWW(tails)
	return tails
}

// FindTailHashes returns the predecessor hashes referenced by entries
// that point outside the given entry set — the boundary a partial log
// would need to fetch to become complete. Hashes are deduplicated and
// returned in reverse of the order they were first encountered, which
// approximates oldest-first since entries are typically walked
// newest-first.
func FindTailHashes(entries []*Entry) []string {
	byHash := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		byHash[e.Hash.String()] = struct{}{}
	}

	seen := make(map[string]struct{})
	var hashes []string
	for _, e := range entries {
		for _, n := range e.Next {
			h := n.String()
			if _, ok := byHash[h]; ok {
				continue
			}
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			hashes = append(hashes, h)
		}
	}

	for i, j := 0, len(hashes)-1; i < j; i, j = i+1, j-1 {
		hashes[i], hashes[j] = hashes[j], hashes[i]
	}
	return hashes
}

// Difference returns the entries reachable from b's heads that a does
// not yet have, restricted to the same log ID — exactly what Join
// needs to admit from b into a.
func Difference(a, b *Log) ([]*Entry, error) {
	if a == nil || b == nil {
		return nil, nil
	}

	b.mu.RLock()
	bHeads := b.headSlice()
	all, err := b.traverse(bHeads, -1, cid.Undef)
	b.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var diff []*Entry
	for _, e := range all {
		if e.LogID != a.id {
			continue
		}
		if _, known := a.entries[e.Hash.String()]; known {
			continue
		}
		diff = append(diff, e)
	}
	return diff, nil
}
