package ipfslog

import (
	"github.com/ipfs/go-cid"

	"github.com/daviddao/ipfslog/pkg/entry"
	"github.com/daviddao/ipfslog/pkg/ipfslogerr"
)

// traverse walks the DAG backwards from roots in last-write-wins
// order, collecting up to amount entries (amount < 0 means
// unbounded), stopping early if endHash is encountered. Caller must
// hold at least l.mu.RLock(); traverse only reads l.entries.
func (l *Log) traverse(roots []*Entry, amount int, endHash cid.Cid) ([]*Entry, error) {
	if roots == nil {
		return nil, ipfslogerr.ErrLogNotDefined
	}

	stack := append([]*Entry(nil), roots...)
	entry.SortLWW(stack)

	traversed := make(map[string]bool, len(stack))
	result := make([]*Entry, 0, len(stack))

	for len(stack) > 0 && (amount < 0 || len(result) < amount) {
		e := stack[0]
		stack = stack[1:]

		h := e.Hash.String()
		if traversed[h] {
			continue
		}
		traversed[h] = true
		result = append(result, e)

		if endHash.Defined() && e.Hash.Equals(endHash) {
			break
		}

		for _, n := range e.Next {
			next, ok := l.entries[n.String()]
			if !ok || traversed[next.Hash.String()] {
				continue
			}
			stack = insertSortedLWW(stack, next)
		}
	}

	return result, nil
}

// insertSortedLWW inserts e into stack, which is assumed already
// sorted by entry.Less, preserving that order.
func insertSortedLWW(stack []*Entry, e *Entry) []*Entry {
	i := 0
	for i < len(stack) && entry.Less(stack[i], e) {
		i++
	}
	out := make([]*Entry, 0, len(stack)+1)
	out = append(out, stack[:i]...)
	out = append(out, e)
	out = append(out, stack[i:]...)
	return out
}
