package ipfslog

import (
	"context"
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/daviddao/ipfslog/pkg/entry"
	"github.com/daviddao/ipfslog/pkg/ipfslogerr"
)

// AppendOptions tunes how many predecessor pointers a new entry
// carries. PointerCount mirrors ipfs-log/orbit-db's notion of extra
// "references" beyond the immediate heads, letting traversal skip
// backward through history faster; 1 (the default) means only the
// immediate heads are recorded.
type AppendOptions struct {
	PointerCount int
}

// Append signs and stores a new entry pointing at the log's current
// heads, advances the log's clock (IR1), and makes the new entry the
// log's sole head.
func (l *Log) Append(ctx context.Context, payload []byte, opts *AppendOptions) (*Entry, error) {
	if opts == nil {
		opts = &AppendOptions{}
	}
	pointerCount := opts.PointerCount
	if pointerCount < 1 {
		pointerCount = 1
	}

	l.mu.Lock()
	heads := l.headSlice()

	newTime := maxClockTime(heads, 0)
	if l.clock.Time() > newTime {
		newTime = l.clock.Time()
	}
	l.clock = l.clock.Advance(newTime)
	clk := l.clock
	logID := l.id
	ac := l.access
	idents := l.idents
	l.mu.Unlock()

	next := make([]cid.Cid, 0, len(heads))
	for _, h := range heads {
		next = append(next, h.Hash)
	}

	l.mu.RLock()
	refs, err := l.traverse(heads, maxInt(pointerCount, len(heads)), cid.Undef)
	l.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("ipfslog: append: gather references: %w", err)
	}
	next = appendExtraReferences(next, refs, pointerCount)

	e, err := entry.Create(ctx, l.store, l.signer, logID, payload, next, clk)
	if err != nil {
		return nil, fmt.Errorf("ipfslog: append: %w", err)
	}
	if ac != nil && !ac.CanAppend(ctx, e, idents) {
		return nil, fmt.Errorf("ipfslog: append: entry %s: %w", e.Hash, ipfslogerr.ErrAppendDenied)
	}

	l.mu.Lock()
	l.entries[e.Hash.String()] = e
	for _, n := range e.Next {
		l.nextsIndex[n.String()] = struct{}{}
	}
	l.heads = map[string]*Entry{e.Hash.String(): e}
	l.mu.Unlock()

	return e, nil
}

// appendExtraReferences adds the hashes of refs at indices 0, 1, 3, 7,
// ... (power-of-two distances), skipping any already present in next,
// until next holds pointerCount predecessor pointers, giving later
// traversals shortcuts deeper into history.
func appendExtraReferences(next []cid.Cid, refs []*Entry, pointerCount int) []cid.Cid {
	seen := make(map[string]struct{}, len(next))
	for _, n := range next {
		seen[n.String()] = struct{}{}
	}
	for step := 1; step < len(refs) && len(next) < pointerCount; step *= 2 {
		idx := step - 1
		if idx >= len(refs) {
			break
		}
		h := refs[idx].Hash
		if _, ok := seen[h.String()]; ok {
			continue
		}
		seen[h.String()] = struct{}{}
		next = append(next, h)
	}
	return next
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
