package ipfslog

import (
	"context"
	"fmt"

	"github.com/daviddao/ipfslog/pkg/entry"
	"github.com/daviddao/ipfslog/pkg/frontier"
	"github.com/daviddao/ipfslog/pkg/ipfslogerr"
)

// WouldJoin reports whether calling Join with other would actually
// merge anything: false for a nil other (Join returns
// ErrLogNotDefined) or a mismatched log id (Join is a silent no-op).
// It does not check access control
// or signatures, so a true result does not guarantee Join will
// succeed — only that it has something to attempt.
func (l *Log) WouldJoin(other *Log) bool {
	if other == nil {
		return false
	}
	return l.ID() == other.ID()
}

// Join merges other into l: every entry other has that l lacks is
// admitted after passing the access controller and signature checks,
// heads are recomputed from the union of both logs' pre-join heads,
// and if maxSize is non-negative the log is truncated to its maxSize
// most recent entries (LWW order) afterward, provided no other known
// replica's frontier would be left behind by the cut. maxSize < 0
// means unbounded.
func (l *Log) Join(ctx context.Context, other *Log, maxSize int) error {
	if other == nil {
		return ipfslogerr.ErrLogNotDefined
	}
	if l.ID() != other.ID() {
		return nil
	}

	newItems, err := Difference(l, other)
	if err != nil {
		return fmt.Errorf("ipfslog: join: %w", err)
	}

	l.mu.RLock()
	ac := l.access
	idents := l.idents
	l.mu.RUnlock()

	for _, e := range newItems {
		if ac != nil && !ac.CanAppend(ctx, e, idents) {
			return fmt.Errorf("ipfslog: join: entry %s: %w", e.Hash, ipfslogerr.ErrJoinDenied)
		}
		if !e.Verify() {
			return fmt.Errorf("ipfslog: join: entry %s: %w", e.Hash, ipfslogerr.ErrSignatureInvalid)
		}
	}

	other.mu.RLock()
	otherHeads := other.headSlice()
	otherClock := other.clock
	other.mu.RUnlock()
	otherReplicaID := other.ReplicaID()

	l.mu.Lock()
	thisHeads := l.headSlice()

	nextsFromNew := make(map[string]struct{})
	for _, e := range newItems {
		l.entries[e.Hash.String()] = e
		for _, n := range e.Next {
			s := n.String()
			l.nextsIndex[s] = struct{}{}
			nextsFromNew[s] = struct{}{}
		}
	}

	candidates := FindHeads(append(append([]*Entry(nil), thisHeads...), otherHeads...))
	heads := make(map[string]*Entry, len(candidates))
	for _, h := range candidates {
		key := h.Hash.String()
		if _, blocked := nextsFromNew[key]; blocked {
			continue
		}
		if _, blocked := l.nextsIndex[key]; blocked {
			continue
		}
		heads[key] = h
	}
	l.heads = heads

	if maxSize >= 0 {
		peers := []frontier.PeerFrontier{{PeerID: otherReplicaID, Clock: otherClock}}
		l.truncate(maxSize, peers)
	}

	maxT := maxClockTime(l.headSlice(), 0)
	if maxT > l.clock.Time() {
		l.clock = l.clock.Advance(maxT - 1)
	}
	l.mu.Unlock()

	return nil
}

// truncate keeps only the maxSize most recent entries by the
// last-write-wins order, and rebuilds nextsIndex and heads to match —
// unless doing so would leave a known peer's frontier behind the cut,
// in which case it is a no-op for this round. Caller must hold l.mu
// for writing.
func (l *Log) truncate(maxSize int, peers []frontier.PeerFrontier) {
	if maxSize >= len(l.entries) {
		return
	}
	if maxSize < 0 {
		maxSize = 0
	}

	all := make([]*Entry, 0, len(l.entries))
	for _, e := range l.entries {
		all = append(all, e)
	}
	entry.SortLWW(all)

	cutoff := all[maxSize].Clock
	safety := frontier.ComputeTruncationSafety(l.signer.Identity.ID, cutoff, peers)
	if !safety.SafeToTruncate {
		return
	}

	kept := all[:maxSize]

	l.entries = make(map[string]*Entry, len(kept))
	l.nextsIndex = make(map[string]struct{})
	for _, e := range kept {
		l.entries[e.Hash.String()] = e
		for _, n := range e.Next {
			l.nextsIndex[n.String()] = struct{}{}
		}
	}
	l.recomputeHeads()
}
