// Package ipfslog implements the append-only, replicated,
// content-addressed log CRDT: a G-Set of signed entries forming a DAG,
// ordered deterministically for reads and merged deterministically on
// join. The algorithms here follow the ipfs-log/orbit-db design,
// rebuilt on this repo's own entry, clock, identity, access, and
// block store packages.
package ipfslog

import (
	"strconv"
	"sync"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/daviddao/ipfslog/pkg/access"
	"github.com/daviddao/ipfslog/pkg/blockstore"
	"github.com/daviddao/ipfslog/pkg/clock"
	"github.com/daviddao/ipfslog/pkg/entry"
	"github.com/daviddao/ipfslog/pkg/identity"
	"github.com/daviddao/ipfslog/pkg/ipfslogerr"
)

// Entry re-exports entry.Entry so callers of this package rarely need
// to import pkg/entry directly.
type Entry = entry.Entry

// nowUnixNano is overridable in tests; production code calls the real
// clock exactly once, at construction, to derive a default log ID.
var nowUnixNano = func() int64 { return time.Now().UnixNano() }

// Log is one replica's view of the append-only DAG. All exported
// methods are safe for concurrent use; a single RWMutex protects the
// index structures because entries themselves are immutable once
// created.
type Log struct {
	mu sync.RWMutex

	id     string
	clock  clock.Clock
	signer *identity.Signer
	access access.Controller
	store  blockstore.Store
	idents *identity.Provider

	entries    map[string]*Entry   // hash string -> entry
	heads      map[string]*Entry   // hash string -> entry, no successor known yet
	nextsIndex map[string]struct{} // hash string -> referenced as a predecessor by some entry
}

// New creates an empty log. signer is this replica's identity and is
// used to sign every entry Append creates; store is where entries are
// persisted and fetched from; provider is the identity provider handed
// to the access controller's CanAppend during Append and Join (entry
// signatures are verified against the public key each entry carries).
func New(store blockstore.Store, signer *identity.Signer, provider *identity.Provider, opts *Options) (*Log, error) {
	if store == nil {
		return nil, ipfslogerr.ErrMissingStore
	}
	if signer == nil {
		return nil, ipfslogerr.ErrMissingIdentity
	}
	if opts == nil {
		opts = &Options{}
	}

	id := opts.ID
	if id == "" {
		id = strconv.FormatInt(nowUnixNano(), 10)
	}

	ac := opts.AccessController
	if ac == nil {
		ac = access.AllowAll{}
	}

	if provider == nil {
		provider = identity.NewProvider(signer.Identity)
	} else {
		provider.Trust(signer.Identity)
	}

	seed := opts.Clock
	if seed.ID() == "" {
		seed = clock.New(signer.Identity.ID, 0)
	}

	l := &Log{
		id:         id,
		clock:      seed,
		signer:     signer,
		access:     ac,
		store:      store,
		idents:     provider,
		entries:    make(map[string]*Entry),
		heads:      make(map[string]*Entry),
		nextsIndex: make(map[string]struct{}),
	}

	for _, e := range opts.Entries {
		l.entries[e.Hash.String()] = e
		for _, n := range e.Next {
			l.nextsIndex[n.String()] = struct{}{}
		}
	}
	l.recomputeHeads()
	if maxT := maxClockTime(l.headSlice(), 0); maxT > l.clock.Time() {
		l.clock = l.clock.Advance(maxT - 1)
	}

	return l, nil
}

// ID returns the log's identifier.
func (l *Log) ID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.id
}

// Clock returns the log's current logical clock.
func (l *Log) Clock() clock.Clock {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.clock
}

// Len returns the number of entries known to this log.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Get returns the entry with the given hash, if known.
func (l *Log) Get(hash cid.Cid) (*Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[hash.String()]
	return e, ok
}

// Has reports whether hash is known to this log.
func (l *Log) Has(hash cid.Cid) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[hash.String()]
	return ok
}

// Heads returns the log's current heads: entries no other known entry
// names as a predecessor, sorted by the last-write-wins order (clock,
// then id, then hash), most recent first.
func (l *Log) Heads() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	heads := l.headSlice()
	entry.SortLWW(heads)
	return heads
}

// ReplicaID returns the identity id of this log's signer — the value
// that distinguishes one replica of a log from another sharing the
// same log ID, used by frontier tracking during bounded joins.
func (l *Log) ReplicaID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.signer.Identity.ID
}

// headSlice returns l.heads as a slice. Caller must hold l.mu.
func (l *Log) headSlice() []*Entry {
	out := make([]*Entry, 0, len(l.heads))
	for _, e := range l.heads {
		out = append(out, e)
	}
	return out
}

// Values returns every entry in the log ordered deterministically,
// oldest first — the materialized value of the CRDT.
func (l *Log) Values() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all, err := l.traverse(l.headSlice(), -1, cid.Undef)
	if err != nil {
		return nil
	}
	entry.SortLWW(all)
	// traverse and SortLWW both produce most-recent-first; Values is
	// documented oldest-first, matching how logs are usually read.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all
}

// recomputeHeads rebuilds l.heads from l.entries and l.nextsIndex.
// Caller must hold l.mu for writing.
func (l *Log) recomputeHeads() {
	l.heads = make(map[string]*Entry)
	for h, e := range l.entries {
		if _, referenced := l.nextsIndex[h]; !referenced {
			l.heads[h] = e
		}
	}
}

// maxClockTime returns the maximum clock time among entries, or def if
// entries is empty.
func maxClockTime(entries []*Entry, def int64) int64 {
	max := def
	for _, e := range entries {
		if t := e.Clock.Time(); t > max {
			max = t
		}
	}
	return max
}
