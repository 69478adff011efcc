package ipfslog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ipfs/go-cid"

	"github.com/daviddao/ipfslog/pkg/blockstore"
	"github.com/daviddao/ipfslog/pkg/entry"
	"github.com/daviddao/ipfslog/pkg/identity"
	"github.com/daviddao/ipfslog/pkg/ipfslogerr"
)

// Snapshot is the serialized form of a log's identity and frontier —
// enough for another replica to fetch the rest of the DAG from the
// same block store. See FullSnapshot for the self-contained form that
// carries the entries themselves.
type Snapshot struct {
	ID    string   `json:"id"`
	Heads []string `json:"heads"`
}

// ToJSON returns the log's current snapshot: its ID and head hashes,
// sorted for byte-stable output.
func (l *Log) ToJSON() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	heads := make([]string, 0, len(l.heads))
	for h := range l.heads {
		heads = append(heads, h)
	}
	sort.Strings(heads)

	return &Snapshot{ID: l.id, Heads: heads}
}

// ToMultihash serializes the log's snapshot and persists it in the
// block store, returning its content address — a compact handle
// another replica can resolve with FromMultihash.
func (l *Log) ToMultihash(ctx context.Context, store blockstore.Store) (cid.Cid, error) {
	buf, err := json.Marshal(l.ToJSON())
	if err != nil {
		return cid.Undef, fmt.Errorf("ipfslog: to multihash: %w", err)
	}
	return store.Put(ctx, buf)
}

// FullSnapshot is ToSnapshot's return shape: a Snapshot plus every
// entry needed to reconstruct the log without further fetches from
// the block store.
type FullSnapshot struct {
	ID     string   `json:"id"`
	Heads  []string `json:"heads"`
	Values []*Entry `json:"values"`
}

// ToSnapshot returns the log's identity, heads, and every entry it
// holds, oldest first — a self-contained export that a recipient can
// hand to FromEntry without touching the block store at all.
func (l *Log) ToSnapshot() *FullSnapshot {
	snap := l.ToJSON()
	return &FullSnapshot{
		ID:     snap.ID,
		Heads:  snap.Heads,
		Values: l.Values(),
	}
}

// ToString renders the log as a textual tree: Values() reversed
// (newest first), each line indented to reflect how many of that
// entry's predecessors are also present in the log. payloadMapper
// customizes how a payload is rendered; nil renders it as a plain
// string.
func (l *Log) ToString(payloadMapper func(*Entry) string) string {
	values := l.Values()

	byHash := make(map[string]struct{}, len(values))
	for _, e := range values {
		byHash[e.Hash.String()] = struct{}{}
	}

	var lines []string
	for i := len(values) - 1; i >= 0; i-- {
		e := values[i]

		parents := 0
		for _, n := range e.Next {
			if _, ok := byHash[n.String()]; ok {
				parents++
			}
		}

		padding := ""
		if parents > 0 {
			pad := parents - 1
			if pad < 0 {
				pad = 0
			}
			padding = strings.Repeat("  ", pad) + "└─"
		}

		payload := ""
		if payloadMapper != nil {
			payload = payloadMapper(e)
		} else {
			payload = string(e.Payload)
		}

		lines = append(lines, padding+payload)
	}

	return strings.Join(lines, "\n")
}

// fetchChain fetches root and every entry reachable through Next from
// the block store, up to amount entries total (amount < 0 means
// unbounded). Already-fetched entries are returned at most once.
func fetchChain(ctx context.Context, store blockstore.Store, roots []cid.Cid, amount int) ([]*Entry, error) {
	fetched := make(map[string]*Entry)
	stack := append([]cid.Cid(nil), roots...)

	for len(stack) > 0 && (amount < 0 || len(fetched) < amount) {
		h := stack[0]
		stack = stack[1:]

		key := h.String()
		if _, ok := fetched[key]; ok {
			continue
		}

		raw, err := store.Get(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("ipfslog: fetch %s: %w", h, err)
		}
		e, err := entry.Decode(h, raw)
		if err != nil {
			return nil, fmt.Errorf("ipfslog: decode %s: %w", h, err)
		}
		fetched[key] = e
		stack = append(stack, e.Next...)
	}

	out := make([]*Entry, 0, len(fetched))
	for _, e := range fetched {
		out = append(out, e)
	}
	return out, nil
}

// FromEntryHash materializes a log by fetching the entry at hash and
// every ancestor reachable through it from store, up to amount
// entries (amount < 0 for unbounded). The log's ID is taken from the
// fetched entries unless opts.ID overrides it.
func FromEntryHash(ctx context.Context, store blockstore.Store, signer *identity.Signer, provider *identity.Provider, hash cid.Cid, amount int, opts *Options) (*Log, error) {
	entries, err := fetchChain(ctx, store, []cid.Cid{hash}, amount)
	if err != nil {
		return nil, fmt.Errorf("ipfslog: from entry hash: %w", err)
	}
	return newFromEntries(store, signer, provider, entries, opts)
}

// FromMultihash materializes a log from a previously published
// Snapshot: it fetches the snapshot object at hash, decodes it, and
// delegates to FromJSON to fetch the rest of the DAG.
func FromMultihash(ctx context.Context, store blockstore.Store, signer *identity.Signer, provider *identity.Provider, hash cid.Cid, amount int, opts *Options) (*Log, error) {
	raw, err := store.Get(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("ipfslog: from multihash: fetch snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("ipfslog: from multihash: decode snapshot: %w", err)
	}
	l, err := FromJSON(ctx, store, signer, provider, &snap, amount, opts)
	if err != nil {
		return nil, fmt.Errorf("ipfslog: from multihash: %w", err)
	}
	return l, nil
}

// FromJSON materializes a log from an already-decoded Snapshot: it
// fetches every entry reachable from the snapshot's recorded heads, up
// to amount entries total (amount < 0 for unbounded), and builds the
// log around them. Unlike FromMultihash, the caller supplies the
// decoded snapshot directly rather than a content address to fetch it
// from.
func FromJSON(ctx context.Context, store blockstore.Store, signer *identity.Signer, provider *identity.Provider, snap *Snapshot, amount int, opts *Options) (*Log, error) {
	if snap == nil {
		return nil, fmt.Errorf("ipfslog: from json: %w", ipfslogerr.ErrLogNotDefined)
	}

	heads := make([]cid.Cid, 0, len(snap.Heads))
	for _, h := range snap.Heads {
		c, err := cid.Decode(h)
		if err != nil {
			return nil, fmt.Errorf("ipfslog: from json: decode head %q: %w", h, err)
		}
		heads = append(heads, c)
	}

	entries, err := fetchChain(ctx, store, heads, amount)
	if err != nil {
		return nil, fmt.Errorf("ipfslog: from json: %w", err)
	}

	if opts == nil {
		opts = &Options{}
	}
	if opts.ID == "" {
		opts.ID = snap.ID
	}
	return newFromEntries(store, signer, provider, entries, opts)
}

// FromEntry materializes a log from entries already held in memory —
// e.g. entries received directly from a peer rather than fetched by
// hash. heads of the resulting log are recomputed from the DAG shape
// of entries, same as every other constructor.
func FromEntry(store blockstore.Store, signer *identity.Signer, provider *identity.Provider, entries []*Entry, opts *Options) (*Log, error) {
	return newFromEntries(store, signer, provider, entries, opts)
}

func newFromEntries(store blockstore.Store, signer *identity.Signer, provider *identity.Provider, entries []*Entry, opts *Options) (*Log, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.ID == "" && len(entries) > 0 {
		opts.ID = entries[0].LogID
	}
	opts.Entries = entries
	return New(store, signer, provider, opts)
}
