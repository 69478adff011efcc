package ipfslog

import (
	"context"
	"testing"

	"github.com/daviddao/ipfslog/pkg/blockstore"
	"github.com/daviddao/ipfslog/pkg/identity"
)

func TestToJSONReflectsCurrentHeads(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l, _ := newTestLog(t, store, "X", "A", nil)

	e1, err := l.Append(ctx, []byte("p1"), nil)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	snap := l.ToJSON()
	if snap.ID != "X" {
		t.Fatalf("snapshot id = %q, want X", snap.ID)
	}
	if len(snap.Heads) != 1 || snap.Heads[0] != e1.Hash.String() {
		t.Fatalf("snapshot heads = %v, want [%s]", snap.Heads, e1.Hash)
	}
}

func TestFromMultihashReconstructsLog(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l, signer := newTestLog(t, store, "X", "A", nil)

	if _, err := l.Append(ctx, []byte("p1"), nil); err != nil {
		t.Fatalf("append p1: %v", err)
	}
	if _, err := l.Append(ctx, []byte("p2"), nil); err != nil {
		t.Fatalf("append p2: %v", err)
	}

	hash, err := l.ToMultihash(ctx, store)
	if err != nil {
		t.Fatalf("ToMultihash: %v", err)
	}

	loaded, err := FromMultihash(ctx, store, signer, identity.NewProvider(), hash, -1, nil)
	if err != nil {
		t.Fatalf("FromMultihash: %v", err)
	}
	if loaded.ID() != "X" {
		t.Fatalf("loaded id = %q, want X", loaded.ID())
	}
	if loaded.Len() != l.Len() {
		t.Fatalf("loaded length = %d, want %d", loaded.Len(), l.Len())
	}
	wantValues := l.Values()
	gotValues := loaded.Values()
	for i := range wantValues {
		if !wantValues[i].Hash.Equals(gotValues[i].Hash) {
			t.Fatalf("values differ at index %d", i)
		}
	}
}

func TestToSnapshotIncludesValues(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l, _ := newTestLog(t, store, "X", "A", nil)

	if _, err := l.Append(ctx, []byte("p1"), nil); err != nil {
		t.Fatalf("append p1: %v", err)
	}
	e2, err := l.Append(ctx, []byte("p2"), nil)
	if err != nil {
		t.Fatalf("append p2: %v", err)
	}

	snap := l.ToSnapshot()
	if snap.ID != "X" {
		t.Fatalf("snapshot id = %q, want X", snap.ID)
	}
	if len(snap.Heads) != 1 || snap.Heads[0] != e2.Hash.String() {
		t.Fatalf("snapshot heads = %v, want [%s]", snap.Heads, e2.Hash)
	}
	if len(snap.Values) != 2 {
		t.Fatalf("snapshot values length = %d, want 2", len(snap.Values))
	}
	if string(snap.Values[0].Payload) != "p1" || string(snap.Values[1].Payload) != "p2" {
		t.Fatalf("snapshot values out of order: %q, %q", snap.Values[0].Payload, snap.Values[1].Payload)
	}
}

func TestFromJSONReconstructsLog(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l, signer := newTestLog(t, store, "X", "A", nil)

	if _, err := l.Append(ctx, []byte("p1"), nil); err != nil {
		t.Fatalf("append p1: %v", err)
	}
	if _, err := l.Append(ctx, []byte("p2"), nil); err != nil {
		t.Fatalf("append p2: %v", err)
	}

	snap := l.ToJSON()
	loaded, err := FromJSON(ctx, store, signer, identity.NewProvider(), snap, -1, nil)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if loaded.ID() != "X" {
		t.Fatalf("loaded id = %q, want X", loaded.ID())
	}
	if loaded.Len() != l.Len() {
		t.Fatalf("loaded length = %d, want %d", loaded.Len(), l.Len())
	}
}

func TestToStringRendersValuesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l, _ := newTestLog(t, store, "X", "A", nil)

	if _, err := l.Append(ctx, []byte("p1"), nil); err != nil {
		t.Fatalf("append p1: %v", err)
	}
	if _, err := l.Append(ctx, []byte("p2"), nil); err != nil {
		t.Fatalf("append p2: %v", err)
	}

	got := l.ToString(nil)
	want := "└─p2\np1"
	if got != want {
		t.Fatalf("ToString = %q, want %q", got, want)
	}
}

func TestToStringUsesPayloadMapper(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l, _ := newTestLog(t, store, "X", "A", nil)

	if _, err := l.Append(ctx, []byte("p1"), nil); err != nil {
		t.Fatalf("append p1: %v", err)
	}

	got := l.ToString(func(e *Entry) string { return "[" + string(e.Payload) + "]" })
	if got != "[p1]" {
		t.Fatalf("ToString with mapper = %q, want [p1]", got)
	}
}

func TestFromEntryHashReconstructsChain(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l, signer := newTestLog(t, store, "X", "A", nil)

	if _, err := l.Append(ctx, []byte("p1"), nil); err != nil {
		t.Fatalf("append p1: %v", err)
	}
	e2, err := l.Append(ctx, []byte("p2"), nil)
	if err != nil {
		t.Fatalf("append p2: %v", err)
	}

	loaded, err := FromEntryHash(ctx, store, signer, identity.NewProvider(), e2.Hash, -1, nil)
	if err != nil {
		t.Fatalf("FromEntryHash: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded length = %d, want 2", loaded.Len())
	}
	heads := loaded.Heads()
	if len(heads) != 1 || !heads[0].Hash.Equals(e2.Hash) {
		t.Fatalf("loaded heads = %v, want [e2]", heads)
	}
}
