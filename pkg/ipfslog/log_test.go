package ipfslog

import (
	"context"
	"testing"

	"github.com/daviddao/ipfslog/pkg/access"
	"github.com/daviddao/ipfslog/pkg/blockstore"
	"github.com/daviddao/ipfslog/pkg/identity"
)

func newTestLog(t *testing.T, store blockstore.Store, logID, signerID string, ac access.Controller) (*Log, *identity.Signer) {
	t.Helper()
	signer, err := identity.New(signerID)
	if err != nil {
		t.Fatalf("identity.New(%q): %v", signerID, err)
	}
	l, err := New(store, signer, nil, &Options{ID: logID, AccessController: ac})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, signer
}

func TestSingleReplicaLinearAppend(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l, _ := newTestLog(t, store, "X", "A", nil)

	e1, err := l.Append(ctx, []byte("p1"), nil)
	if err != nil {
		t.Fatalf("append p1: %v", err)
	}
	e2, err := l.Append(ctx, []byte("p2"), nil)
	if err != nil {
		t.Fatalf("append p2: %v", err)
	}
	e3, err := l.Append(ctx, []byte("p3"), nil)
	if err != nil {
		t.Fatalf("append p3: %v", err)
	}

	if l.Len() != 3 {
		t.Fatalf("length = %d, want 3", l.Len())
	}
	heads := l.Heads()
	if len(heads) != 1 || !heads[0].Hash.Equals(e3.Hash) {
		t.Fatalf("heads = %v, want [e3]", heads)
	}
	if l.Clock().Time() != 3 {
		t.Fatalf("clock.time = %d, want 3", l.Clock().Time())
	}
	if len(e2.Next) != 1 || !e2.Next[0].Equals(e1.Hash) {
		t.Fatalf("e2.next = %v, want [e1.hash]", e2.Next)
	}
	if len(e3.Next) != 1 || !e3.Next[0].Equals(e2.Hash) {
		t.Fatalf("e3.next = %v, want [e2.hash]", e3.Next)
	}

	values := l.Values()
	if len(values) != 3 {
		t.Fatalf("values length = %d, want 3", len(values))
	}
	if string(values[0].Payload) != "p1" || string(values[1].Payload) != "p2" || string(values[2].Payload) != "p3" {
		t.Fatalf("values out of order: %q, %q, %q", values[0].Payload, values[1].Payload, values[2].Payload)
	}
}

func TestConcurrentAppendsMerge(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l1, _ := newTestLog(t, store, "X", "A", nil)
	l2, _ := newTestLog(t, store, "X", "B", nil)

	e1, err := l1.Append(ctx, []byte("p1"), nil)
	if err != nil {
		t.Fatalf("l1 append: %v", err)
	}
	e2, err := l2.Append(ctx, []byte("p2"), nil)
	if err != nil {
		t.Fatalf("l2 append: %v", err)
	}
	if l1.Clock().Time() != 1 || l2.Clock().Time() != 1 {
		t.Fatalf("expected both clocks at time 1, got %d and %d", l1.Clock().Time(), l2.Clock().Time())
	}

	if err := l1.Join(ctx, l2, -1); err != nil {
		t.Fatalf("join: %v", err)
	}
	if l1.Len() != 2 {
		t.Fatalf("length = %d, want 2", l1.Len())
	}
	heads := l1.Heads()
	if len(heads) != 2 {
		t.Fatalf("heads = %d, want 2", len(heads))
	}

	values := l1.Values()
	if len(values) != 2 || string(values[0].Payload) != "p1" || string(values[1].Payload) != "p2" {
		t.Fatalf("values = [%q,%q], want [p1,p2] (A before B at equal time, id desc tiebreak)", values[0].Payload, values[1].Payload)
	}

	e3, err := l1.Append(ctx, []byte("p3"), nil)
	if err != nil {
		t.Fatalf("l1 append p3: %v", err)
	}
	if len(e3.Next) != 2 {
		t.Fatalf("e3.next = %v, want 2 entries", e3.Next)
	}
	hasBoth := false
	for _, n := range e3.Next {
		if n.Equals(e1.Hash) {
			for _, m := range e3.Next {
				if m.Equals(e2.Hash) {
					hasBoth = true
				}
			}
		}
	}
	if !hasBoth {
		t.Fatalf("e3.next = %v, want both e1 and e2 hashes", e3.Next)
	}
	if l1.Clock().Time() != 2 {
		t.Fatalf("clock.time = %d, want 2", l1.Clock().Time())
	}
}

func TestCausalChainPreservedAcrossJoin(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l1, signerA := newTestLog(t, store, "X", "A", nil)

	if _, err := l1.Append(ctx, []byte("p1"), nil); err != nil {
		t.Fatalf("append p1: %v", err)
	}
	if _, err := l1.Append(ctx, []byte("p2"), nil); err != nil {
		t.Fatalf("append p2: %v", err)
	}

	l2, err := New(store, signerA, nil, &Options{ID: "X", Entries: l1.Values()})
	if err != nil {
		t.Fatalf("fork l2: %v", err)
	}
	e3, err := l2.Append(ctx, []byte("p3"), nil)
	if err != nil {
		t.Fatalf("l2 append p3: %v", err)
	}
	e4, err := l1.Append(ctx, []byte("p4"), nil)
	if err != nil {
		t.Fatalf("l1 append p4: %v", err)
	}

	if err := l1.Join(ctx, l2, -1); err != nil {
		t.Fatalf("l1.join(l2): %v", err)
	}
	heads := l1.Heads()
	if len(heads) != 2 {
		t.Fatalf("l1 heads = %d, want 2 (e3,e4)", len(heads))
	}
	values1 := l1.Values()
	if len(values1) != 4 {
		t.Fatalf("l1 values length = %d, want 4", len(values1))
	}

	l2b, err := New(store, signerA, nil, &Options{ID: "X", Entries: l2.Values()})
	if err != nil {
		t.Fatalf("fork l2b: %v", err)
	}
	if err := l2b.Join(ctx, l1, -1); err != nil {
		t.Fatalf("l2.join(l1): %v", err)
	}
	values2 := l2b.Values()
	if len(values2) != 4 {
		t.Fatalf("l2 values length = %d, want 4", len(values2))
	}
	for i := range values1 {
		if !values1[i].Hash.Equals(values2[i].Hash) {
			t.Fatalf("join not commutative at index %d: %s vs %s", i, values1[i].Hash, values2[i].Hash)
		}
	}
	_ = e3
	_ = e4
}

func TestSignatureRejectionOnJoin(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l1, _ := newTestLog(t, store, "X", "A", nil)
	l2, _ := newTestLog(t, store, "X", "B", nil)

	if _, err := l2.Append(ctx, []byte("p2"), nil); err != nil {
		t.Fatalf("l2 append: %v", err)
	}

	if err := l1.Join(ctx, l2, -1); err != nil {
		t.Fatalf("unexpected join failure before tampering: %v", err)
	}
	if l1.Len() != 1 {
		t.Fatalf("l1 length = %d, want 1 before tamper round", l1.Len())
	}

	l3, _ := newTestLog(t, store, "X", "C", nil)
	if _, err := l3.Append(ctx, []byte("p3"), nil); err != nil {
		t.Fatalf("l3 append: %v", err)
	}
	l3.Heads()[0].Payload = []byte("forged")

	if err := l1.Join(ctx, l3, -1); err == nil {
		t.Fatal("expected signature rejection after tampering, got nil error")
	}
	if l1.Len() != 1 {
		t.Fatalf("l1 length = %d after failed join, want unchanged 1", l1.Len())
	}
}

func TestAccessDenialOnJoin(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	ac := access.NewAllowlist("A")
	l1, _ := newTestLog(t, store, "X", "A", ac)
	l2, _ := newTestLog(t, store, "X", "B", nil)

	if _, err := l2.Append(ctx, []byte("p2"), nil); err != nil {
		t.Fatalf("l2 append: %v", err)
	}

	if err := l1.Join(ctx, l2, -1); err == nil {
		t.Fatal("expected access denial, got nil error")
	}
	if l1.Len() != 0 {
		t.Fatalf("l1 length = %d after denied join, want unchanged 0", l1.Len())
	}
}

func TestBoundedJoin(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemory()
	l1, signerA := newTestLog(t, store, "X", "A", nil)

	if _, err := l1.Append(ctx, []byte("p1"), nil); err != nil {
		t.Fatalf("append p1: %v", err)
	}
	if _, err := l1.Append(ctx, []byte("p2"), nil); err != nil {
		t.Fatalf("append p2: %v", err)
	}

	l2, err := New(store, signerA, nil, &Options{ID: "X", Entries: l1.Values()})
	if err != nil {
		t.Fatalf("fork l2: %v", err)
	}
	if _, err := l2.Append(ctx, []byte("p3"), nil); err != nil {
		t.Fatalf("l2 append p3: %v", err)
	}
	if _, err := l1.Append(ctx, []byte("p4"), nil); err != nil {
		t.Fatalf("l1 append p4: %v", err)
	}

	if err := l1.Join(ctx, l2, 2); err != nil {
		t.Fatalf("bounded join: %v", err)
	}
	if l1.Len() != 2 {
		t.Fatalf("length = %d, want 2", l1.Len())
	}
	wantHeads := FindHeads(valuesSlice(l1))
	gotHeads := l1.Heads()
	if len(gotHeads) != len(wantHeads) {
		t.Fatalf("heads = %d, want %d", len(gotHeads), len(wantHeads))
	}
}

func valuesSlice(l *Log) []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	return out
}
