package access

import (
	"context"
	"testing"

	"github.com/daviddao/ipfslog/pkg/identity"
)

type fakeEntry struct{ id identity.Identity }

func (f fakeEntry) GetIdentity() identity.Identity { return f.id }

func TestAllowAllGrantsEverything(t *testing.T) {
	c := AllowAll{}
	e := fakeEntry{id: identity.Identity{ID: "anyone"}}
	if !c.CanAppend(context.Background(), e, nil) {
		t.Fatal("expected AllowAll to grant")
	}
}

func TestAllowlistGrantsKnownIdentity(t *testing.T) {
	c := NewAllowlist("alice", "bob")
	e := fakeEntry{id: identity.Identity{ID: "alice"}}
	if !c.CanAppend(context.Background(), e, nil) {
		t.Fatal("expected allowlisted identity to be granted")
	}
}

func TestAllowlistDeniesUnknownIdentity(t *testing.T) {
	c := NewAllowlist("alice")
	e := fakeEntry{id: identity.Identity{ID: "mallory"}}
	if c.CanAppend(context.Background(), e, nil) {
		t.Fatal("expected non-allowlisted identity to be denied")
	}
}

func TestAllowlistAllowThenDeny(t *testing.T) {
	c := NewAllowlist()
	e := fakeEntry{id: identity.Identity{ID: "carol"}}
	if c.CanAppend(context.Background(), e, nil) {
		t.Fatal("expected empty allowlist to deny")
	}
	c.Allow("carol")
	if !c.CanAppend(context.Background(), e, nil) {
		t.Fatal("expected allowlist to grant after Allow")
	}
	c.Deny("carol")
	if c.CanAppend(context.Background(), e, nil) {
		t.Fatal("expected allowlist to deny after Deny")
	}
}

func TestNilAllowlistDeniesEverything(t *testing.T) {
	var c *Allowlist
	e := fakeEntry{id: identity.Identity{ID: "alice"}}
	if c.CanAppend(context.Background(), e, nil) {
		t.Fatal("expected nil Allowlist to deny")
	}
}
