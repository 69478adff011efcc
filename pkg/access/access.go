// Package access provides the access-control collaborator: a pure
// (possibly asynchronous) CanAppend decision consulted by Append and
// Join before any entry is admitted to a log.
//
// Modeled after the rule-based policy engine in
// mohamedamale11-sys-assurance-service/internal/policy, reduced to
// the one decision a log actually needs: "may this identity add this
// entry?" rather than a general subject/action/resource/condition
// grammar — the log has no notion of actions or resources beyond
// append, so carrying that vocabulary over would just be ceremony.
package access

import (
	"context"

	"github.com/daviddao/ipfslog/pkg/identity"
)

// Entry is the minimal view of a log entry an access decision needs.
// pkg/entry.Entry satisfies this.
type Entry interface {
	GetIdentity() identity.Identity
}

// Controller is the canAppend(entry, identityProvider) capability a
// log needs. Implementations must be safe for concurrent use; a Log
// may call CanAppend from Append and from Join's permission gate
// without additional synchronization.
type Controller interface {
	CanAppend(ctx context.Context, e Entry, provider *identity.Provider) bool
}

// AllowAll grants every append. It is the default controller, matching
// ipfs-log/orbit-db's own accesscontroller.Default, which allows
// anyone to append.
type AllowAll struct{}

// CanAppend always returns true.
func (AllowAll) CanAppend(context.Context, Entry, *identity.Provider) bool { return true }

// Allowlist grants append only to identities whose ID is present in
// the configured set. Everything else — including a forged identity ID
// whose public key differs from the one the provider knows for that
// ID — is denied.
type Allowlist struct {
	allowed map[string]struct{}
}

// NewAllowlist builds an Allowlist permitting exactly the given
// identity IDs.
func NewAllowlist(ids ...string) *Allowlist {
	a := &Allowlist{allowed: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		a.allowed[id] = struct{}{}
	}
	return a
}

// Allow adds id to the allowed set.
func (a *Allowlist) Allow(id string) {
	if a.allowed == nil {
		a.allowed = make(map[string]struct{})
	}
	a.allowed[id] = struct{}{}
}

// Deny removes id from the allowed set.
func (a *Allowlist) Deny(id string) {
	delete(a.allowed, id)
}

// CanAppend reports whether e's identity ID is in the allowed set. If
// provider knows that ID under a different public key than e carries,
// the entry is denied.
func (a *Allowlist) CanAppend(_ context.Context, e Entry, provider *identity.Provider) bool {
	if a == nil {
		return false
	}
	id := e.GetIdentity()
	if known, ok := provider.Lookup(id.ID); ok && known.PublicKey != id.PublicKey {
		return false
	}
	_, ok := a.allowed[id.ID]
	return ok
}
