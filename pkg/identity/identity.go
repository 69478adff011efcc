// Package identity provides the signer/identity-provider collaborator
// that pkg/ipfslog and pkg/entry treat as external: sign, verify, and
// an opaque provider handle passed through to the access controller.
//
// There is no asymmetric-signing library in the wired dependency set,
// so this wraps the standard library's crypto/ed25519 directly rather
// than reaching for an unrelated ecosystem package; see DESIGN.md.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Type identifies the signature scheme an Identity uses. Kept as a
// field (rather than hardcoding ed25519 everywhere) so a future scheme
// can be added without changing the Entry shape.
const TypeEd25519 = "ed25519"

// Identity is the public, shareable half of a signer: the information
// embedded in every Entry this identity signs. It deliberately excludes
// private key material — see CanonicalBytes in pkg/entry/hash.go, which
// hashes exactly this struct.
type Identity struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	PublicKey string `json:"public_key"` // hex-encoded ed25519 public key
}

// Signer pairs an Identity with the private key needed to sign on its
// behalf. Signer.Identity is what gets embedded in entries; the private
// key never leaves the Signer.
type Signer struct {
	Identity Identity
	private  ed25519.PrivateKey
}

// New generates a fresh ed25519 keypair and wraps it in a Signer. If
// name is empty, a short random suffix (via google/uuid) makes the
// identity ID unique without requiring the caller to pick one.
func New(name string) (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("identity: generate key: %w", err)
	}
	if name == "" {
		name = "identity-" + uuid.NewString()[:8]
	}
	return &Signer{
		Identity: Identity{
			ID:        name,
			Type:      TypeEd25519,
			PublicKey: hex.EncodeToString(pub),
		},
		private: priv,
	}, nil
}

// FromPrivateKey wraps an existing ed25519 private key, deriving the
// public key from it; name becomes the identity ID. Used to reconstruct a Signer
// across process restarts from persisted key material.
func FromPrivateKey(name string, priv ed25519.PrivateKey) (*Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("identity: bad private key size %d", len(priv))
	}
	pub := priv.Public().(ed25519.PublicKey)
	return &Signer{
		Identity: Identity{
			ID:        name,
			Type:      TypeEd25519,
			PublicKey: hex.EncodeToString(pub),
		},
		private: priv,
	}, nil
}

// PrivateKeyBytes exposes the raw private key for persistence across
// process restarts. Callers are responsible for storing it securely;
// the key never leaves the Signer during normal signing operations.
func (s *Signer) PrivateKeyBytes() []byte {
	return s.private
}

// Sign signs bytes with the Signer's private key.
func (s *Signer) Sign(bytes []byte) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("identity: nil signer")
	}
	return ed25519.Sign(s.private, bytes), nil
}

// Verify checks sig against bytes under id's public key. Returns false
// (not an error) for a malformed or mismatched key — callers that need
// to distinguish "bad key" from "bad signature" can decode id.PublicKey
// themselves.
func Verify(id Identity, sig, bytes []byte) bool {
	pub, err := hex.DecodeString(id.PublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), bytes, sig)
}

// Provider is the opaque handle passed through to
// access.Controller.CanAppend — in this implementation it is simply the
// set of identities a caller trusts to resolve identity IDs to public
// keys, used by Allowlist-style controllers that need to look a signer
// up by ID rather than trust whatever public key an entry claims.
type Provider struct {
	known map[string]Identity
}

// NewProvider builds a Provider that recognizes the given identities.
func NewProvider(identities ...Identity) *Provider {
	p := &Provider{known: make(map[string]Identity, len(identities))}
	for _, id := range identities {
		p.known[id.ID] = id
	}
	return p
}

// Trust registers an additional identity with the provider.
func (p *Provider) Trust(id Identity) {
	if p.known == nil {
		p.known = make(map[string]Identity)
	}
	p.known[id.ID] = id
}

// Lookup returns the identity known under id, if any.
func (p *Provider) Lookup(id string) (Identity, bool) {
	if p == nil {
		return Identity{}, false
	}
	got, ok := p.known[id]
	return got, ok
}
