package entry

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ipfs/go-cid"

	"github.com/daviddao/ipfslog/pkg/clock"
	"github.com/daviddao/ipfslog/pkg/identity"
)

// canonicalTuple is the exact field set signed for an entry:
// (id, payload, next, clock, identity-without-private-material).
// Field order here is fixed (it is a Go struct, encoded field by field)
// and Next is sorted lexicographically before encoding, so signed and
// hashed bytes stay stable regardless of map/slice iteration order
// upstream.
type canonicalTuple struct {
	ID       string            `json:"id"`
	Payload  []byte            `json:"payload"`
	Next     []string          `json:"next"`
	Clock    clock.Clock       `json:"clock"`
	Identity identity.Identity `json:"identity"`
}

// signedTuple extends canonicalTuple with the resulting signature. This
// is the full object handed to the block store's put() — the block
// store derives the entry's content hash from these bytes, so any
// field (including a forged Sig) changes the hash.
type signedTuple struct {
	canonicalTuple
	Sig []byte `json:"sig"`
}

// CanonicalBytes returns the deterministic byte encoding of the fields
// an identity signs: everything but Sig and Hash.
func CanonicalBytes(logID string, payload []byte, next []cid.Cid, clk clock.Clock, id identity.Identity) ([]byte, error) {
	buf, err := json.Marshal(canonicalTuple{
		ID:       logID,
		Payload:  payload,
		Next:     SortedNextStrings(next),
		Clock:    clk,
		Identity: id,
	})
	if err != nil {
		return nil, fmt.Errorf("entry: canonical encode: %w", err)
	}
	return buf, nil
}

// SignedObjectBytes returns the deterministic byte encoding of the full
// entry object (canonical fields plus the signature) that gets passed
// to the block store and content-addressed.
func SignedObjectBytes(logID string, payload []byte, next []cid.Cid, clk clock.Clock, id identity.Identity, sig []byte) ([]byte, error) {
	buf, err := json.Marshal(signedTuple{
		canonicalTuple: canonicalTuple{
			ID:       logID,
			Payload:  payload,
			Next:     SortedNextStrings(next),
			Clock:    clk,
			Identity: id,
		},
		Sig: sig,
	})
	if err != nil {
		return nil, fmt.Errorf("entry: object encode: %w", err)
	}
	return buf, nil
}

// decodeSignedObject parses bytes previously produced by
// SignedObjectBytes back into its fields, used when materializing an
// Entry fetched from the block store by hash.
func decodeSignedObject(data []byte) (logID string, payload []byte, next []string, clk clock.Clock, id identity.Identity, sig []byte, err error) {
	var t signedTuple
	if err = json.Unmarshal(data, &t); err != nil {
		err = fmt.Errorf("entry: object decode: %w", err)
		return
	}
	return t.ID, t.Payload, t.Next, t.Clock, t.Identity, t.Sig, nil
}

// SortedNextStrings returns the lexicographically sorted string form of
// next, the canonical ordering applied before signing and hashing.
func SortedNextStrings(next []cid.Cid) []string {
	out := make([]string, len(next))
	for i, n := range next {
		out[i] = n.String()
	}
	sort.Strings(out)
	return out
}
