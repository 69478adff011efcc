// Package blockstore implements the content-addressed block store
// collaborator: put(object) -> hash, get(hash) -> object. The log
// core (pkg/ipfslog, pkg/entry) treats this as an external
// dependency; this package supplies two concrete, usable
// implementations rather than leaving callers to bring their own.
package blockstore

import (
	"context"
	"fmt"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"

	"github.com/daviddao/ipfslog/pkg/ipfslogerr"
)

// hashCodec is the CID codec tag applied to every object this package
// content-addresses. dag-cbor is the codec ipfs-log/orbit-db settle on
// for entry hashes; reusing the tag keeps hashes produced here
// self-describing in the same namespace other IPFS-flavored tooling
// expects, even though this store speaks JSON-encoded objects rather
// than actual CBOR.
const hashCodec = cid.DagCBOR

// ContentHash derives the content address of an arbitrary byte object:
// a sha2-256 multihash wrapped in a CIDv1. Both Store implementations
// use this so identical bytes always produce identical hashes,
// regardless of which store persisted them — the core
// content-addressing invariant.
func ContentHash(object []byte) (cid.Cid, error) {
	digest, err := mh.Sum(object, mh.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("blockstore: hash: %w", err)
	}
	return cid.NewCidV1(hashCodec, digest), nil
}

// Store is the put/get capability set every block store implements.
type Store interface {
	// Put persists a canonical serialization and returns its content
	// address.
	Put(ctx context.Context, object []byte) (cid.Cid, error)

	// Get retrieves an object by hash. Returns ipfslogerr.ErrNotFound,
	// wrapped, when the hash is unknown — distinguishable from a
	// genuine transport/storage failure.
	Get(ctx context.Context, hash cid.Cid) ([]byte, error)

	// Has reports whether hash is present without fetching the object.
	Has(ctx context.Context, hash cid.Cid) (bool, error)

	// Close releases any underlying resources (file handles,
	// connections). Safe to call on stores with nothing to release.
	Close() error
}

// ErrNotFound re-exports ipfslogerr.ErrNotFound for callers that only
// import this package.
var ErrNotFound = ipfslogerr.ErrNotFound
