// Package entry implements the DAG node of the log: an immutable,
// signed, content-addressed record pointing at its causal
// predecessors. Construction builds the canonical tuple, signs it,
// hands the signed object to the block store, and wears whatever hash
// the store returns.
package entry

import (
	"context"
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/daviddao/ipfslog/pkg/blockstore"
	"github.com/daviddao/ipfslog/pkg/clock"
	"github.com/daviddao/ipfslog/pkg/identity"
	"github.com/daviddao/ipfslog/pkg/ipfslogerr"
)

// Entry is one node of the log DAG.
type Entry struct {
	Hash     cid.Cid
	LogID    string
	Payload  []byte
	Next     []cid.Cid
	Clock    clock.Clock
	Identity identity.Identity
	Sig      []byte
}

// GetIdentity satisfies access.Entry.
func (e *Entry) GetIdentity() identity.Identity { return e.Identity }

// GetHash returns the entry's content address.
func (e *Entry) GetHash() cid.Cid { return e.Hash }

// GetNext returns the entry's causal predecessors.
func (e *Entry) GetNext() []cid.Cid { return e.Next }

// GetClock returns the entry's Lamport clock.
func (e *Entry) GetClock() clock.Clock { return e.Clock }

// GetPayload returns the entry's application payload.
func (e *Entry) GetPayload() []byte { return e.Payload }

// GetLogID returns the identifier of the log this entry belongs to.
func (e *Entry) GetLogID() string { return e.LogID }

// Create assembles a new entry, signs it with signer, persists the
// signed object in store, and returns the populated Entry with its
// content hash set from whatever the store computed.
func Create(ctx context.Context, store blockstore.Store, signer *identity.Signer, logID string, payload []byte, next []cid.Cid, clk clock.Clock) (*Entry, error) {
	if store == nil {
		return nil, ipfslogerr.ErrMissingStore
	}
	if signer == nil {
		return nil, ipfslogerr.ErrMissingIdentity
	}
	if logID == "" {
		return nil, fmt.Errorf("entry: create: %w: empty log id", ipfslogerr.ErrInvalidArgument)
	}

	canonical, err := CanonicalBytes(logID, payload, next, clk, signer.Identity)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(canonical)
	if err != nil {
		return nil, fmt.Errorf("entry: sign: %w", err)
	}
	object, err := SignedObjectBytes(logID, payload, next, clk, signer.Identity, sig)
	if err != nil {
		return nil, err
	}

	hash, err := store.Put(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("entry: put: %w", err)
	}

	return &Entry{
		Hash:     hash,
		LogID:    logID,
		Payload:  payload,
		Next:     next,
		Clock:    clk,
		Identity: signer.Identity,
		Sig:      sig,
	}, nil
}

// Decode materializes an Entry from bytes previously returned by a
// block store's Get, given the hash it was fetched under.
func Decode(hash cid.Cid, object []byte) (*Entry, error) {
	logID, payload, nextStrs, clk, id, sig, err := decodeSignedObject(object)
	if err != nil {
		return nil, err
	}
	next := make([]cid.Cid, len(nextStrs))
	for i, s := range nextStrs {
		c, err := cid.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("entry: decode next[%d]: %w", i, err)
		}
		next[i] = c
	}
	return &Entry{
		Hash:     hash,
		LogID:    logID,
		Payload:  payload,
		Next:     next,
		Clock:    clk,
		Identity: id,
		Sig:      sig,
	}, nil
}

// Verify reports whether e's signature matches its canonical fields.
// A tampered payload, clock, or next set fails this check because the
// canonical bytes it re-derives won't match what was originally
// signed.
func (e *Entry) Verify() bool {
	canonical, err := CanonicalBytes(e.LogID, e.Payload, e.Next, e.Clock, e.Identity)
	if err != nil {
		return false
	}
	return identity.Verify(e.Identity, e.Sig, canonical)
}

// VerifyAgainstHash re-derives the entry's object bytes and confirms
// they hash to want — used after fetching an entry from an untrusted
// or remote block store, where the hash is the only thing the caller
// already believed.
func (e *Entry) VerifyAgainstHash(want cid.Cid) bool {
	object, err := SignedObjectBytes(e.LogID, e.Payload, e.Next, e.Clock, e.Identity, e.Sig)
	if err != nil {
		return false
	}
	got, err := blockstore.ContentHash(object)
	if err != nil {
		return false
	}
	return got.Equals(want)
}
