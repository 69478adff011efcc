// Package ipfslogerr defines the sentinel error values returned by
// pkg/ipfslog, pkg/entry and pkg/blockstore.
//
// Call sites wrap a sentinel with fmt.Errorf("...: %w", Err...) so
// callers can still errors.Is against the taxonomy while getting a
// useful message. No custom error type, no panics — plain errors.
package ipfslogerr

import "errors"

var (
	// ErrMissingStore is returned when a Log is constructed or loaded
	// without a block store.
	ErrMissingStore = errors.New("ipfslog: missing block store")

	// ErrMissingAccessController names a Log constructed without an
	// access controller. ipfslog.New substitutes access.AllowAll in that
	// case, so no constructor in this module returns it.
	ErrMissingAccessController = errors.New("ipfslog: missing access controller")

	// ErrMissingIdentity is returned when a Log is constructed without
	// an identity.
	ErrMissingIdentity = errors.New("ipfslog: missing identity")

	// ErrInvalidArgument covers malformed constructor/load arguments:
	// entries/heads that aren't a valid sequence, or a missing hash on
	// load.
	ErrInvalidArgument = errors.New("ipfslog: invalid argument")

	// ErrLogNotDefined is returned when a Join target is nil.
	ErrLogNotDefined = errors.New("ipfslog: log not defined")

	// ErrNotALog names a Join target that does not satisfy the minimal
	// log shape. Join takes a typed *Log, so no code path in this module
	// returns it.
	ErrNotALog = errors.New("ipfslog: not a log")

	// ErrAppendDenied is returned when the access controller rejects a
	// local append.
	ErrAppendDenied = errors.New("ipfslog: append denied")

	// ErrJoinDenied is returned when the access controller rejects any
	// entry being merged in during Join.
	ErrJoinDenied = errors.New("ipfslog: join denied")

	// ErrSignatureInvalid is returned when a joined entry's signature
	// fails verification.
	ErrSignatureInvalid = errors.New("ipfslog: signature invalid")

	// ErrStorageFailure names a block store I/O failure. The block stores
	// in this module return the driver's error wrapped directly instead.
	ErrStorageFailure = errors.New("ipfslog: storage failure")

	// ErrNotFound is returned by a block store when a hash is absent.
	// Distinct from ErrStorageFailure so callers can tell "not there"
	// apart from "couldn't ask".
	ErrNotFound = errors.New("ipfslog: object not found")
)
