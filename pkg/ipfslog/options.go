package ipfslog

import (
	"github.com/daviddao/ipfslog/pkg/access"
	"github.com/daviddao/ipfslog/pkg/clock"
)

// Options configures a new Log. All fields are optional; New fills in
// defaults for anything left zero.
type Options struct {
	// ID identifies the log across replicas. If empty, New derives one
	// from the current time.
	ID string

	// AccessController gates which identities may append or be
	// admitted during Join. Defaults to access.AllowAll{}.
	AccessController access.Controller

	// Clock seeds the log's logical clock. Defaults to time 0 under the
	// signer's identity.
	Clock clock.Clock

	// Entries preloads the log with existing entries (used by the
	// From* constructors in load.go). Order does not matter; heads are
	// recomputed from the DAG shape.
	Entries []*Entry
}
