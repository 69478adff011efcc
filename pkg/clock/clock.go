// Package clock implements the Lamport logical clock that timestamps
// every entry in a log.
//
// From Lamport (1978), two implementation rules govern it:
//
//	IR1 (internal event): before creating a new entry, advance to
//	     max(own, own) + 1.
//	IR2 (message receipt): on observing a foreign clock value t,
//	     advance to max(own, t) + 1.
//
// Both collapse into a single Advance call; the caller supplies
// "observed" — either the local clock's own time (IR1) or a remote
// entry's time (IR2).
//
// Less defines a deterministic total order over clocks: higher time is
// later, ties are broken by comparing owner ids lexicographically.
//
// Note: Clock is not goroutine-safe. A Log owns exactly one Clock and
// guards it with its own mutex; see pkg/ipfslog.
package clock

import "encoding/json"

// Clock is a Lamport logical clock: an owner id and a monotone time.
type Clock struct {
	id   string
	time int64
}

type wireClock struct {
	ID   string `json:"id"`
	Time int64  `json:"time"`
}

// MarshalJSON encodes the clock as {"id":...,"time":...}, the shape
// embedded in an entry's canonical tuple and in JSON views of a log.
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireClock{ID: c.id, Time: c.time})
}

// UnmarshalJSON decodes a clock previously encoded by MarshalJSON.
func (c *Clock) UnmarshalJSON(data []byte) error {
	var w wireClock
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.id, c.time = w.ID, w.Time
	return nil
}

// New returns a Clock for the given owner id, seeded at time.
func New(id string, time int64) Clock {
	return Clock{id: id, time: time}
}

// ID returns the clock's owner id; a Log uses its signer's identity ID.
func (c Clock) ID() string { return c.id }

// Time returns the current logical time without advancing it.
func (c Clock) Time() int64 { return c.time }

// Advance returns a new Clock with the same id and time
// max(c.Time(), observed) + 1.
func (c Clock) Advance(observed int64) Clock {
	t := c.time
	if observed > t {
		t = observed
	}
	return Clock{id: c.id, time: t + 1}
}

// WithID returns a copy of c bound to a new owner id, keeping time.
func (c Clock) WithID(id string) Clock {
	return Clock{id: id, time: c.time}
}

// Equal reports whether two clocks have the same id and time.
func (c Clock) Equal(other Clock) bool {
	return c.id == other.id && c.time == other.time
}

// Less defines the deterministic total order over clocks: higher time
// is later; ties are broken by comparing ids lexicographically, higher
// id is later.
func Less(a, b Clock) bool {
	if a.time != b.time {
		return a.time < b.time
	}
	return a.id < b.id
}

// Max returns the later of two clocks under Less. A full tie (equal id
// and time) returns a.
func Max(a, b Clock) Clock {
	if Less(a, b) {
		return b
	}
	return a
}
