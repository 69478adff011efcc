// Package frontier computes Naiad-style progress-tracking frontiers
// over a log's replicas, repurposed from pointstamp/epoch tracking to
// Lamport clocks: the frontier is the antichain of least-advanced
// replica clocks. A replica can safely drop (truncate) history up to
// some clock only once no other known replica's frontier is still
// behind that point — otherwise truncation would discard entries a
// lagging replica has not yet received and cannot re-derive, since
// the log has no source of truth besides the DAG itself.
package frontier

import "github.com/daviddao/ipfslog/pkg/clock"

// PeerFrontier is one replica's most recently observed clock.
type PeerFrontier struct {
	PeerID string
	Clock  clock.Clock
}

// ComputeFrontier returns the antichain of least-advanced peers: a
// peer p is in the frontier iff no other peer q has a clock time
// strictly earlier than p's. Peers at equal time are all kept.
func ComputeFrontier(active []PeerFrontier) []PeerFrontier {
	var out []PeerFrontier
	for _, p := range active {
		dominated := false
		for _, q := range active {
			if q.PeerID != p.PeerID && q.Clock.Time() < p.Clock.Time() {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, p)
		}
	}
	return out
}

// TruncationReport is the result of a truncation safety check against
// a set of known peer clocks.
type TruncationReport struct {
	SafeToTruncate bool
	Frontier       []PeerFrontier
	BlockedBy      []PeerFrontier
}

// ComputeTruncationSafety checks whether localID may safely truncate
// its log up to and including cutoff. It is unsafe whenever some other
// known peer's clock time is at or behind cutoff's time — that peer may
// still need entries truncation would discard.
func ComputeTruncationSafety(localID string, cutoff clock.Clock, peers []PeerFrontier) TruncationReport {
	report := TruncationReport{
		SafeToTruncate: true,
		Frontier:       ComputeFrontier(peers),
	}
	for _, p := range peers {
		if p.PeerID == localID {
			continue
		}
		if lessEq(p.Clock, cutoff) {
			report.SafeToTruncate = false
			report.BlockedBy = append(report.BlockedBy, p)
		}
	}
	return report
}

// lessEq reports whether a's time is not strictly ahead of b's.
func lessEq(a, b clock.Clock) bool {
	return a.Time() <= b.Time()
}
