// Package metrics provides lightweight process counters for the sync engine.
//
// Counters are plain atomics incremented on hot paths and reported through
// periodic log lines; there is no exporter surface.
package metrics

import "sync/atomic"

// Counters is the shared counter set. A nil-safe zero value is usable.
type Counters struct {
	FramesReceived atomic.Int64 // Valid frames dispatched to the consumer
	FramesDropped  atomic.Int64 // Malformed frames dropped at the socket
	Reconnects     atomic.Int64 // Reconnect attempts scheduled
	FetchCycles    atomic.Int64 // Historical-bar fetch cycles run
	FetchErrors    atomic.Int64 // Fetch cycles that ended in a classified failure
	StaleDiscards  atomic.Int64 // Async results discarded by the epoch guard
	QuotesApplied  atomic.Int64 // Quote frames applied to the book
}

// New returns a fresh counter set.
func New() *Counters {
	return &Counters{}
}

// Snapshot is a point-in-time copy for logging.
type Snapshot struct {
	FramesReceived int64
	FramesDropped  int64
	Reconnects     int64
	FetchCycles    int64
	FetchErrors    int64
	StaleDiscards  int64
	QuotesApplied  int64
}

// Snapshot copies the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		FramesReceived: c.FramesReceived.Load(),
		FramesDropped:  c.FramesDropped.Load(),
		Reconnects:     c.Reconnects.Load(),
		FetchCycles:    c.FetchCycles.Load(),
		FetchErrors:    c.FetchErrors.Load(),
		StaleDiscards:  c.StaleDiscards.Load(),
		QuotesApplied:  c.QuotesApplied.Load(),
	}
}
