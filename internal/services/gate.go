package services

import "sync/atomic"

// Gate admits at most one request at a time. Callers that fail to acquire it
// are dropped, not queued.
type Gate struct {
	busy atomic.Bool
}

// TryAcquire takes the gate if it is free
func (g *Gate) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release frees the gate
func (g *Gate) Release() {
	g.busy.Store(false)
}

// Busy reports whether a request holds the gate
func (g *Gate) Busy() bool {
	return g.busy.Load()
}
