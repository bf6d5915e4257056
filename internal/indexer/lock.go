package indexer

import "sync/atomic"

// BuildLock provides non-blocking lock semantics for index rebuilds.
// A second explore while one is running must fail fast with an
// indexing-in-progress error instead of queueing behind the first.
type BuildLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking.
// Returns true if the lock was successfully acquired, false otherwise.
func (l *BuildLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the goroutine that successfully acquired the lock.
func (l *BuildLock) Release() {
	l.state.Store(0)
}
