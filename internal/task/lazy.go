package task

import "sync"

// once holds a value computed on first use. Reads after the first
// computation take only a read lock.
type once[T any] struct {
	mu    sync.RWMutex
	value T
	set   bool
}

// Get returns the stored value, calling compute to produce it if this is the
// first read. compute runs at most once even under concurrent reads, and its
// result is kept whatever it is, an empty slice included.
func (o *once[T]) Get(compute func() T) T {
	o.mu.RLock()
	if o.set {
		v := o.value
		o.mu.RUnlock()
		return v
	}
	o.mu.RUnlock()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.set {
		return o.value
	}

	o.value = compute()
	o.set = true
	return o.value
}

// IsSet reports whether the value has been computed.
func (o *once[T]) IsSet() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.set
}
