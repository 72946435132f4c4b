package strategy

import "sync"

// Flight allows at most one in-flight call per caller key.
// A second call for a busy key fails with ErrInFlight; it is not queued.
type Flight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewFlight() *Flight {
	return &Flight{active: make(map[string]struct{})}
}

func (f *Flight) acquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.active[key]; busy {
		return false
	}
	f.active[key] = struct{}{}
	return true
}

func (f *Flight) release(key string) {
	f.mu.Lock()
	delete(f.active, key)
	f.mu.Unlock()
}

// Acquire claims key and returns the function that frees it. Call release
// once the guarded call has resolved; later calls are no-ops.
func (f *Flight) Acquire(key string) (release func(), err error) {
	if !f.acquire(key) {
		return nil, ErrInFlight
	}
	var once sync.Once
	return func() { once.Do(func() { f.release(key) }) }, nil
}
