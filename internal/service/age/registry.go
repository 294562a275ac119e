package age

import "sync"

// Registry holds the age Calculator capability, which may become available
// after the catalog initializer is constructed. Ready is closed exactly once,
// on the first non-nil Provide.
type Registry struct {
	mu    sync.RWMutex
	calc  Calculator
	ready chan struct{}
	once  sync.Once
}

func NewRegistry() *Registry {
	return &Registry{ready: make(chan struct{})}
}

// NewReadyRegistry returns a registry that already holds calc.
func NewReadyRegistry(calc Calculator) *Registry {
	r := NewRegistry()
	r.Provide(calc)
	return r
}

// Provide publishes calc. Later calls are ignored so the capability seen by
// waiters never changes underneath them.
func (r *Registry) Provide(calc Calculator) {
	if calc == nil {
		return
	}
	r.once.Do(func() {
		r.mu.Lock()
		r.calc = calc
		r.mu.Unlock()
		close(r.ready)
	})
}

// Calculator returns the capability if it has been provided.
func (r *Registry) Calculator() (Calculator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calc, r.calc != nil
}

// Ready is closed once a Calculator has been provided.
func (r *Registry) Ready() <-chan struct{} {
	return r.ready
}
