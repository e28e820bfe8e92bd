package descriptor

import "sync/atomic"

// Source provides the current descriptor. Components that must observe hot
// reloads hold a Source rather than a *Descriptor.
type Source interface {
	Get() *Descriptor
}

// Runtime holds the current descriptor behind an atomic pointer. Readers never
// block; a reload swaps the whole value, so a reader sees either the old or the
// new descriptor and never a mix.
type Runtime struct {
	ptr atomic.Pointer[Descriptor]
}

// NewRuntime creates a Runtime holding initial.
func NewRuntime(initial *Descriptor) *Runtime {
	r := &Runtime{}
	r.ptr.Store(initial)
	return r
}

// Get returns the current descriptor.
func (r *Runtime) Get() *Descriptor {
	return r.ptr.Load()
}

// Store publishes a new descriptor.
func (r *Runtime) Store(d *Descriptor) {
	r.ptr.Store(d)
}

var _ Source = (*Runtime)(nil)
