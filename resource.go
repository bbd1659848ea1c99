package orrery

// resource is the disposal bookkeeping shared by every GPU-resident handle
// (geometry, material, texture, light, helper). Dispose runs the registered
// release hooks exactly once; later calls are no-ops.
type resource struct {
	disposed bool
	hooks    []func()
}

// OnDispose registers fn to run when the resource is released. Backends use
// this to free their uploaded copy. If the resource is already disposed, fn
// runs immediately.
func (r *resource) OnDispose(fn func()) {
	if r.disposed {
		fn()
		return
	}
	r.hooks = append(r.hooks, fn)
}

// Dispose releases the resource. Safe to call more than once.
func (r *resource) Dispose() {
	r.release()
}

// release disposes the resource and reports whether this call did the work.
func (r *resource) release() bool {
	if r.disposed {
		return false
	}
	r.disposed = true
	hooks := r.hooks
	r.hooks = nil
	for _, fn := range hooks {
		fn()
	}
	return true
}

// IsDisposed reports whether Dispose has been called.
func (r *resource) IsDisposed() bool {
	return r.disposed
}
