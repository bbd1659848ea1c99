package orrery

// SessionContext carries the mount-wide flags a host tracks across remounts.
// It is passed to Mount explicitly and updated by it.
type SessionContext struct {
	// IsInitialized is set once the first session has mounted.
	IsInitialized bool
	// Generation counts mounts, so it increases with every hot reload.
	Generation uint64
}

// begin records a new mount and returns its generation.
func (c *SessionContext) begin() uint64 {
	c.Generation++
	c.IsInitialized = true
	return c.Generation
}

// Reloaded reports whether the current mount replaced an earlier one.
func (c *SessionContext) Reloaded() bool {
	return c.Generation > 1
}
