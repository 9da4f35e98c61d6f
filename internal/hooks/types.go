// Package hooks provides ordered text transformation hooks
package hooks

// HookType represents the point at which a hook runs
type HookType int

const (
	// PreSerialize hooks transform the serialized document before it is written
	PreSerialize HookType = iota
)

// String returns the string representation of the hook type
func (h HookType) String() string {
	switch h {
	case PreSerialize:
		return "pre_serialize"
	default:
		return "unknown"
	}
}

// HookFunc transforms text. Hooks run in registration order, each receiving
// the previous hook's output.
type HookFunc func(text string) (string, error)

// Hook represents a registered hook
type Hook struct {
	Name string
	Type HookType
	Fn   HookFunc
}

// Registry holds the hooks of each type in registration order.
// Hooks can only be appended.
type Registry struct {
	hooks map[HookType][]*Hook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{
		hooks: make(map[HookType][]*Hook),
	}
}

// Register appends a hook to the registry
func (r *Registry) Register(hookType HookType, hook *Hook) {
	hook.Type = hookType
	r.hooks[hookType] = append(r.hooks[hookType], hook)
}

// GetHooks returns all hooks for a given type
func (r *Registry) GetHooks(hookType HookType) []*Hook {
	return r.hooks[hookType]
}

// HasHooks returns true if there are any hooks registered for the given type
func (r *Registry) HasHooks(hookType HookType) bool {
	return len(r.hooks[hookType]) > 0
}

// Len returns the number of hooks registered for the given type
func (r *Registry) Len(hookType HookType) int {
	return len(r.hooks[hookType])
}
