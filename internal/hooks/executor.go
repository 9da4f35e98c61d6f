package hooks

import (
	"fmt"

	"go.uber.org/zap"
)

// Executor applies registered hooks to text
type Executor struct {
	registry *Registry
	logger   *zap.Logger
}

// NewExecutor creates a new hook executor with an empty registry
func NewExecutor(logger *zap.Logger) *Executor {
	return NewExecutorWithRegistry(NewRegistry(), logger)
}

// NewExecutorWithRegistry creates a new hook executor with an existing registry
func NewExecutorWithRegistry(registry *Registry, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		registry: registry,
		logger:   logger,
	}
}

// Register registers a hook
func (e *Executor) Register(hookType HookType, hook *Hook) {
	e.registry.Register(hookType, hook)
}

// Apply runs every hook of the given type in registration order and returns
// the final text. The registry is left untouched so the same hooks apply
// again on the next call.
func (e *Executor) Apply(hookType HookType, text string) (string, error) {
	for i, hook := range e.registry.GetHooks(hookType) {
		before := len(text)

		out, err := hook.Fn(text)
		if err != nil {
			return "", fmt.Errorf("%s hook %d (%s) failed: %w", hookType, i, hook.Name, err)
		}
		text = out

		e.logger.Debug("applied hook",
			zap.String("type", hookType.String()),
			zap.String("hook", hook.Name),
			zap.Int("bytes_before", before),
			zap.Int("bytes_after", len(text)))
	}
	return text, nil
}

// HasHooks returns true if there are any hooks registered for the given type
func (e *Executor) HasHooks(hookType HookType) bool {
	return e.registry.HasHooks(hookType)
}

// GetRegistry returns the hook registry
func (e *Executor) GetRegistry() *Registry {
	return e.registry
}
