package hooks

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExecutor_ApplyInOrder(t *testing.T) {
	executor := NewExecutor(zap.NewNop())

	executor.Register(PreSerialize, &Hook{Name: "upper", Fn: func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}})
	executor.Register(PreSerialize, &Hook{Name: "suffix", Fn: func(s string) (string, error) {
		return s + "-done", nil
	}})

	out, err := executor.Apply(PreSerialize, "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC-done", out)

	// hooks are applied, not consumed
	out, err = executor.Apply(PreSerialize, "x")
	require.NoError(t, err)
	assert.Equal(t, "X-done", out)
	assert.True(t, executor.HasHooks(PreSerialize))
	assert.Equal(t, 2, executor.GetRegistry().Len(PreSerialize))
}

func TestExecutor_ApplyNoHooks(t *testing.T) {
	executor := NewExecutor(nil)

	out, err := executor.Apply(PreSerialize, "unchanged")
	require.NoError(t, err)
	assert.Equal(t, "unchanged", out)
}

func TestExecutor_ApplyError(t *testing.T) {
	boom := errors.New("boom")
	called := false

	executor := NewExecutor(nil)
	executor.Register(PreSerialize, &Hook{Name: "fails", Fn: func(s string) (string, error) {
		return "", boom
	}})
	executor.Register(PreSerialize, &Hook{Name: "after", Fn: func(s string) (string, error) {
		called = true
		return s, nil
	}})

	_, err := executor.Apply(PreSerialize, "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pre_serialize hook 0 (fails)")
	assert.False(t, called, "hooks after a failure must not run")
}

func TestNewExecutorWithRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register(PreSerialize, &Hook{Name: "noop", Fn: noop})

	executor := NewExecutorWithRegistry(registry, nil)
	assert.Same(t, registry, executor.GetRegistry())
	assert.True(t, executor.HasHooks(PreSerialize))
}
