package recipe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cmofkit/cmofkit/internal/builder"
)

func loadWorkspace(t *testing.T) *Recipe {
	t.Helper()
	r, err := Load(filepath.Join(workspace(t), "recipe.yaml"))
	require.NoError(t, err)
	return r
}

func before(t *testing.T, text, first, second string) {
	t.Helper()
	i, j := strings.Index(text, first), strings.Index(text, second)
	require.NotEqual(t, -1, i, "%s not found", first)
	require.NotEqual(t, -1, j, "%s not found", second)
	assert.Less(t, i, j, "%s should precede %s", first, second)
}

func TestRender_AppliesAllOperations(t *testing.T) {
	r := loadWorkspace(t)
	fx, err := r.Fixture("sample")
	require.NoError(t, err)

	text, err := r.Render(context.Background(), fx)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Contains(t, text, `"prefix": "smpl"`)
	assert.NotContains(t, text, `"id": "`)
	assert.NotContains(t, text, "RootElement")
	assert.Contains(t, text, `"type": "FlowElement",
          "isMany": false,
          "isComposite": true
        }`)

	// reorder moves name behind exporter
	before(t, text, `"name": "rootElements"`, `"name": "exporter"`)
	before(t, text, `"name": "exporter"`, `"name": "name"`)

	// swap
	before(t, text, `"name": "textFormat"`, `"name": "text"`)
}

func TestRender_KeepTypesAndPackageID(t *testing.T) {
	r := loadWorkspace(t)
	fx, err := r.Fixture("typed")
	require.NoError(t, err)

	text, err := r.Render(context.Background(), fx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "{\n  \"$type\": \"cmof:Class\",\n  \"name\": \"Definitions\""))
	assert.Contains(t, text, `"$type": "cmof:Property"`)
	assert.Contains(t, text, `"id": "Definitions-name"`)
}

func TestExport_WritesOutput(t *testing.T) {
	r := loadWorkspace(t)

	for _, fx := range r.Fixtures {
		want, err := r.Render(context.Background(), &fx)
		require.NoError(t, err)

		out, err := r.Export(context.Background(), &fx)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(r.Dir, fx.Output), out)

		got, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, want, string(got), "fixture %s", fx.Name)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fixture Fixture
		wantErr string
		is      error
	}{
		{
			name: "missing alter target",
			fixture: Fixture{Alter: []AlterEntry{
				{Path: "_0", Set: []SetEntry{{Name: "prefix", Value: "x"}}},
				{Path: "Missing", Unset: []string{"x"}},
			}},
			wantErr: "fixture broken: post-parse callback: alter[1]: element <Missing> does not exist",
			is:      builder.ErrNotFound,
		},
		{
			name:    "missing reorder element",
			fixture: Fixture{Reorder: []ReorderEntry{{Element: "Missing", Properties: []string{"a"}}}},
			wantErr: "fixture broken: reorder[0]: element <Missing> does not exist",
			is:      builder.ErrNotFound,
		},
		{
			name:    "missing reorder property",
			fixture: Fixture{Reorder: []ReorderEntry{{Element: "Definitions", Properties: []string{"name", "nope"}}}},
			wantErr: "fixture broken: reorder[0]: property <Definitions#nope> does not exist",
			is:      builder.ErrNotFound,
		},
		{
			name:    "missing swap property",
			fixture: Fixture{Swap: []SwapEntry{{Element: "Definitions", A: "name", B: "nope"}}},
			wantErr: "fixture broken: swap[0]:",
			is:      builder.ErrNotFound,
		},
		{
			name:    "invalid rename",
			fixture: Fixture{Rename: []RenameEntry{{From: "(", To: "x"}}},
			wantErr: "fixture broken: rename[0]: invalid pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := loadWorkspace(t)
			fx := tt.fixture
			fx.Name = "broken"
			fx.Input = "sample.cmof"
			fx.Output = "broken.json"

			_, err := r.Export(context.Background(), &fx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}

			_, statErr := os.Stat(filepath.Join(r.Dir, "broken.json"))
			assert.True(t, os.IsNotExist(statErr), "nothing is written on failure")
		})
	}

	t.Run("missing input", func(t *testing.T) {
		r := loadWorkspace(t)
		fx := &Fixture{Name: "gone", Input: "gone.cmof", Output: "gone.json"}

		_, err := r.Render(context.Background(), fx)
		var perr *builder.ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, filepath.Join(r.Dir, "gone.cmof"), perr.File)
	})
}

func TestBuild_ForwardsOptions(t *testing.T) {
	r := loadWorkspace(t)
	fx, err := r.Fixture("sample")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	_, err = r.Export(context.Background(), fx, builder.WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("parsed metamodel").Len())
	assert.Equal(t, 1, logs.FilterMessage("exported package").Len())
	assert.Equal(t, 2, logs.FilterMessage("applied hook").Len())
}
