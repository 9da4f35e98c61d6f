package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmofkit/cmofkit/internal/cmof"
)

func sampleElement() *cmof.Element {
	return cmof.NewElement(
		cmof.Attr{Name: "name", Value: "Definitions"},
		cmof.Attr{Name: "id", Value: "Definitions"},
		cmof.Attr{Name: "superClass", Value: []string{"BaseElement"}},
		cmof.Attr{Name: "properties", Value: []*cmof.Element{
			cmof.NewElement(
				cmof.Attr{Name: "name", Value: "rootElements"},
				cmof.Attr{Name: "type", Value: "RootElement"},
				cmof.Attr{Name: "isMany", Value: true},
			),
		}},
	)
}

func TestFormatter_Format(t *testing.T) {
	expected := `{
  "name": "Definitions",
  "id": "Definitions",
  "superClass": [
    "BaseElement"
  ],
  "properties": [
    {
      "name": "rootElements",
      "type": "RootElement",
      "isMany": true
    }
  ]
}`

	result, err := New(nil).Format(sampleElement())
	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestFormatter_IndentAndNewline(t *testing.T) {
	formatter := New(&Config{IndentSize: 4, FinalNewline: true})

	el := cmof.NewElement(cmof.Attr{Name: "name", Value: "A"})
	result, err := formatter.Format(el)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"name\": \"A\"\n}\n", result)
	assert.Equal(t, 4, formatter.Config().IndentSize)
}

func TestFormatter_NoHTMLEscaping(t *testing.T) {
	el := cmof.NewElement(cmof.Attr{Name: "default", Value: "<a & b>"})

	result, err := New(nil).Format(el)
	require.NoError(t, err)
	assert.Contains(t, result, `"default": "<a & b>"`)
}

func TestFormatter_Reuse(t *testing.T) {
	formatter := New(nil)

	first, err := formatter.Format(cmof.NewElement(cmof.Attr{Name: "name", Value: "A"}))
	require.NoError(t, err)
	second, err := formatter.Format(cmof.NewElement(cmof.Attr{Name: "name", Value: "B"}))
	require.NoError(t, err)

	assert.NotContains(t, second, `"A"`)
	assert.NotEqual(t, first, second)
}

func TestFormatter_Errors(t *testing.T) {
	_, err := New(nil).Format(nil)
	assert.Error(t, err)

	_, err = New(nil).Format(cmof.NewElement(cmof.Attr{Name: "bad", Value: func() {}}))
	assert.Error(t, err)

	_, err = New(nil).FormatJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestFormatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compact.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"z":1,"a":[true]}`), 0644))

	result, err := FormatFile(path, nil)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, `{"z":1,"a":[true]}`, result.Existing)
	assert.Equal(t, "{\n  \"z\": 1,\n  \"a\": [\n    true\n  ]\n}", result.Generated)

	result, err = FormatFile(path, &Config{IndentSize: 2})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(result.Generated), 0644))
	result, err = FormatFile(path, &Config{IndentSize: 2})
	require.NoError(t, err)
	assert.False(t, result.Changed)

	_, err = FormatFile(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"z":`), 0644))
	_, err = FormatFile(bad, nil)
	assert.Error(t, err)
}
