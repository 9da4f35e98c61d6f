// Package format renders metamodel elements as indented JSON text
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cmofkit/cmofkit/internal/cmof"
)

// Formatter serializes elements with a stable field order
type Formatter struct {
	config *Config
	buf    *bytes.Buffer
}

// New creates a new Formatter with the given configuration
func New(config *Config) *Formatter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Formatter{
		config: config,
		buf:    new(bytes.Buffer),
	}
}

// Config returns the formatter configuration
func (f *Formatter) Config() *Config {
	return f.config
}

// Format serializes el. Fields appear in attribute order, one per line,
// indented by the configured number of spaces per level.
func (f *Formatter) Format(el *cmof.Element) (string, error) {
	if el == nil {
		return "", fmt.Errorf("nothing to format")
	}

	data, err := el.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to serialize element: %w", err)
	}

	return f.indent(data)
}

// FormatJSON re-indents arbitrary JSON text, keeping member order
func (f *Formatter) FormatJSON(data []byte) (string, error) {
	if !json.Valid(data) {
		return "", fmt.Errorf("invalid JSON")
	}
	return f.indent(data)
}

func (f *Formatter) indent(data []byte) (string, error) {
	f.buf.Reset()
	if err := json.Indent(f.buf, data, "", f.config.Indent()); err != nil {
		return "", err
	}
	if f.config.FinalNewline {
		f.buf.WriteByte('\n')
	}
	return f.buf.String(), nil
}

// FormatFile re-indents the JSON file at path, returning the file content
// and its formatted form as a diff
func FormatFile(path string, config *Config) (*DiffResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	formatted, err := New(config).FormatJSON(content)
	if err != nil {
		return nil, err
	}
	return Diff(string(content), formatted), nil
}
