// Package recipe loads YAML descriptions of fixture builds and runs them
// through the builder.
package recipe

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/cmofkit/cmofkit/internal/format"
)

// EnvPrefix prefixes environment variables overriding recipe settings,
// e.g. CMOFKIT_FORMAT_INDENT_SIZE
const EnvPrefix = "CMOFKIT"

// Recipe represents one recipe file
type Recipe struct {
	// File is the absolute path the recipe was loaded from
	File string `mapstructure:"-"`
	// Dir is the directory relative fixture paths resolve against
	Dir string `mapstructure:"-"`

	Format   format.Config `mapstructure:"format"`
	Fixtures []Fixture     `mapstructure:"fixtures"`
}

// Fixture describes how one metamodel file becomes one JSON fixture
type Fixture struct {
	Name      string `mapstructure:"name"`
	Input     string `mapstructure:"input"`
	Output    string `mapstructure:"output"`
	PackageID string `mapstructure:"package_id"`
	// KeepTypes disables clean mode so elements carry $type
	KeepTypes bool `mapstructure:"keep_types"`

	Alter   []AlterEntry   `mapstructure:"alter"`
	Reorder []ReorderEntry `mapstructure:"reorder"`
	Swap    []SwapEntry    `mapstructure:"swap"`
	Rename  []RenameEntry  `mapstructure:"rename"`
	Clean   CleanOptions   `mapstructure:"clean"`
}

// AlterEntry sets and removes attributes of one element or property
type AlterEntry struct {
	Path  string     `mapstructure:"path"`
	Set   []SetEntry `mapstructure:"set"`
	Unset []string   `mapstructure:"unset"`
}

// SetEntry assigns Value to the attribute Name
type SetEntry struct {
	Name  string      `mapstructure:"name"`
	Value interface{} `mapstructure:"value"`
}

// ReorderEntry moves properties of an element behind the first one listed
type ReorderEntry struct {
	Element    string   `mapstructure:"element"`
	Properties []string `mapstructure:"properties"`
}

// SwapEntry exchanges two properties of an element
type SwapEntry struct {
	Element string `mapstructure:"element"`
	A       string `mapstructure:"a"`
	B       string `mapstructure:"b"`
}

// RenameEntry replaces a pattern in the serialized output
type RenameEntry struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// CleanOptions strips members from the serialized output
type CleanOptions struct {
	IDs          bool `mapstructure:"ids"`
	Associations bool `mapstructure:"associations"`
}

// Load reads the recipe at path
func Load(path string) (*Recipe, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	v := viper.New()

	v.SetDefault("format.indent_size", 2)
	v.SetDefault("format.final_newline", false)

	v.SetConfigFile(abs)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read recipe %s: %w", path, err)
	}

	var r Recipe
	if err := v.Unmarshal(&r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", path, err)
	}
	r.File = abs
	r.Dir = filepath.Dir(abs)

	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe %s: %w", path, err)
	}

	return &r, nil
}

// Validate checks the recipe for missing or conflicting settings
func (r *Recipe) Validate() error {
	if r.Format.IndentSize < 0 {
		return fmt.Errorf("format.indent_size must not be negative, got: %d", r.Format.IndentSize)
	}
	if len(r.Fixtures) == 0 {
		return fmt.Errorf("no fixtures defined")
	}

	seen := make(map[string]bool, len(r.Fixtures))
	for i := range r.Fixtures {
		fx := &r.Fixtures[i]
		if fx.Name == "" {
			return fmt.Errorf("fixtures[%d]: name is required", i)
		}
		if seen[fx.Name] {
			return fmt.Errorf("fixtures[%d]: duplicate fixture name %q", i, fx.Name)
		}
		seen[fx.Name] = true

		if err := fx.validate(); err != nil {
			return fmt.Errorf("fixture %s: %w", fx.Name, err)
		}
	}
	return nil
}

func (fx *Fixture) validate() error {
	if fx.Input == "" {
		return fmt.Errorf("input is required")
	}
	if fx.Output == "" {
		return fmt.Errorf("output is required")
	}

	for i, a := range fx.Alter {
		if a.Path == "" {
			return fmt.Errorf("alter[%d]: path is required", i)
		}
		if len(a.Set) == 0 && len(a.Unset) == 0 {
			return fmt.Errorf("alter[%d]: nothing to set or unset on %s", i, a.Path)
		}
		for j, s := range a.Set {
			if s.Name == "" {
				return fmt.Errorf("alter[%d]: set[%d]: name is required", i, j)
			}
		}
	}

	for i, o := range fx.Reorder {
		if o.Element == "" {
			return fmt.Errorf("reorder[%d]: element is required", i)
		}
		if len(o.Properties) == 0 {
			return fmt.Errorf("reorder[%d]: properties are required", i)
		}
	}

	for i, s := range fx.Swap {
		if s.Element == "" || s.A == "" || s.B == "" {
			return fmt.Errorf("swap[%d]: element, a and b are required", i)
		}
	}

	for i, n := range fx.Rename {
		if n.From == "" {
			return fmt.Errorf("rename[%d]: from is required", i)
		}
	}
	return nil
}

// Fixture returns the fixture with the given name
func (r *Recipe) Fixture(name string) (*Fixture, error) {
	for i := range r.Fixtures {
		if r.Fixtures[i].Name == name {
			return &r.Fixtures[i], nil
		}
	}
	return nil, fmt.Errorf("fixture %q not found in %s", name, r.File)
}

// Select returns the named fixture, or all fixtures when name is empty
func (r *Recipe) Select(name string) ([]*Fixture, error) {
	if name != "" {
		fx, err := r.Fixture(name)
		if err != nil {
			return nil, err
		}
		return []*Fixture{fx}, nil
	}

	out := make([]*Fixture, len(r.Fixtures))
	for i := range r.Fixtures {
		out[i] = &r.Fixtures[i]
	}
	return out, nil
}

// Path resolves p against the recipe directory
func (r *Recipe) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.Dir, p)
}

// Inputs returns the resolved input files of every fixture, without
// duplicates
func (r *Recipe) Inputs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, fx := range r.Fixtures {
		p := r.Path(fx.Input)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
