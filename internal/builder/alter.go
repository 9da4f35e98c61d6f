package builder

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cmofkit/cmofkit/internal/cmof"
)

// Patch is a change applied by Alter: either Fields or a Mutator
type Patch interface {
	apply(owner, target *cmof.Element) error
}

// Fields is a patch shallow-merging attributes into the target. Existing
// attributes are overwritten in place; new ones are appended in key order.
type Fields map[string]interface{}

func (f Fields) apply(_, target *cmof.Element) error {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		target.Set(k, f[k])
	}
	return nil
}

// Mutator is a patch performing arbitrary changes. owner is the addressed
// element; target is the addressed property, or the element itself when the
// path names no property.
type Mutator func(owner, target *cmof.Element) error

func (m Mutator) apply(owner, target *cmof.Element) error {
	if m == nil {
		return nil
	}
	return m(owner, target)
}

// Alter applies patch to the element or property addressed by path, which is
// either "elementId" or "elementId#propertyName".
//
// A missing element or property returns a *NotFoundError without touching the
// document. A failing or panicking Mutator returns a *CallbackError.
func (b *Builder) Alter(path string, patch Patch) error {
	if b.doc == nil {
		return ErrNoDocument
	}

	elementID, name, _ := strings.Cut(path, "#")

	owner, err := b.Element(elementID)
	if err != nil {
		return err
	}
	target := owner
	if name != "" {
		if target, _ = owner.Property(name); target == nil {
			return &NotFoundError{Kind: "property", Path: path}
		}
	}

	if patch == nil {
		return nil
	}

	b.logger.Debug("altering", zap.String("path", path))

	if _, ok := patch.(Mutator); ok {
		return b.invoke("alter "+path, func() error {
			return patch.apply(owner, target)
		})
	}
	return patch.apply(owner, target)
}
