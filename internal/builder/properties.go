package builder

import (
	"slices"

	"go.uber.org/zap"

	"github.com/cmofkit/cmofkit/internal/cmof"
)

// ReorderProperties moves the named properties of el so they follow each
// other in the given order. The first name keeps its slot; every following
// name is moved right behind the previously placed one. Other properties
// keep their relative order.
//
// All names are checked before anything moves; an unknown name returns a
// *NotFoundError.
func (b *Builder) ReorderProperties(el *cmof.Element, names ...string) error {
	if el == nil {
		return &NotFoundError{Kind: "element", Path: "<nil>"}
	}

	targets := make([]*cmof.Element, len(names))
	for i, name := range names {
		prop, _ := el.Property(name)
		if prop == nil {
			return &NotFoundError{Kind: "property", Path: propertyPath(el, name)}
		}
		targets[i] = prop
	}
	if len(targets) < 2 {
		return nil
	}

	props := slices.Clone(el.Properties())
	last := targets[0]
	for _, prop := range targets[1:] {
		if prop == last {
			continue
		}
		props = slices.Delete(props, slices.Index(props, prop), slices.Index(props, prop)+1)
		props = slices.Insert(props, slices.Index(props, last)+1, prop)
		last = prop
	}
	el.SetProperties(props)

	b.logger.Debug("reordered properties",
		zap.String("element", el.ID()),
		zap.Strings("names", names))
	return nil
}

// SwapProperties exchanges the positions of two properties of el.
// An unknown name returns a *NotFoundError.
func (b *Builder) SwapProperties(el *cmof.Element, first, second string) error {
	if el == nil {
		return &NotFoundError{Kind: "element", Path: "<nil>"}
	}

	_, i := el.Property(first)
	if i < 0 {
		return &NotFoundError{Kind: "property", Path: propertyPath(el, first)}
	}
	_, j := el.Property(second)
	if j < 0 {
		return &NotFoundError{Kind: "property", Path: propertyPath(el, second)}
	}

	props := slices.Clone(el.Properties())
	props[i], props[j] = props[j], props[i]
	el.SetProperties(props)

	b.logger.Debug("swapped properties",
		zap.String("element", el.ID()),
		zap.String("first", first),
		zap.String("second", second))
	return nil
}

func propertyPath(el *cmof.Element, name string) string {
	id := el.ID()
	if id == "" {
		id = el.Name()
	}
	return id + "#" + name
}
