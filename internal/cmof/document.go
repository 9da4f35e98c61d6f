package cmof

import "sort"

// DefaultPackageID is the identifier conventionally carried by the root package
const DefaultPackageID = "_0"

// Document is the result of parsing one metamodel file
type Document struct {
	// File is the path or name the document was parsed from
	File string
	// PackageID identifies the root package
	PackageID string
	// ByID indexes every element that carries an identifier
	ByID map[string]*Element
	// Roots lists the top-level packages in document order
	Roots []*Element
}

// NewDocument creates an empty document
func NewDocument(file string) *Document {
	return &Document{
		File:      file,
		PackageID: DefaultPackageID,
		ByID:      make(map[string]*Element),
		Roots:     make([]*Element, 0),
	}
}

// Package returns the root package: the element registered under PackageID,
// falling back to the first top-level package.
func (d *Document) Package() *Element {
	if el, ok := d.ByID[d.PackageID]; ok {
		return el
	}
	if len(d.Roots) > 0 {
		return d.Roots[0]
	}
	return nil
}

// Element returns the element with the given identifier
func (d *Document) Element(id string) (*Element, bool) {
	el, ok := d.ByID[id]
	return el, ok
}

// IDs returns all identifiers in sorted order
func (d *Document) IDs() []string {
	ids := make([]string, 0, len(d.ByID))
	for id := range d.ByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Index wraps an already decoded package, such as an exported fixture read
// with ReadJSON, in a Document. Every nested element carrying an id is
// indexed; the first occurrence of an id wins.
func Index(file string, pkg *Element) *Document {
	doc := NewDocument(file)
	if id := pkg.ID(); id != "" {
		doc.PackageID = id
	}
	doc.Roots = append(doc.Roots, pkg)
	doc.index(pkg)
	return doc
}

func (d *Document) index(el *Element) {
	if id := el.ID(); id != "" {
		if _, ok := d.ByID[id]; !ok {
			d.ByID[id] = el
		}
	}
	for _, a := range el.attrs {
		switch v := a.Value.(type) {
		case *Element:
			if v != nil {
				d.index(v)
			}
		case []*Element:
			for _, child := range v {
				if child != nil {
					d.index(child)
				}
			}
		}
	}
}
