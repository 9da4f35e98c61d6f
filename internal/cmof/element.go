package cmof

// Attr is a single named attribute of an Element
type Attr struct {
	Name  string
	Value interface{}
}

// Element is a node of a parsed metamodel.
//
// Attributes keep their insertion order, which is also the order they are
// serialized in. The identifier lives in the "id" attribute and the ordered
// property sequence in the "properties" attribute.
type Element struct {
	attrs []Attr
}

// NewElement creates an element from the given attributes
func NewElement(attrs ...Attr) *Element {
	e := &Element{attrs: make([]Attr, 0, len(attrs))}
	for _, a := range attrs {
		e.Set(a.Name, a.Value)
	}
	return e
}

func (e *Element) index(name string) int {
	for i, a := range e.attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the value of the named attribute
func (e *Element) Get(name string) (interface{}, bool) {
	if i := e.index(name); i >= 0 {
		return e.attrs[i].Value, true
	}
	return nil, false
}

// Has reports whether the named attribute is present
func (e *Element) Has(name string) bool {
	return e.index(name) >= 0
}

// Set overwrites the named attribute in place, or appends it if absent
func (e *Element) Set(name string, value interface{}) {
	if i := e.index(name); i >= 0 {
		e.attrs[i].Value = value
		return
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

// Delete removes the named attribute and reports whether it was present
func (e *Element) Delete(name string) bool {
	i := e.index(name)
	if i < 0 {
		return false
	}
	e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
	return true
}

// GetString returns the named attribute if it holds a string, or ""
func (e *Element) GetString(name string) string {
	v, _ := e.Get(name)
	s, _ := v.(string)
	return s
}

// GetBool returns the named attribute if it holds a bool, or false
func (e *Element) GetBool(name string) bool {
	v, _ := e.Get(name)
	b, _ := v.(bool)
	return b
}

// Names returns the attribute names in order
func (e *Element) Names() []string {
	names := make([]string, len(e.attrs))
	for i, a := range e.attrs {
		names[i] = a.Name
	}
	return names
}

// Attrs returns a copy of the attribute list
func (e *Element) Attrs() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// Len returns the number of attributes
func (e *Element) Len() int {
	return len(e.attrs)
}

// ID returns the element identifier
func (e *Element) ID() string {
	return e.GetString("id")
}

// Name returns the element name
func (e *Element) Name() string {
	return e.GetString("name")
}

// Children returns the named attribute if it holds a list of elements
func (e *Element) Children(name string) []*Element {
	v, _ := e.Get(name)
	children, _ := v.([]*Element)
	return children
}

// Append adds child to the element list held by the named attribute
func (e *Element) Append(name string, child *Element) {
	e.Set(name, append(e.Children(name), child))
}

// Properties returns the ordered property sequence.
// The returned slice aliases the element's storage.
func (e *Element) Properties() []*Element {
	return e.Children("properties")
}

// SetProperties replaces the property sequence
func (e *Element) SetProperties(props []*Element) {
	e.Set("properties", props)
}

// Property returns the property with the given name and its position,
// or nil and -1 if there is none.
func (e *Element) Property(name string) (*Element, int) {
	for i, p := range e.Properties() {
		if p != nil && p.Name() == name {
			return p, i
		}
	}
	return nil, -1
}
