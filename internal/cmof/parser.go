package cmof

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Options configures a Parser
type Options struct {
	// Clean drops parser bookkeeping attributes ($type) from the elements
	Clean bool
	// PackageID identifies the root package; defaults to DefaultPackageID
	PackageID string
}

// Parser reads CMOF (XMI) metamodel files into Documents
type Parser struct {
	opts Options
}

// NewParser creates a new parser
func NewParser(opts Options) *Parser {
	if opts.PackageID == "" {
		opts.PackageID = DefaultPackageID
	}
	return &Parser{opts: opts}
}

// ParseFile parses the metamodel file at path
func (p *Parser) ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f, path)
}

// Parse parses a metamodel from r; name is used in error messages
func (p *Parser) Parse(r io.Reader, name string) (*Document, error) {
	root, err := readTree(r, name)
	if err != nil {
		return nil, err
	}

	b := &docBuilder{
		opts:  p.opts,
		file:  name,
		nodes: make(map[string]*node),
		doc:   NewDocument(name),
	}
	b.doc.PackageID = p.opts.PackageID

	if err := b.index(root); err != nil {
		return nil, err
	}

	var packages []*node
	if kindOf(root) == "Package" {
		packages = append(packages, root)
	} else {
		for _, c := range root.children {
			if kindOf(c) == "Package" {
				packages = append(packages, c)
			}
		}
	}
	if len(packages) == 0 {
		return nil, &SyntaxError{File: name, Line: root.line, Message: "no package element found"}
	}

	for _, n := range packages {
		b.doc.Roots = append(b.doc.Roots, b.buildPackage(n))
	}

	return b.doc, nil
}

// node is a raw XML element
type node struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*node
	line     int
}

func readTree(r io.Reader, file string) (*node, error) {
	dec := xml.NewDecoder(r)

	var root *node
	var stack []*node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			serr := &SyntaxError{File: file, Message: err.Error(), Err: err}
			var xerr *xml.SyntaxError
			if errors.As(err, &xerr) {
				serr.Line = xerr.Line
				serr.Message = xerr.Msg
			}
			return nil, serr
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			n := &node{name: t.Name, attrs: t.Attr, line: line}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, &SyntaxError{File: file, Message: "empty document"}
	}
	return root, nil
}

// attr returns an unqualified attribute
func (n *node) attr(local string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// xmiAttr returns a namespace-qualified attribute such as xmi:id
func (n *node) xmiAttr(local string) string {
	for _, a := range n.attrs {
		if a.Name.Space != "" && a.Name.Space != "xmlns" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func (n *node) childrenNamed(local string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// qualifiedType returns the xmi:type of n, e.g. "cmof:Class"
func qualifiedType(n *node) string {
	if t := n.xmiAttr("type"); t != "" {
		return t
	}
	return "cmof:" + n.name.Local
}

// kindOf returns the unqualified metaclass of n, e.g. "Class"
func kindOf(n *node) string {
	if t := n.xmiAttr("type"); t != "" {
		if i := strings.LastIndex(t, ":"); i >= 0 {
			return t[i+1:]
		}
		return t
	}
	if n.name.Space != "" {
		return n.name.Local
	}
	return ""
}

func isMember(n *node) bool {
	switch n.name.Local {
	case "ownedMember", "packagedElement", "ownedType", "nestedPackage":
		return true
	}
	return false
}

type docBuilder struct {
	opts  Options
	file  string
	nodes map[string]*node
	doc   *Document
}

// index records every xmi:id and rejects duplicates
func (b *docBuilder) index(n *node) error {
	if id := n.xmiAttr("id"); id != "" {
		if _, exists := b.nodes[id]; exists {
			return &SyntaxError{File: b.file, Line: n.line, Message: fmt.Sprintf("duplicate id %q", id)}
		}
		b.nodes[id] = n
	}
	for _, c := range n.children {
		if err := b.index(c); err != nil {
			return err
		}
	}
	return nil
}

// resolve turns an id reference or href into the referenced element's name
func (b *docBuilder) resolve(ref string) string {
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		ref = ref[i+1:]
	}
	if n, ok := b.nodes[ref]; ok {
		if name, ok := n.attr("name"); ok && name != "" {
			return name
		}
	}
	return ref
}

// refOf reads a reference held either in an attribute or in a child element
// carrying href or xmi:idref.
func (b *docBuilder) refOf(n *node, local string) string {
	if v, ok := n.attr(local); ok {
		return b.resolve(v)
	}
	for _, c := range n.childrenNamed(local) {
		if href, ok := c.attr("href"); ok {
			return b.resolve(href)
		}
		if idref := c.xmiAttr("idref"); idref != "" {
			return b.resolve(idref)
		}
	}
	return ""
}

func (b *docBuilder) head(n *node) *Element {
	el := &Element{}
	if !b.opts.Clean {
		el.Set("$type", qualifiedType(n))
	}
	if name, ok := n.attr("name"); ok {
		el.Set("name", name)
	}
	if id := n.xmiAttr("id"); id != "" {
		el.Set("id", id)
		b.doc.ByID[id] = el
	}
	return el
}

// copyAttrs copies the remaining unqualified attributes in document order
func (b *docBuilder) copyAttrs(el *Element, n *node, skip ...string) {
	for _, a := range n.attrs {
		if a.Name.Space != "" || a.Name.Local == "name" || a.Name.Local == "xmlns" {
			continue
		}
		if contains(skip, a.Name.Local) {
			continue
		}
		el.Set(a.Name.Local, convert(a.Value))
	}
}

func (b *docBuilder) buildPackage(n *node) *Element {
	el := b.head(n)
	if uri, ok := n.attr("uri"); ok {
		el.Set("uri", uri)
	}
	b.copyAttrs(el, n, "uri")

	var types, enums, assocs, pkgs []*Element
	for _, c := range n.children {
		if !isMember(c) {
			continue
		}
		switch kindOf(c) {
		case "Class", "DataType", "PrimitiveType":
			types = append(types, b.buildClass(c))
		case "Enumeration":
			enums = append(enums, b.buildEnumeration(c))
		case "Association":
			assocs = append(assocs, b.buildAssociation(c))
		case "Package":
			pkgs = append(pkgs, b.buildPackage(c))
		}
	}

	setList(el, "types", types)
	setList(el, "enumerations", enums)
	setList(el, "associations", assocs)
	setList(el, "packages", pkgs)
	return el
}

func (b *docBuilder) buildClass(n *node) *Element {
	el := b.head(n)

	var supers []string
	if v, ok := n.attr("superClass"); ok {
		for _, ref := range strings.Fields(v) {
			supers = append(supers, b.resolve(ref))
		}
	}
	for _, g := range n.childrenNamed("generalization") {
		if ref := b.refOf(g, "general"); ref != "" {
			supers = append(supers, ref)
		}
	}
	if len(supers) > 0 {
		el.Set("superClass", supers)
	}
	if v, ok := n.attr("isAbstract"); ok {
		el.Set("isAbstract", v == "true")
	}
	b.copyAttrs(el, n, "superClass", "isAbstract")

	var props []*Element
	for _, c := range n.childrenNamed("ownedAttribute") {
		props = append(props, b.buildProperty(c))
	}
	setList(el, "properties", props)
	return el
}

func (b *docBuilder) buildProperty(n *node) *Element {
	el := b.head(n)

	if t := b.refOf(n, "type"); t != "" {
		el.Set("type", t)
	}
	if isMany(n) {
		el.Set("isMany", true)
	}
	b.copyAttrs(el, n, "type", "lower", "upper", "default", "association")

	if v, ok := n.attr("default"); ok {
		el.Set("default", v)
	} else {
		for _, dv := range n.childrenNamed("defaultValue") {
			if v, ok := dv.attr("value"); ok {
				el.Set("default", v)
			}
		}
	}
	if v, ok := n.attr("association"); ok {
		el.Set("association", v)
	}
	return el
}

func (b *docBuilder) buildEnumeration(n *node) *Element {
	el := b.head(n)
	b.copyAttrs(el, n)

	var literals []*Element
	for _, c := range n.childrenNamed("ownedLiteral") {
		lit := b.head(c)
		b.copyAttrs(lit, c, "classifier", "enumeration")
		literals = append(literals, lit)
	}
	setList(el, "literalValues", literals)
	return el
}

func (b *docBuilder) buildAssociation(n *node) *Element {
	el := b.head(n)
	if v, ok := n.attr("memberEnd"); ok {
		el.Set("memberEnd", strings.Fields(v))
	}
	b.copyAttrs(el, n, "memberEnd")

	var ends []*Element
	for _, c := range n.childrenNamed("ownedEnd") {
		ends = append(ends, b.buildProperty(c))
	}
	setList(el, "ownedEnds", ends)
	return el
}

func isMany(n *node) bool {
	upper, ok := n.attr("upper")
	if !ok {
		for _, uv := range n.childrenNamed("upperValue") {
			upper, ok = uv.attr("value")
		}
	}
	if !ok {
		return false
	}
	if upper == "*" {
		return true
	}
	v, err := strconv.Atoi(upper)
	return err == nil && (v > 1 || v < 0)
}

func convert(v string) interface{} {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

func setList(el *Element, name string, items []*Element) {
	if len(items) > 0 {
		el.Set(name, items)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
