// Package builder edits parsed CMOF metamodels and exports them as test
// fixtures.
//
// A Builder holds one parsed document at a time. Alterations mutate it in
// place; text hooks registered with PreSerialize, Rename, CleanIDs and
// CleanAssociations run over the serialized package right before export:
//
//	b := builder.New()
//	err := b.Parse(ctx, "BPMN20.cmof", func(pkg *cmof.Element, doc *cmof.Document) error {
//		pkg.Set("prefix", "bpmn")
//		return nil
//	})
//	b.Alter("Definitions#rootElements", builder.Fields{"isMany": true})
//	b.CleanIDs()
//	err = b.ExportTo("bpmn.json")
//
// A Builder is not safe for concurrent use.
package builder

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cmofkit/cmofkit/internal/cmof"
	"github.com/cmofkit/cmofkit/internal/format"
	"github.com/cmofkit/cmofkit/internal/hooks"
)

// PostParseFunc is invoked with the root package and the full document after
// a successful parse
type PostParseFunc func(pkg *cmof.Element, doc *cmof.Document) error

// Builder wraps one parsed metamodel and the hooks applied on export
type Builder struct {
	parserOpts   cmof.Options
	formatConfig *format.Config
	logger       *zap.Logger

	parser    *cmof.Parser
	formatter *format.Formatter
	hooks     *hooks.Executor
	doc       *cmof.Document
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger used for debug output
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithParserOptions sets the parser options. The default is clean mode with
// the conventional root package id.
func WithParserOptions(opts cmof.Options) Option {
	return func(b *Builder) {
		b.parserOpts = opts
	}
}

// WithFormat sets the output formatting configuration
func WithFormat(config *format.Config) Option {
	return func(b *Builder) {
		if config != nil {
			b.formatConfig = config
		}
	}
}

// New creates a new Builder
func New(opts ...Option) *Builder {
	b := &Builder{
		parserOpts:   cmof.Options{Clean: true},
		formatConfig: format.DefaultConfig(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.parser = cmof.NewParser(b.parserOpts)
	b.formatter = format.New(b.formatConfig)
	b.hooks = hooks.NewExecutor(b.logger)
	return b
}

// Parse parses the metamodel at path, replacing the held document, then
// invokes postParse (if non-nil) with the root package.
//
// A parse failure, including a ctx already done, returns a *ParseError and
// keeps the previous document.
// A postParse failure or panic returns a *CallbackError; the new document
// stays in place.
func (b *Builder) Parse(ctx context.Context, path string, postParse PostParseFunc) error {
	if err := ctx.Err(); err != nil {
		return &ParseError{File: path, Err: err}
	}

	doc, err := b.parser.ParseFile(path)
	if err != nil {
		b.logger.Debug("parse failed", zap.String("file", path), zap.Error(err))
		return &ParseError{File: path, Err: err}
	}

	b.doc = doc
	pkg := doc.Package()
	b.logger.Debug("parsed metamodel",
		zap.String("file", path),
		zap.String("package", pkg.Name()),
		zap.Int("elements", len(doc.ByID)))

	if postParse == nil {
		return nil
	}
	return b.invoke("post-parse", func() error {
		return postParse(pkg, doc)
	})
}

// ParseAsync runs Parse in the background. The returned channel receives
// exactly one value: nil on success or the error Parse would have returned.
func (b *Builder) ParseAsync(ctx context.Context, path string, postParse PostParseFunc) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- b.Parse(ctx, path, postParse)
	}()
	return done
}

// invoke runs a caller supplied function, turning errors and panics into
// CallbackErrors
func (b *Builder) invoke(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Debug("callback panicked", zap.String("op", op), zap.Any("panic", r))
			err = &CallbackError{Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if cerr := fn(); cerr != nil {
		return &CallbackError{Op: op, Err: cerr}
	}
	return nil
}

// Document returns the held document, or nil before the first parse
func (b *Builder) Document() *cmof.Document {
	return b.doc
}

// Package returns the root package of the held document
func (b *Builder) Package() *cmof.Element {
	if b.doc == nil {
		return nil
	}
	return b.doc.Package()
}

// Element returns the element with the given id
func (b *Builder) Element(id string) (*cmof.Element, error) {
	if b.doc == nil {
		return nil, ErrNoDocument
	}
	el, ok := b.doc.ByID[id]
	if !ok {
		return nil, &NotFoundError{Kind: "element", Path: id}
	}
	return el, nil
}

// Property resolves elementId#propertyName to the owning element and the
// property
func (b *Builder) Property(path string) (owner, prop *cmof.Element, err error) {
	elementID, name, _ := strings.Cut(path, "#")

	owner, err = b.Element(elementID)
	if err != nil {
		return nil, nil, err
	}
	prop, _ = owner.Property(name)
	if prop == nil {
		return nil, nil, &NotFoundError{Kind: "property", Path: path}
	}
	return owner, prop, nil
}
