package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cmofkit/cmofkit/internal/cmof"
)

const sampleFile = "testdata/sample.cmof"

func parsed(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	b := New(opts...)
	require.NoError(t, b.Parse(context.Background(), sampleFile, nil))
	return b
}

func TestBuilder_Parse(t *testing.T) {
	b := New()
	assert.Nil(t, b.Document())
	assert.Nil(t, b.Package())

	var gotPkg *cmof.Element
	var gotDoc *cmof.Document
	err := b.Parse(context.Background(), sampleFile, func(pkg *cmof.Element, doc *cmof.Document) error {
		gotPkg, gotDoc = pkg, doc
		return nil
	})
	require.NoError(t, err)

	require.NotNil(t, gotPkg)
	assert.Equal(t, "_0", gotPkg.ID())
	assert.Same(t, b.Document(), gotDoc)
	assert.Same(t, b.Package(), gotPkg)
	assert.False(t, gotPkg.Has("$type"), "clean mode is the default")
}

func TestBuilder_ParseFailureKeepsDocument(t *testing.T) {
	b := parsed(t)
	previous := b.Document()

	called := false
	err := b.Parse(context.Background(), "testdata/malformed.cmof", func(*cmof.Element, *cmof.Document) error {
		called = true
		return nil
	})
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "testdata/malformed.cmof", perr.File)

	var serr *cmof.SyntaxError
	assert.True(t, errors.As(err, &serr), "parser error is wrapped")

	assert.False(t, called)
	assert.Same(t, previous, b.Document())

	err = b.Parse(context.Background(), "testdata/missing.cmof", nil)
	assert.True(t, errors.As(err, &perr))
	assert.Same(t, previous, b.Document())
}

func TestBuilder_ParseCallbackErrors(t *testing.T) {
	t.Run("returned error", func(t *testing.T) {
		boom := errors.New("boom")
		b := New()

		err := b.Parse(context.Background(), sampleFile, func(*cmof.Element, *cmof.Document) error {
			return boom
		})

		var cerr *CallbackError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, "post-parse", cerr.Op)
		assert.ErrorIs(t, err, boom)
		assert.NotNil(t, b.Document(), "the parsed document stays in place")
	})

	t.Run("panic", func(t *testing.T) {
		b := New()

		err := b.Parse(context.Background(), sampleFile, func(*cmof.Element, *cmof.Document) error {
			panic("exploded")
		})

		var cerr *CallbackError
		require.True(t, errors.As(err, &cerr))
		assert.Contains(t, err.Error(), "panic: exploded")
	})
}

func TestBuilder_ParseCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New()
	err := b.Parse(ctx, sampleFile, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, b.Document())

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, sampleFile, perr.File)

	// an earlier document survives
	b = parsed(t)
	before := b.Document()
	err = b.Parse(ctx, sampleFile, nil)
	assert.True(t, errors.As(err, &perr))
	assert.Same(t, before, b.Document())
}

func TestBuilder_ParseAsync(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("success", func(t *testing.T) {
		b := New()
		done := b.ParseAsync(context.Background(), sampleFile, func(pkg *cmof.Element, _ *cmof.Document) error {
			pkg.Set("prefix", "sample")
			return nil
		})

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("parse did not complete")
		}

		assert.Equal(t, "sample", b.Package().GetString("prefix"))

		// the completion signal fires exactly once
		select {
		case err, ok := <-done:
			t.Fatalf("unexpected second signal: %v %v", err, ok)
		default:
		}
	})

	t.Run("failure", func(t *testing.T) {
		b := New()
		err := <-b.ParseAsync(context.Background(), "testdata/malformed.cmof", nil)

		var perr *ParseError
		assert.True(t, errors.As(err, &perr))
	})
}

func TestBuilder_Options(t *testing.T) {
	t.Run("parser options", func(t *testing.T) {
		b := parsed(t, WithParserOptions(cmof.Options{Clean: false}))
		assert.Equal(t, "cmof:Package", b.Package().GetString("$type"))
	})

	t.Run("nil values keep defaults", func(t *testing.T) {
		b := New(WithLogger(nil), WithFormat(nil))
		assert.NotNil(t, b.logger)
		assert.Equal(t, 2, b.formatConfig.IndentSize)
	})

	t.Run("logger", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		b := parsed(t, WithLogger(zap.New(core)))

		entries := logs.FilterMessage("parsed metamodel").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "Sample", entries[0].ContextMap()["package"])

		b.CleanIDs()
		_, err := b.Serialize()
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("applied hook").Len())
	})
}

func TestBuilder_ElementAndProperty(t *testing.T) {
	b := New()
	_, err := b.Element("Definitions")
	assert.ErrorIs(t, err, ErrNoDocument)

	b = parsed(t)

	el, err := b.Element("Definitions")
	require.NoError(t, err)
	assert.Equal(t, "Definitions", el.Name())

	_, err = b.Element("Nope")
	assert.ErrorIs(t, err, ErrNotFound)

	owner, prop, err := b.Property("Definitions#rootElements")
	require.NoError(t, err)
	assert.Same(t, el, owner)
	assert.Equal(t, "RootElement", prop.GetString("type"))

	_, _, err = b.Property("Definitions#nope")
	var nerr *NotFoundError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "property", nerr.Kind)
	assert.Equal(t, "property <Definitions#nope> does not exist", err.Error())
}
