package recipe

import (
	"context"
	"fmt"

	"github.com/cmofkit/cmofkit/internal/builder"
	"github.com/cmofkit/cmofkit/internal/cmof"
)

// Build parses the fixture input and applies every alteration, reordering
// and export hook the fixture lists. The returned builder is ready to
// serialize.
//
// Alterations run inside the post-parse callback; reorders, swaps and hook
// registrations follow in that order.
func (r *Recipe) Build(ctx context.Context, fx *Fixture, opts ...builder.Option) (*builder.Builder, error) {
	format := r.Format
	base := []builder.Option{
		builder.WithFormat(&format),
		builder.WithParserOptions(cmof.Options{
			Clean:     !fx.KeepTypes,
			PackageID: fx.PackageID,
		}),
	}
	b := builder.New(append(base, opts...)...)

	err := b.Parse(ctx, r.Path(fx.Input), func(*cmof.Element, *cmof.Document) error {
		for i, a := range fx.Alter {
			if err := b.Alter(a.Path, a.patch()); err != nil {
				return fmt.Errorf("alter[%d]: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", fx.Name, err)
	}

	for i, o := range fx.Reorder {
		el, err := b.Element(o.Element)
		if err == nil {
			err = b.ReorderProperties(el, o.Properties...)
		}
		if err != nil {
			return nil, fmt.Errorf("fixture %s: reorder[%d]: %w", fx.Name, i, err)
		}
	}

	for i, s := range fx.Swap {
		el, err := b.Element(s.Element)
		if err == nil {
			err = b.SwapProperties(el, s.A, s.B)
		}
		if err != nil {
			return nil, fmt.Errorf("fixture %s: swap[%d]: %w", fx.Name, i, err)
		}
	}

	for i, n := range fx.Rename {
		if err := b.Rename(n.From, n.To); err != nil {
			return nil, fmt.Errorf("fixture %s: rename[%d]: %w", fx.Name, i, err)
		}
	}

	if fx.Clean.IDs {
		b.CleanIDs()
	}
	if fx.Clean.Associations {
		b.CleanAssociations()
	}

	return b, nil
}

// Render builds the fixture and returns its serialized text
func (r *Recipe) Render(ctx context.Context, fx *Fixture, opts ...builder.Option) (string, error) {
	b, err := r.Build(ctx, fx, opts...)
	if err != nil {
		return "", err
	}

	text, err := b.Serialize()
	if err != nil {
		return "", fmt.Errorf("fixture %s: %w", fx.Name, err)
	}
	return text, nil
}

// Export builds the fixture and writes it to its output file, returning the
// resolved output path
func (r *Recipe) Export(ctx context.Context, fx *Fixture, opts ...builder.Option) (string, error) {
	b, err := r.Build(ctx, fx, opts...)
	if err != nil {
		return "", err
	}

	out := r.Path(fx.Output)
	if err := b.ExportTo(out); err != nil {
		return "", fmt.Errorf("fixture %s: %w", fx.Name, err)
	}
	return out, nil
}

func (a AlterEntry) patch() builder.Patch {
	return builder.Mutator(func(_, target *cmof.Element) error {
		for _, s := range a.Set {
			target.Set(s.Name, s.Value)
		}
		for _, name := range a.Unset {
			target.Delete(name)
		}
		return nil
	})
}
