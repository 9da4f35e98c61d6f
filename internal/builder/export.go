package builder

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cmofkit/cmofkit/internal/hooks"
)

// PreSerialize appends a hook transforming the serialized text before export
func (b *Builder) PreSerialize(name string, fn hooks.HookFunc) {
	b.hooks.Register(hooks.PreSerialize, &hooks.Hook{Name: name, Fn: fn})
}

// Rename registers a hook replacing every match of the pattern oldName with
// newName anywhere in the serialized text. oldName is a regular expression;
// escape it to match literally.
func (b *Builder) Rename(oldName, newName string) error {
	fn, err := hooks.Replace(oldName, newName)
	if err != nil {
		return err
	}
	b.PreSerialize(fmt.Sprintf("rename %s to %s", oldName, newName), fn)
	return nil
}

// CleanIDs registers a hook removing all "id" members from the output
func (b *Builder) CleanIDs() {
	b.PreSerialize("clean ids", hooks.StripField("id"))
}

// CleanAssociations registers a hook removing all "association" members from
// the output
func (b *Builder) CleanAssociations() {
	b.PreSerialize("clean associations", hooks.StripField("association"))
}

// Hooks returns the registered pre-serialize hooks in order
func (b *Builder) Hooks() []*hooks.Hook {
	return b.hooks.GetRegistry().GetHooks(hooks.PreSerialize)
}

// Serialize renders the root package and runs every pre-serialize hook over
// the result in registration order
func (b *Builder) Serialize() (string, error) {
	if b.doc == nil {
		return "", ErrNoDocument
	}

	text, err := b.formatter.Format(b.doc.Package())
	if err != nil {
		return "", fmt.Errorf("failed to serialize package: %w", err)
	}

	return b.hooks.Apply(hooks.PreSerialize, text)
}

// ExportTo serializes the root package and writes it to path.
// Write failures are returned as *IOError.
func (b *Builder) ExportTo(path string) error {
	text, err := b.Serialize()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return &IOError{Path: path, Err: err}
	}

	b.logger.Debug("exported package",
		zap.String("file", path),
		zap.Int("bytes", len(text)),
		zap.Int("hooks", len(b.Hooks())))
	return nil
}
