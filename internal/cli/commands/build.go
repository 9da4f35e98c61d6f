package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmofkit/cmofkit/internal/builder"
	"github.com/cmofkit/cmofkit/internal/cli/ui"
	"github.com/cmofkit/cmofkit/internal/format"
	"github.com/cmofkit/cmofkit/internal/recipe"
)

var (
	buildFixture string
	buildCheck   bool
)

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [recipe]",
		Short: "Build JSON fixtures from a recipe",
		Long: `Parse the metamodels listed in a recipe, apply its edits and write the
resulting fixtures. The recipe defaults to ` + DefaultRecipe + ` in the current
directory.

With --check nothing is written: every fixture is rebuilt in memory and
compared with the file on disk, and the command fails if any differ.`,
		Example: `  # Build every fixture
  cmofkit build

  # Build one fixture from a specific recipe
  cmofkit build test/fixtures.yaml --fixture bpmn

  # Verify committed fixtures are current (useful in CI)
  cmofkit build --check`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}

	cmd.Flags().StringVarP(&buildFixture, "fixture", "f", "", "Build only the named fixture")
	cmd.Flags().BoolVarP(&buildCheck, "check", "c", false, "Check fixtures are up to date without writing (exit 1 if not)")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	path := DefaultRecipe
	if len(args) > 0 {
		path = args[0]
	}

	r, err := recipe.Load(path)
	if err != nil {
		return err
	}

	fixtures, err := selectFixtures(r, path, buildFixture)
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if buildCheck {
		return checkFixtures(cmd.Context(), cmd.OutOrStdout(), r, path, fixtures, logger)
	}
	return exportFixtures(cmd.Context(), cmd.OutOrStdout(), r, fixtures, logger)
}

// selectFixtures resolves the --fixture flag against the recipe
func selectFixtures(r *recipe.Recipe, path, name string) ([]*recipe.Fixture, error) {
	fixtures, err := r.Select(name)
	if err == nil {
		return fixtures, nil
	}

	names := make([]string, len(r.Fixtures))
	for i, fx := range r.Fixtures {
		names[i] = fx.Name
	}
	return nil, &unknownFixtureError{recipe: path, name: name, candidates: names}
}

func exportFixtures(ctx context.Context, w io.Writer, r *recipe.Recipe, fixtures []*recipe.Fixture, logger *zap.Logger) error {
	for _, fx := range fixtures {
		out, err := r.Export(ctx, fx, builder.WithLogger(logger))
		if err != nil {
			return err
		}
		ui.WriteSuccess(w, fmt.Sprintf("%s → %s", fx.Name, out), color.NoColor)
	}
	return nil
}

func checkFixtures(ctx context.Context, w io.Writer, r *recipe.Recipe, path string, fixtures []*recipe.Fixture, logger *zap.Logger) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	errorColor := color.New(color.FgRed, color.Bold)

	var stale []string
	for _, fx := range fixtures {
		text, err := r.Render(ctx, fx, builder.WithLogger(logger))
		if err != nil {
			return err
		}

		out := r.Path(fx.Output)
		existing, err := os.ReadFile(out)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("fixture %s: failed to read %s: %w", fx.Name, out, err)
		}

		diff := format.Diff(string(existing), text)
		if !diff.Changed {
			ui.WriteSuccess(w, fx.Name+" (up to date)", color.NoColor)
			continue
		}

		stale = append(stale, fx.Name)
		if existing == nil {
			errorColor.Fprintf(w, "✗ %s: %s does not exist\n", fx.Name, out)
			continue
		}

		errorColor.Fprintf(w, "✗ %s is out of date\n", fx.Name)
		titleColor.Fprintf(w, "=== %s ===\n", out)
		fmt.Fprint(w, diff.String())
		fmt.Fprintf(w, "%s\n", diff.Stats())
	}

	if len(stale) > 0 {
		return &staleError{recipe: path, fixtures: stale}
	}
	return nil
}
