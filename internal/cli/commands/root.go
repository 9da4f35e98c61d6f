package commands

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmofkit/cmofkit/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// DefaultRecipe is the recipe file used when none is given
const DefaultRecipe = "cmofkit.yaml"

var verbose bool

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cmofkit",
		Short: "Build JSON test fixtures from CMOF metamodels",
		Long: color.CyanString(`cmofkit - CMOF metamodel fixture builder

cmofkit parses CMOF/XMI metamodel files, applies the edits listed in a
recipe and writes the result as JSON fixtures.

Features:
  • Alter, reorder and swap elements and properties
  • Rename patterns and strip ids or associations on export
  • Check mode for keeping committed fixtures up to date
  • Watch mode rebuilding on every change`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewFormatCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the cmofkit version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			table := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
			table.AddRow("cmofkit version", Version)
			table.AddRow("Git commit", GitCommit)
			table.AddRow("Build date", BuildDate)
			table.AddRow("Go version", goVer)
			table.Render()
		},
	}
}

// newLogger returns a development logger with --verbose and a no-op logger
// otherwise
func newLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		renderError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// renderError writes err using the matching ui message
func renderError(w io.Writer, err error) {
	var (
		stale   *staleError
		fixture *unknownFixtureError
		element *unknownElementError
	)

	switch {
	case errors.As(err, &stale):
		fmt.Fprint(w, ui.StaleError(stale.fixtures, stale.recipe, color.NoColor))
	case errors.As(err, &fixture):
		fmt.Fprint(w, ui.FixtureNotFoundError(fixture.name, fixture.recipe,
			ui.FindSimilar(fixture.name, fixture.candidates, nil), color.NoColor))
	case errors.As(err, &element):
		fmt.Fprint(w, ui.ElementNotFoundError(element.id, element.file,
			ui.FindSimilar(element.id, element.candidates, nil), color.NoColor))
	default:
		fmt.Fprint(w, ui.BuildError(err.Error(), color.NoColor))
	}
}

// staleError reports fixtures that differ from a fresh build
type staleError struct {
	recipe   string
	fixtures []string
}

func (e *staleError) Error() string {
	return fmt.Sprintf("%d fixture(s) out of date", len(e.fixtures))
}

// unknownFixtureError reports a --fixture name missing from the recipe
type unknownFixtureError struct {
	recipe     string
	name       string
	candidates []string
}

func (e *unknownFixtureError) Error() string {
	return fmt.Sprintf("fixture %q not found in %s", e.name, e.recipe)
}

// unknownElementError reports an --id missing from the inspected document
type unknownElementError struct {
	file       string
	id         string
	candidates []string
}

func (e *unknownElementError) Error() string {
	return fmt.Sprintf("element %q not found in %s", e.id, e.file)
}
