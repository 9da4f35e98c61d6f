package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmofkit/cmofkit/internal/builder"
	"github.com/cmofkit/cmofkit/internal/cli/ui"
	"github.com/cmofkit/cmofkit/internal/cmof"
	"github.com/cmofkit/cmofkit/internal/format"
)

var (
	inspectID        string
	inspectSummary   bool
	inspectKeepTypes bool
	inspectPackageID string
	inspectIndent    int
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.cmof|fixture.json>",
		Short: "Print a parsed metamodel as JSON",
		Long: `Parse a CMOF metamodel and print the root package, or a single element,
exactly as a fixture build would serialize it before any edits.

Files ending in .json are read as exported fixtures instead; --keep-types and
--package-id only apply to metamodels.`,
		Example: `  cmofkit inspect BPMN20.cmof
  cmofkit inspect BPMN20.cmof --id Definitions
  cmofkit inspect BPMN20.cmof --summary
  cmofkit inspect bpmn.json --id Definitions`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().StringVar(&inspectID, "id", "", "Print only the element with this id")
	cmd.Flags().BoolVarP(&inspectSummary, "summary", "s", false, "List element ids instead of printing JSON")
	cmd.Flags().BoolVar(&inspectKeepTypes, "keep-types", false, "Include $type on every element")
	cmd.Flags().StringVar(&inspectPackageID, "package-id", cmof.DefaultPackageID, "Id of the root package")
	cmd.Flags().IntVar(&inspectIndent, "indent", 2, "Spaces per indentation level")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	file := args[0]

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var doc *cmof.Document
	if strings.EqualFold(filepath.Ext(file), ".json") {
		doc, err = readFixture(file)
	} else {
		doc, err = parseModel(cmd.Context(), file, logger)
	}
	if err != nil {
		return err
	}

	if inspectSummary {
		writeSummary(cmd.OutOrStdout(), file, doc)
		return nil
	}

	el := doc.Package()
	if inspectID != "" {
		var ok bool
		if el, ok = doc.Element(inspectID); !ok {
			return &unknownElementError{file: file, id: inspectID, candidates: doc.IDs()}
		}
	}

	text, err := format.New(&format.Config{IndentSize: inspectIndent}).Format(el)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func parseModel(ctx context.Context, file string, logger *zap.Logger) (*cmof.Document, error) {
	b := builder.New(
		builder.WithLogger(logger),
		builder.WithParserOptions(cmof.Options{Clean: !inspectKeepTypes, PackageID: inspectPackageID}),
	)
	if err := b.Parse(ctx, file, nil); err != nil {
		return nil, err
	}
	return b.Document(), nil
}

// readFixture loads an exported fixture. Fixtures built with clean ids
// index nothing, so only the package itself can be shown.
func readFixture(file string) (*cmof.Document, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	pkg, err := cmof.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return cmof.Index(file, pkg), nil
}

func writeSummary(w io.Writer, file string, doc *cmof.Document) {
	pkg := doc.Package()
	noColor := color.NoColor

	ui.Header(w, pkg.Name(), noColor)

	info := ui.NewKeyValueTable(w, noColor)
	info.AddRow("File", file)
	info.AddRow("Package", pkg.ID())
	if uri := pkg.GetString("uri"); uri != "" {
		info.AddRow("URI", uri)
	}
	info.AddRow("Elements", strconv.Itoa(len(doc.ByID)))
	info.Render()
	fmt.Fprintln(w)

	table := ui.NewTable(w, []string{"ID", "Name"}, noColor)
	for _, id := range doc.IDs() {
		table.AddRow(id, doc.ByID[id].Name())
	}
	table.Render()
}
