package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ ELEMENT NOT FOUND: Definiton
//	   Cannot find element 'Definiton' in BPMN20.cmof.
//
//	   Did you mean: Definitions?
//
//	   → List all elements: cmofkit inspect BPMN20.cmof --summary
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(opts.Context))
		bodyColor.Fprintf(&b, "   %s\n", opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// ElementNotFoundError reports an unknown element id in a metamodel file
func ElementNotFoundError(id, file string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "ELEMENT NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find element '%s' in %s.", id, file),
		Suggestions: suggestions,
		HelpCommands: []string{
			fmt.Sprintf("List all elements: cmofkit inspect %s --summary", file),
		},
		NoColor: noColor,
	})
}

// FixtureNotFoundError reports an unknown fixture name in a recipe
func FixtureNotFoundError(name, recipe string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "FIXTURE NOT FOUND",
		Problem:     fmt.Sprintf("Recipe %s has no fixture '%s'.", recipe, name),
		Suggestions: suggestions,
		HelpCommands: []string{
			fmt.Sprintf("Build every fixture: cmofkit build %s", recipe),
		},
		NoColor: noColor,
	})
}

// BuildError creates a standardized build error
func BuildError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "BUILD FAILED",
		Problem: message,
		HelpCommands: []string{
			"Show debug output: cmofkit build --verbose",
			"Get help: cmofkit build --help",
		},
		NoColor: noColor,
	})
}

// StaleError reports fixtures whose file on disk differs from a fresh build
func StaleError(fixtures []string, recipe string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "FIXTURES OUT OF DATE",
		Problem:     fmt.Sprintf("%d fixture(s) differ from a fresh build: %s", len(fixtures), strings.Join(fixtures, ", ")),
		Consequence: "Tests reading these files run against a stale metamodel.",
		HelpCommands: []string{
			fmt.Sprintf("Regenerate: cmofkit build %s", recipe),
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelWarning,
		Problem: message,
		NoColor: noColor,
	})
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	})
}
