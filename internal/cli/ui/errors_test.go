package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
		excludes []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "element not found",
				Problem: "Cannot find element 'Defs'.",
			},
			contains: []string{"❌ ELEMENT NOT FOUND\n", "   Cannot find element 'Defs'.\n"},
		},
		{
			name: "error without context",
			opts: ErrorOptions{
				Problem: "parse sample.cmof: empty document",
			},
			contains: []string{"❌ parse sample.cmof: empty document\n"},
			excludes: []string{"   parse"},
		},
		{
			name: "error with suggestions",
			opts: ErrorOptions{
				Context:     "ELEMENT NOT FOUND",
				Problem:     "Cannot find element 'Defintions'.",
				Suggestions: []string{"Definitions", "Documentation"},
			},
			contains: []string{"Did you mean: Definitions, Documentation?"},
		},
		{
			name: "error with help commands",
			opts: ErrorOptions{
				Context: "BUILD FAILED",
				Problem: "fixture bpmn: reorder[0]: property <Definitions#nope> does not exist",
				HelpCommands: []string{
					"Show debug output: cmofkit build --verbose",
				},
			},
			contains: []string{"→ Show debug output: cmofkit build --verbose"},
		},
		{
			name: "warning message",
			opts: ErrorOptions{
				Level:   ErrorLevelWarning,
				Problem: "recipe has no fixtures",
			},
			contains: []string{"⚠️", "recipe has no fixtures"},
		},
		{
			name: "info message",
			opts: ErrorOptions{
				Level:   ErrorLevelInfo,
				Problem: "Watching 2 files",
			},
			contains: []string{"ℹ️", "Watching 2 files"},
		},
		{
			name: "error with consequence",
			opts: ErrorOptions{
				Context:     "FIXTURES OUT OF DATE",
				Problem:     "1 fixture(s) differ",
				Consequence: "Tests run against a stale metamodel.",
			},
			contains: []string{"1 fixture(s) differ", "\n   Tests run against a stale metamodel.\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.opts)

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("FormatError() output missing expected string:\nExpected to contain: %q\nGot: %q", expected, result)
				}
			}
			for _, unexpected := range tt.excludes {
				if strings.Contains(result, unexpected) {
					t.Errorf("FormatError() output contains %q:\n%q", unexpected, result)
				}
			}
		})
	}
}

func TestElementNotFoundError(t *testing.T) {
	result := ElementNotFoundError("Defintions", "BPMN20.cmof", []string{"Definitions"}, true)

	expected := []string{
		"ELEMENT NOT FOUND",
		"Cannot find element 'Defintions' in BPMN20.cmof.",
		"Did you mean: Definitions?",
		"cmofkit inspect BPMN20.cmof --summary",
	}
	for _, exp := range expected {
		if !strings.Contains(result, exp) {
			t.Errorf("ElementNotFoundError() missing %q in:\n%s", exp, result)
		}
	}
}

func TestFixtureNotFoundError(t *testing.T) {
	result := FixtureNotFoundError("bpnm", "fixtures.yaml", []string{"bpmn"}, true)

	expected := []string{
		"FIXTURE NOT FOUND",
		"Recipe fixtures.yaml has no fixture 'bpnm'.",
		"Did you mean: bpmn?",
		"cmofkit build fixtures.yaml",
	}
	for _, exp := range expected {
		if !strings.Contains(result, exp) {
			t.Errorf("FixtureNotFoundError() missing %q in:\n%s", exp, result)
		}
	}
}

func TestBuildError(t *testing.T) {
	result := BuildError("parse BPMN20.cmof: BPMN20.cmof:5: unexpected EOF", true)

	if !strings.Contains(result, "BUILD FAILED") {
		t.Errorf("BuildError() missing context: %s", result)
	}
	if !strings.Contains(result, "BPMN20.cmof:5") {
		t.Errorf("BuildError() missing message: %s", result)
	}
	if !strings.Contains(result, "cmofkit build --verbose") {
		t.Errorf("BuildError() missing help command: %s", result)
	}
}

func TestStaleError(t *testing.T) {
	result := StaleError([]string{"bpmn", "dc"}, "fixtures.yaml", true)

	expected := []string{
		"FIXTURES OUT OF DATE",
		"2 fixture(s) differ from a fresh build: bpmn, dc",
		"stale metamodel",
		"Regenerate: cmofkit build fixtures.yaml",
	}
	for _, exp := range expected {
		if !strings.Contains(result, exp) {
			t.Errorf("StaleError() missing %q in:\n%s", exp, result)
		}
	}
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, ErrorOptions{
		Context: "BUILD FAILED",
		Problem: "Test error",
		NoColor: true,
	})

	if !strings.Contains(buf.String(), "BUILD FAILED") {
		t.Errorf("WriteError() did not write expected content")
	}
}

func TestFormatSuccess(t *testing.T) {
	result := FormatSuccess("bpmn → bpmn.json", true)

	if result != "✓ bpmn → bpmn.json" {
		t.Errorf("FormatSuccess() = %q", result)
	}
}

func TestWriteSuccess(t *testing.T) {
	var buf bytes.Buffer
	WriteSuccess(&buf, "Up to date", true)

	if buf.String() != "✓ Up to date\n" {
		t.Errorf("WriteSuccess() wrote %q", buf.String())
	}
}

func TestWarningAndInfo(t *testing.T) {
	if result := Warning("slow build", true); !strings.HasPrefix(result, "⚠️ slow build") {
		t.Errorf("Warning() = %q", result)
	}
	if result := Info("Watching 2 files", true); !strings.HasPrefix(result, "ℹ️ Watching 2 files") {
		t.Errorf("Info() = %q", result)
	}
}
