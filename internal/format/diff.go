package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ContextLines is the number of unchanged lines shown around each hunk of a
// unified diff
const ContextLines = 3

const noNewline = "\\ No newline at end of file"

// DiffResult represents the difference between a fixture on disk and freshly
// generated output
type DiffResult struct {
	Existing  string
	Generated string
	Changed   bool
}

// Diff compares existing and generated text
func Diff(existing, generated string) *DiffResult {
	return &DiffResult{
		Existing:  existing,
		Generated: generated,
		Changed:   existing != generated,
	}
}

// lineOp is one line of a line diff. kind is ' ', '-' or '+'; oldPos and
// newPos count the lines of each side consumed before it.
type lineOp struct {
	kind   byte
	text   string
	oldPos int
	newPos int
}

// hunk is a run of operations with its unified header ranges
type hunk struct {
	oldStart, oldLines int
	newStart, newLines int
	ops                []lineOp
}

func (h hunk) header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldLines, h.newStart, h.newLines)
}

// ops computes a line-mode diff of the two texts. A missing final newline
// is not a line change; see newlineOnly.
func (d *DiffResult) ops() []lineOp {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lines := dmp.DiffLinesToChars(terminated(d.Existing), terminated(d.Generated))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []lineOp
	oldPos, newPos := 0, 0
	for _, diff := range diffs {
		for _, line := range splitLines(diff.Text) {
			op := lineOp{text: line, oldPos: oldPos, newPos: newPos}
			switch diff.Type {
			case diffmatchpatch.DiffEqual:
				op.kind = ' '
				oldPos++
				newPos++
			case diffmatchpatch.DiffDelete:
				op.kind = '-'
				oldPos++
			case diffmatchpatch.DiffInsert:
				op.kind = '+'
				newPos++
			}
			out = append(out, op)
		}
	}
	return out
}

func terminated(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// newlineOnly reports whether the texts differ only in their final newline
func (d *DiffResult) newlineOnly() bool {
	return d.Changed && terminated(d.Existing) == terminated(d.Generated)
}

// splitLines splits text into lines without their terminators
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\n")
	}
	return lines
}

// hunks groups changed lines with up to context unchanged lines on each
// side. Changes closer than twice the context share a hunk.
func (d *DiffResult) hunks(context int) []hunk {
	if !d.Changed {
		return nil
	}
	ops := d.ops()

	var out []hunk
	for i := 0; i < len(ops); i++ {
		if ops[i].kind == ' ' {
			continue
		}

		start := max(0, i-context)
		end := i
		for j := i + 1; j < len(ops); j++ {
			if ops[j].kind == ' ' {
				continue
			}
			if j-end > 2*context {
				break
			}
			end = j
		}
		stop := min(len(ops), end+context+1)

		h := hunk{ops: ops[start:stop]}
		for _, op := range h.ops {
			if op.kind != '+' {
				h.oldLines++
			}
			if op.kind != '-' {
				h.newLines++
			}
		}
		h.oldStart = ops[start].oldPos
		if h.oldLines > 0 {
			h.oldStart++
		}
		h.newStart = ops[start].newPos
		if h.newLines > 0 {
			h.newStart++
		}

		out = append(out, h)
		i = stop - 1
	}
	return out
}

// String returns the changed lines with color highlighting
func (d *DiffResult) String() string {
	if !d.Changed {
		return color.GreenString("Up to date")
	}

	var buf bytes.Buffer
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	if d.newlineOnly() {
		cyan.Fprintln(&buf, noNewline)
	}
	for _, h := range d.hunks(0) {
		cyan.Fprintln(&buf, h.header())
		for _, op := range h.ops {
			switch op.kind {
			case '-':
				red.Fprintf(&buf, "- %s\n", op.text)
			case '+':
				green.Fprintf(&buf, "+ %s\n", op.text)
			}
		}
	}

	return buf.String()
}

// UnifiedDiff returns the differences in unified diff format
func (d *DiffResult) UnifiedDiff(filename string) string {
	if !d.Changed {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- a/%s\n", filename)
	fmt.Fprintf(&buf, "+++ b/%s\n", filename)

	if d.newlineOnly() {
		fmt.Fprintln(&buf, noNewline)
	}
	for _, h := range d.hunks(ContextLines) {
		fmt.Fprintln(&buf, h.header())
		for _, op := range h.ops {
			fmt.Fprintf(&buf, "%c%s\n", op.kind, op.text)
		}
	}

	return buf.String()
}

// Stats returns statistics about the changes. A removed line directly
// replaced by an added one counts as changed.
func (d *DiffResult) Stats() string {
	if !d.Changed {
		return "No changes"
	}
	if d.newlineOnly() {
		return "Final newline differs"
	}

	added, removed, changed := 0, 0, 0
	ins, del := 0, 0
	flush := func() {
		n := min(ins, del)
		changed += n
		added += ins - n
		removed += del - n
		ins, del = 0, 0
	}

	for _, op := range d.ops() {
		switch op.kind {
		case '+':
			ins++
		case '-':
			del++
		default:
			flush()
		}
	}
	flush()

	return fmt.Sprintf("%d lines changed, %d added, %d removed", changed, added, removed)
}
