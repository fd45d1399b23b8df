// Package output renders command results as tables, markdown or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"

	"github.com/seaquel-labs/sqlkit/pkg/schema"
)

// Mode selects the render format.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes formatted command output.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	mode    Mode
	profile termenv.Profile
}

// NewRenderer creates a renderer. ModeAuto renders text, with color
// when out is a color-capable terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
	default:
		mode = ModeAuto
	}
	return &Renderer{
		out:     out,
		errOut:  errOut,
		mode:    mode,
		profile: termenv.ColorProfile(),
	}
}

// Mode returns the active render mode.
func (r *Renderer) Mode() Mode { return r.mode }

// JSONMode reports whether output is rendered as JSON.
func (r *Renderer) JSONMode() bool { return r.mode == ModeJSON }

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes header and rows as a table, or a markdown table in
// markdown mode.
func (r *Renderer) Table(header []string, rows [][]string) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(r.out, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.mode == ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	_, _ = fmt.Fprintf(r.out, "(%d rows)\n", len(rows))
}

// Plan writes an explain tree, one operator per line with nesting shown
// by indentation. JSON mode marshals the node tree instead.
func (r *Renderer) Plan(root *schema.ExplainNode) error {
	if r.mode == ModeJSON {
		return r.JSON(root)
	}

	root.Walk(func(n *schema.ExplainNode, depth int) {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("-> ")
		b.WriteString(r.colored(n.Type, termenv.ANSICyan))
		if n.Label != "" {
			b.WriteString(" " + n.Label)
		}

		var stats []string
		if n.Cost != nil {
			stats = append(stats, fmt.Sprintf("cost=%.2f", *n.Cost))
		}
		if n.Rows != nil {
			stats = append(stats, fmt.Sprintf("rows=%.0f", *n.Rows))
		}
		if n.ActualTime != nil {
			stats = append(stats, fmt.Sprintf("time=%.3fms", *n.ActualTime))
		}
		if n.ActualRows != nil {
			stats = append(stats, fmt.Sprintf("actual_rows=%.0f", *n.ActualRows))
		}
		if len(stats) > 0 {
			b.WriteString("  (" + strings.Join(stats, " ") + ")")
		}
		_, _ = fmt.Fprintln(r.out, b.String())
	})
	return nil
}

// Successf writes a success message to standard output.
func (r *Renderer) Successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(r.out, r.colored(msg, termenv.ANSIGreen))
}

// Errorf writes an error message to the error stream.
func (r *Renderer) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(r.errOut, r.colored(msg, termenv.ANSIRed))
}

// colored applies color only in auto mode on capable terminals.
func (r *Renderer) colored(s string, c termenv.Color) string {
	if r.mode != ModeAuto || r.profile == termenv.Ascii {
		return s
	}
	return termenv.String(s).Foreground(r.profile.Convert(c)).String()
}
