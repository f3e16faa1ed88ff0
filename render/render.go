// Package render is the ambient-stack presentation layer for
// *quill.Diagnostic (spec.md §7: "a diagnostic sink with source span and
// a single highlighted source line"). It is kept out of the root quill
// package so the core runtime has no terminal/CLI dependency — grounded
// on pongo2's error.go (Error.Error()'s Filename:Line:Column:Message
// shape and RawLine()) for what to print, and on
// adest-aes-scripts/go-tools's lipgloss usage (cmd/tcpo/model.go,
// cmd/kk/main.go: NewStyle().Foreground(lipgloss.Color(...)).Bold(true))
// for how to colour it.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quillssg/quill"
)

var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	styleLoc     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleCaret   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Diagnostics writes every non-suppressed diagnostic in diags to w,
// one per paragraph: a coloured "severity[kind]: message" header, the file:line:col
// location, the offending source line, and a caret under the starting
// column.
func Diagnostics(w io.Writer, diags []*quill.Diagnostic) {
	for _, d := range diags {
		if d.Suppressed {
			continue
		}
		One(w, d)
	}
}

// One renders a single diagnostic.
func One(w io.Writer, d *quill.Diagnostic) {
	style := styleError
	label := "error"
	if d.Severity == quill.SeverityWarning {
		style = styleWarning
		label = "warning"
	}
	fmt.Fprintf(w, "%s: %s\n", style.Render(label+"["+d.Kind.String()+"]"), d.Message)
	loc := fmt.Sprintf("  --> %s:%d:%d", modulePath(d), d.Pos.Line, d.Pos.Col)
	fmt.Fprintln(w, styleLoc.Render(loc))
	if line := d.RawLine(); line != "" {
		fmt.Fprintf(w, "      %s\n", line)
		fmt.Fprintf(w, "      %s%s\n", strings.Repeat(" ", max(d.Pos.Col-1, 0)), styleCaret.Render("^"))
	}
}

func modulePath(d *quill.Diagnostic) string {
	if d.Module == nil {
		return "<unknown>"
	}
	return d.Module.Path
}
