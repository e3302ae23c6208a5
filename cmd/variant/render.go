package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/gosuda/variant/diag"
)

// renderer prints diagnostics as numbered source excerpts with a caret
// under the reported column.
type renderer struct {
	w     io.Writer
	name  string
	lines []string

	header lipgloss.Style
	gutter lipgloss.Style
	caret  lipgloss.Style
}

func newRenderer(name, src string, w io.Writer, color bool) *renderer {
	lr := lipgloss.NewRenderer(w)
	if color {
		lr.SetColorProfile(termenv.ANSI256)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &renderer{
		w:      w,
		name:   name,
		lines:  strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n"),
		header: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		gutter: lr.NewStyle().Foreground(lipgloss.Color("244")),
		caret:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("202")),
	}
}

// report prints the collected diagnostics, or the one carried by err.
func (r *renderer) report(err error, collected []diag.Diagnostic) {
	if len(collected) == 0 {
		var de *diag.Error
		if !errors.As(err, &de) {
			fmt.Fprintln(r.w, r.header.Render(err.Error()))
			return
		}
		collected = []diag.Diagnostic{de.Diagnostic}
	}
	for i, d := range collected {
		if i > 0 {
			fmt.Fprintln(r.w)
		}
		fmt.Fprint(r.w, r.snippet(d))
	}
	if diag.IsFatal(err) {
		fmt.Fprintln(r.w, r.header.Render("aborted: "+err.Error()))
	}
}

func (r *renderer) snippet(d diag.Diagnostic) string {
	var b strings.Builder
	if d.Line == 0 {
		b.WriteString(r.header.Render(fmt.Sprintf("%s: %s error: %s", r.name, d.Kind.Stage(), d.Message)))
		b.WriteByte('\n')
		return b.String()
	}
	b.WriteString(r.header.Render(fmt.Sprintf("%s:%d:%d: %s error: %s", r.name, d.Line, d.Column, d.Kind.Stage(), d.Message)))
	b.WriteString("\n\n")

	line := min(max(d.Line, 1), len(r.lines))
	if line > 1 {
		r.sourceLine(&b, line-1)
	}
	r.sourceLine(&b, line)
	b.WriteString(r.gutter.Render("     | "))
	b.WriteString(r.caret.Render(padding(r.lines[line-1], d.Column) + "^"))
	b.WriteByte('\n')
	if line < len(r.lines) {
		r.sourceLine(&b, line+1)
	}
	return b.String()
}

func (r *renderer) sourceLine(b *strings.Builder, n int) {
	b.WriteString(r.gutter.Render(fmt.Sprintf("%4d | ", n)))
	b.WriteString(r.lines[n-1])
	b.WriteByte('\n')
}

// padding returns the blank prefix that puts a caret under the 1-based
// column col of text, keeping tabs and wide runes aligned.
func padding(text string, col int) string {
	var b strings.Builder
	runes := []rune(text)
	for i, ch := range runes {
		if i >= col-1 {
			break
		}
		if ch == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(ch)))
	}
	if extra := col - 1 - len(runes); extra > 0 {
		b.WriteString(strings.Repeat(" ", extra))
	}
	return b.String()
}
