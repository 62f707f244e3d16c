package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oxygene76/univers-client/pkg/physics"
)

var (
	accent  = lipgloss.Color("#8BC34A")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(warning)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(danger)
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// row is one label/value line of a text report.
type row struct {
	label string
	value string
}

// printer renders either indented JSON or styled text.
type printer struct {
	w    io.Writer
	json bool
	lang physics.Lang
}

func (c *cli) printer(w io.Writer) printer {
	return printer{
		w:    w,
		json: c.config.Display.Output == "json",
		lang: c.config.Lang(),
	}
}

// t picks the French or English label.
func (p printer) t(fr, en string) string {
	if p.lang == physics.LangEN {
		return en
	}
	return fr
}

func (p printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p printer) title(s string) {
	fmt.Fprintln(p.w, titleStyle.Render(s))
}

func (p printer) warn(s string) {
	fmt.Fprintln(p.w, warnStyle.Render(s))
}

func (p printer) alert(s string) {
	fmt.Fprintln(p.w, errorStyle.Render(s))
}

// rows prints label/value pairs with the labels padded to a common width.
func (p printer) rows(rows ...row) {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.label))
	}
	label := labelStyle.Width(width + 2)
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintln(p.w, lipgloss.JoinHorizontal(lipgloss.Top, label.Render(r.label), r.value))
	}
}

// table prints a header and aligned columns.
func (p printer) table(header []string, lines [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, line := range lines {
		for i, cell := range line {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = headStyle.Render(pad(h, widths[i]))
	}
	fmt.Fprintln(p.w, strings.Join(cells, "  "))
	for _, line := range lines {
		for i, cell := range line {
			cells[i] = pad(cell, widths[i])
		}
		fmt.Fprintln(p.w, strings.TrimRight(strings.Join(cells[:len(line)], "  "), " "))
	}
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func exp(v float64) string {
	return physics.Exponential(v, 3)
}

func factor(v float64) string {
	return fmt.Sprintf("%.12f", v)
}
