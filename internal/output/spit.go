// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/linkctl/internal/config"
)

// IsTerminal reports whether f is attached to a terminal. It decides the
// default of --color.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes status lines, green for good news and red for bad.
type Printer struct {
	w        io.Writer
	color    bool
	okStyle  lipgloss.Style
	badStyle lipgloss.Style
}

// NewPrinter returns a Printer writing to w. Colors may be overridden in the
// config file with colors.ok and colors.fail.
func NewPrinter(w io.Writer, color bool, cfg *config.Type) *Printer {
	if w == nil {
		w = os.Stdout
	}
	okColor, badColor := getColors(cfg, "colors")
	return &Printer{
		w:        w,
		color:    color,
		okStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color(okColor)),
		badStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(badColor)),
	}
}

// OK prints a line in the ok color.
func (p *Printer) OK(format string, a ...any) {
	p.println(p.okStyle, fmt.Sprintf(format, a...))
}

// Fail prints a line in the failure color.
func (p *Printer) Fail(format string, a ...any) {
	p.println(p.badStyle, fmt.Sprintf(format, a...))
}

func (p *Printer) println(style lipgloss.Style, msg string) {
	if p.color {
		msg = style.Render(msg)
	}
	fmt.Fprintln(p.w, msg)
}

// getColors returns configured status colors. Defaults are the basic ANSI
// green and red.
func getColors(cfg *config.Type, key string) (ok string, bad string) {
	ok, bad = "2", "1"
	if cfg == nil {
		return
	}
	ok, _ = cfg.GetString(fmt.Sprintf("%s.ok", key), ok)
	bad, _ = cfg.GetString(fmt.Sprintf("%s.fail", key), bad)
	return
}

// TableWriter renders rows as a borderless table, optionally with titles.
func TableWriter(w io.Writer, headers []string, rows [][]string, titles bool, padding int) {
	if len(rows) == 0 {
		return
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Align(lipgloss.Left)
	cellStyle := lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				style = headerStyle
			}
			if col > 0 {
				style = style.PaddingLeft(padding)
			}
			return style
		}).
		Rows(rows...)

	if titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	fmt.Fprintln(w, t)
}

// Emit marshals v as json or yaml to w.
func Emit(w io.Writer, format string, v any) error {
	var (
		out []byte
		err error
	)

	switch format {
	case "json":
		out, err = json.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", format, err)
	}

	log.Debugf("emitting %d bytes of %s", len(out), format)
	_, err = w.Write(out)
	return err
}
