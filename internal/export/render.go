package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/kailas-cloud/compdex/internal/domain/company"
)

const (
	minRenderWidth     = 40
	defaultRenderWidth = 100
)

// TerminalWidth returns the width of the terminal on fd, or a default when
// fd is not a terminal.
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return defaultRenderWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultRenderWidth
	}
	return width
}

// RenderText draws one boxed block per row, labels on the left, wrapping
// values to fit width. A width <= 0 measures stdout.
func RenderText(w io.Writer, rows []company.Row, width int) error {
	if width <= 0 {
		width = TerminalWidth(int(os.Stdout.Fd()))
	}
	if width < minRenderWidth {
		width = minRenderWidth
	}

	header := company.Header()
	labelWidth := 0
	for _, h := range header {
		labelWidth = max(labelWidth, runewidth.StringWidth(h))
	}
	contentWidth := width - 4
	valueWidth := contentWidth - labelWidth - 2

	var b strings.Builder
	for i, row := range rows {
		title := fmt.Sprintf(" %d/%d ", i+1, len(rows))
		b.WriteString("╔" + title + strings.Repeat("═", max(0, width-2-runewidth.StringWidth(title))) + "╗\n")
		for c, value := range row.Values() {
			label := runewidth.FillRight(header[c], labelWidth)
			for j, line := range wrapText(value, valueWidth) {
				if j > 0 {
					label = strings.Repeat(" ", labelWidth)
				}
				line = runewidth.FillRight(line, valueWidth)
				b.WriteString("║ " + label + "  " + line + " ║\n")
			}
		}
		b.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// wrapText splits text into lines no wider than width display cells.
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{""}
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0

	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width && currentWidth > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
		current.WriteRune(r)
		currentWidth += rw
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
