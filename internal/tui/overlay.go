package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// spliceOverlay replaces the region of view starting at (x, y) with the
// overlay lines. Truncation is ANSI-aware so styling on either side of the
// overlay survives.
func spliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlay[0])

	for i, overlayLine := range overlay {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		line := lines[row]

		var b strings.Builder
		if x > 0 {
			b.WriteString(ansi.Truncate(line, x, ""))
		}
		b.WriteString("\x1b[0m")
		b.WriteString(overlayLine)
		b.WriteString("\x1b[0m")
		if end := x + overlayWidth; end < ansi.StringWidth(line) {
			b.WriteString(ansi.TruncateLeft(line, end, ""))
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// renderModal draws the input box for a search or wizard prompt.
func renderModal(prompt, buffer string, width int) []string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	text := ansi.Wrap(buffer+"█", inner, "")
	box := modalStyle.Width(inner + 2).Render(titleStyle.Render(prompt) + "\n\n" + text)
	return strings.Split(box, "\n")
}

// centerOverlay splices the modal box into the middle of view.
func centerOverlay(view string, box []string, width, height int) string {
	if len(box) == 0 {
		return view
	}
	x := (width - lipgloss.Width(box[0])) / 2
	y := (height - len(box)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return spliceOverlay(view, box, x, y)
}
