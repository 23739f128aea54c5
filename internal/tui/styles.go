package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	borderColor   = lipgloss.Color("240")
	activeColor   = lipgloss.Color("39")
	faintColor    = lipgloss.Color("245")
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("255")).
			Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(faintColor)
	linkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true)
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(activeColor).
			Padding(0, 1)
)

// statusStyle renders a workflow status on the tracker's own color. Text
// is black or white, whichever reads better on that background.
func statusStyle(hex string) lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, 1)
	rgb, ok := parseHex(hex)
	if !ok {
		return style.Reverse(true)
	}
	foreground := lipgloss.Color("#ffffff")
	if luminance(rgb) > 0.5 {
		foreground = lipgloss.Color("#000000")
	}
	return style.Background(lipgloss.Color(hex)).Foreground(foreground)
}

func parseHex(hex string) ([3]uint8, bool) {
	var rgb [3]uint8
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return rgb, false
	}
	for i := range rgb {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return rgb, false
		}
		rgb[i] = uint8(v)
	}
	return rgb, true
}

// luminance is the relative brightness of rgb between 0 and 1.
func luminance(rgb [3]uint8) float64 {
	return (0.299*float64(rgb[0]) + 0.587*float64(rgb[1]) + 0.114*float64(rgb[2])) / 255
}
