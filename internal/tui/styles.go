package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bobby-s-dev/nws-forecast/internal/forecast"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD866"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)

	segmentStyles = map[forecast.Kind]lipgloss.Style{
		forecast.KindLabel:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		forecast.KindTemperature: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9F43")),
		forecast.KindForecast:    lipgloss.NewStyle(),
		forecast.KindDetail:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
)

// paintLines styles rendered lines for the terminal. Detail text is wrapped
// to width when width is known.
func paintLines(lines []forecast.Line, width int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		var sb strings.Builder
		for _, seg := range line {
			style, ok := segmentStyles[seg.Kind]
			if !ok {
				sb.WriteString(seg.Text)
				continue
			}
			if seg.Kind == forecast.KindDetail && width > 0 {
				style = style.Width(width)
			}
			sb.WriteString(style.Render(seg.Text))
		}
		out[i] = sb.String()
	}
	return strings.Join(out, "\n")
}
