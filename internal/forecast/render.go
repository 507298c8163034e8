package forecast

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bobby-s-dev/nws-forecast/internal/models"
)

// Column widths shared by the standard and extended layouts.
const (
	NameColumn        = 16
	TemperatureColumn = 8
)

// Kind tells the display surface how to style a segment.
type Kind int

const (
	KindPlain Kind = iota
	KindLabel
	KindTemperature
	KindForecast
	KindDetail
)

// Segment is a run of text with one style.
type Segment struct {
	Kind Kind
	Text string
}

// Line is one output line; a nil Line is a blank line.
type Line []Segment

func (l Line) String() string {
	var sb strings.Builder
	for _, s := range l {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Text flattens rendered lines to plain text.
func Text(lines []Line) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

// Render lays the model out in the given style. The result is the complete
// content of the view; it depends only on its arguments.
func Render(model models.Model, style Style) ([]Line, error) {
	switch style {
	case StyleStandard:
		return renderStandard(model), nil
	case StyleExtended:
		return renderExtended(model), nil
	case StyleTerse:
		return renderTerse(model), nil
	default:
		return nil, fmt.Errorf("%w: cannot render style %s", ErrConfiguration, style)
	}
}

func renderStandard(model models.Model) []Line {
	lines := make([]Line, 0, len(model)+8)
	for i, r := range model {
		if i > 0 && r.Day != model[i-1].Day {
			lines = append(lines, nil)
		}
		line := headline(r)
		if r.ShortForecast != "" {
			line = append(line, Segment{KindForecast, r.ShortForecast})
		}
		lines = append(lines, line)
	}
	return lines
}

func renderExtended(model models.Model) []Line {
	lines := make([]Line, 0, len(model)*4)
	for _, r := range model {
		lines = append(lines,
			headline(r),
			nil,
			Line{{KindDetail, r.DetailedForecast}},
			nil,
		)
	}
	return lines
}

func renderTerse(model models.Model) []Line {
	var lines []Line
	var current Line
	for i, r := range model {
		if i == 0 || r.Day != model[i-1].Day {
			if current != nil {
				lines = append(lines, current)
			}
			current = Line{
				{KindLabel, abbreviate(Label(r))},
				{KindPlain, " "},
				{KindTemperature, TemperatureText(r)},
			}
			continue
		}
		current = append(current,
			Segment{KindPlain, " "},
			Segment{KindTemperature, TemperatureText(r)},
		)
	}
	if current != nil {
		lines = append(lines, current)
	}
	return lines
}

// headline is the name and temperature in their fixed columns.
func headline(r models.Record) Line {
	label := Label(r)
	temp := TemperatureText(r)
	return Line{
		{KindLabel, label},
		{KindPlain, padding(label, NameColumn)},
		{KindTemperature, temp},
		{KindPlain, padding(temp, TemperatureColumn)},
	}
}

// Label is the record's name, or its local start time for unnamed
// (hourly) periods.
func Label(r models.Record) string {
	if r.Name != "" {
		return r.Name
	}
	t, err := parseTimestamp(r.StartTime)
	if err != nil {
		return r.StartTime
	}
	return t.Format("Mon 15:04")
}

// TemperatureText formats the reading as e.g. "40°F"; "--" when absent.
func TemperatureText(r models.Record) string {
	if r.Temperature == nil {
		return "--"
	}
	text := fmt.Sprintf("%d", *r.Temperature)
	if r.TemperatureUnit != "" {
		text += "°" + r.TemperatureUnit
	}
	return text
}

// padding fills text up to width, always leaving at least one space.
func padding(text string, width int) string {
	n := width - utf8.RuneCountInString(text)
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}

func abbreviate(label string) string {
	runes := []rune(label)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes)
}
