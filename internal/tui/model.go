// Package tui is the terminal display surface: one named forecast view,
// key bindings for the user actions, and the messages other command sources
// (control server, scheduler) send into the program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/nws-forecast/internal/forecast"
	"github.com/bobby-s-dev/nws-forecast/internal/geo"
	"github.com/bobby-s-dev/nws-forecast/internal/services"
)

const maxMessages = 50

// User actions. Any command source may Send these to the program.
type (
	ShowForecastMsg struct{}
	CycleStyleMsg   struct{}
	CloseViewMsg    struct{}
)

type fetchedMsg struct {
	fetch services.Fetch
	body  []byte
	err   error
}

// CoordinateSource yields the coordinate to fetch for. It may block.
type CoordinateSource func(ctx context.Context) (geo.Coordinates, error)

// Model is the root bubbletea model.
type Model struct {
	controller  *services.Controller
	cycle       *forecast.Cycle
	coordinates CoordinateSource
	logger      *zap.Logger
	title       string

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	pending  int
	status   string
	failed   bool
	messages []string
	closed   bool
}

func New(controller *services.Controller, cycle *forecast.Cycle, coordinates CoordinateSource, title string, logger *zap.Logger) *Model {
	return &Model{
		controller:  controller,
		cycle:       cycle,
		coordinates: coordinates,
		logger:      logger,
		title:       title,
		viewport:    viewport.New(80, 20),
	}
}

// NewProgram wraps the model in an alt-screen program.
func NewProgram(m *Model, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}

// Init opens the view with a fetch, as the show forecast action does.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return ShowForecastMsg{} }
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-3, 1)
		m.ready = true
		m.repaint()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Close):
			return m.closeView()
		case key.Matches(msg, keys.Show):
			return m.showForecast()
		case key.Matches(msg, keys.Cycle):
			return m.cycleStyle()
		}

	case ShowForecastMsg:
		return m.showForecast()

	case CycleStyleMsg:
		return m.cycleStyle()

	case CloseViewMsg:
		return m.closeView()

	case fetchedMsg:
		m.pending--
		if msg.err != nil {
			m.notify(msg.err)
			return m, nil
		}
		snapshot, err := m.controller.Complete(msg.fetch, msg.body)
		if err != nil && !errors.Is(err, forecast.ErrParse) {
			m.notify(err)
			return m, nil
		}
		m.repaint()
		m.setStatus(fmt.Sprintf("Forecast updated %s (%d periods)",
			snapshot.FetchedAt.Format("15:04:05"), len(snapshot.Model)))
		if err != nil {
			// Stored with unclassified periods.
			m.notify(err)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) showForecast() (tea.Model, tea.Cmd) {
	m.pending++
	m.setStatus("Fetching forecast…")
	return m, m.fetch()
}

// fetch resolves the coordinate and performs the request off the update
// loop; the pipeline resumes in Update when fetchedMsg arrives.
func (m *Model) fetch() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		coords, err := m.coordinates(ctx)
		if err != nil {
			return fetchedMsg{err: fmt.Errorf("%w: %w", forecast.ErrConfiguration, err)}
		}
		f := m.controller.Begin(coords)
		body, err := m.controller.Request(ctx, f)
		return fetchedMsg{fetch: f, body: body, err: err}
	}
}

func (m *Model) cycleStyle() (tea.Model, tea.Cmd) {
	style := m.cycle.Rotate()
	m.repaint()
	m.setStatus("Style: " + style.String())
	return m, nil
}

func (m *Model) closeView() (tea.Model, tea.Cmd) {
	m.closed = true
	m.logger.Info("Forecast view closed")
	return m, tea.Quit
}

// repaint replaces the whole view content with the current snapshot
// rendered in the active style.
func (m *Model) repaint() {
	snapshot, ok := m.controller.Store().Current()
	if !ok {
		m.viewport.SetContent(mutedStyle.Render("No forecast yet. Press f to fetch."))
		return
	}

	lines, err := forecast.Render(snapshot.Model, m.cycle.Active())
	if err != nil {
		m.notify(err)
		return
	}
	m.viewport.SetContent(paintLines(lines, m.width))
	m.viewport.GotoTop()
}

// notify reports a failure once, in the status line and the message log.
func (m *Model) notify(err error) {
	text := forecast.Diagnostic(err)
	m.logger.Warn("Forecast diagnostic", zap.String("message", text), zap.Error(err))
	m.status = text
	m.failed = true
	m.appendMessage(text)
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.failed = false
}

func (m *Model) appendMessage(text string) {
	m.messages = append(m.messages, text)
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

// Messages returns the diagnostics shown so far, oldest first.
func (m *Model) Messages() []string {
	return append([]string(nil), m.messages...)
}

// Closed reports whether the view was torn down.
func (m *Model) Closed() bool {
	return m.closed
}

func (m *Model) View() string {
	if m.closed {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	status := statusStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render("✗ " + m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		m.viewport.View(),
		status,
		helpStyle.Render(keys.helpLine()),
	)
}

func (m *Model) header() string {
	title := titleStyle.Render(m.title)
	info := "style: " + m.cycle.Active().String()
	if snapshot, ok := m.controller.Store().Current(); ok {
		info = fmt.Sprintf("%s • %s • updated %s", snapshot.Coordinates, info,
			snapshot.FetchedAt.Format(time.Kitchen))
	}
	if m.pending > 0 {
		info += " • fetching"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", mutedStyle.Render(info))
}
