package tui

import tea "github.com/charmbracelet/bubbletea"

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Commands lets code outside the program trigger the user actions. The
// actions run on the program's update loop like key presses do.
type Commands struct {
	sender Sender
}

func NewCommands(sender Sender) *Commands {
	return &Commands{sender: sender}
}

func (c *Commands) ShowForecast() { c.sender.Send(ShowForecastMsg{}) }
func (c *Commands) CycleStyle()   { c.sender.Send(CycleStyleMsg{}) }
func (c *Commands) CloseView()    { c.sender.Send(CloseViewMsg{}) }
