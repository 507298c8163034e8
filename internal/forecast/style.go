package forecast

import (
	"fmt"
	"strings"
	"sync"
)

// Style selects one of the rendering layouts.
type Style int

const (
	StyleStandard Style = iota
	StyleExtended
	StyleTerse
)

var styleNames = map[Style]string{
	StyleStandard: "standard",
	StyleExtended: "extended",
	StyleTerse:    "terse",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle maps a style name to its value.
func ParseStyle(name string) (Style, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for style, n := range styleNames {
		if n == want {
			return style, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown style %q", ErrConfiguration, name)
}

// Cycle is the ring of styles; the head is the active one.
type Cycle struct {
	mu    sync.Mutex
	order []Style
}

// NewCycle starts at the given style, keeping the standard ring order.
func NewCycle(active Style) *Cycle {
	c := &Cycle{order: []Style{StyleStandard, StyleExtended, StyleTerse}}
	for i := 0; i < len(c.order) && c.order[0] != active; i++ {
		c.rotate()
	}
	return c
}

func (c *Cycle) Active() Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order[0]
}

// Rotate moves the active style to the tail and returns the new active one.
func (c *Cycle) Rotate() Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotate()
	return c.order[0]
}

func (c *Cycle) rotate() {
	head := c.order[0]
	copy(c.order, c.order[1:])
	c.order[len(c.order)-1] = head
}

// Order returns a copy of the ring, head first.
func (c *Cycle) Order() []Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Style(nil), c.order...)
}
