package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
)

// Console writes the busy indicator and error lines to a terminal stream.
type Console struct {
	mu  sync.Mutex
	out *termenv.Output
}

// NewConsole wraps w, usually stderr.
func NewConsole(w io.Writer) *Console {
	return &Console{out: termenv.NewOutput(w)}
}

// SetBusy shows message while a request is in flight and clears the line once it
// settles. It satisfies gate.Indicator.
func (c *Console) SetBusy(busy bool, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !busy {
		fmt.Fprint(c.out, "\r")
		c.out.ClearLine()
		return
	}
	p := c.out.ColorProfile()
	fmt.Fprintf(c.out, "%s %s", c.out.String("…").Foreground(p.Color("#a78bfa")), message)
}

// Error prints the single user-visible line for a failed action.
func (c *Console) Error(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.out.ColorProfile()
	fmt.Fprintf(c.out, "%s %v\n", c.out.String("error:").Foreground(p.Color("#fb7185")).Bold(), err)
}

// Notice prints an informational line.
func (c *Console) Notice(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, ">>> %s\n", fmt.Sprintf(format, args...))
}
