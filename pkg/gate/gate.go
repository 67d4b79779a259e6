// Package gate guards a driver against overlapping round trips.
//
// A Gate admits one action at a time. Triggers arriving while it is busy are
// dropped, not queued. Entering disables the registered controls and raises the busy
// indicator; releasing restores both.
package gate

import (
	"sync"

	"github.com/aretw0/formflow/pkg/domain"
)

// Status is the gate state.
type Status int

const (
	Idle Status = iota
	Busy
)

func (s Status) String() string {
	if s == Busy {
		return "busy"
	}
	return "idle"
}

// Indicator displays the busy state to the user.
type Indicator interface {
	SetBusy(busy bool, message string)
}

// IndicatorFunc adapts a function to Indicator.
type IndicatorFunc func(busy bool, message string)

// SetBusy calls f.
func (f IndicatorFunc) SetBusy(busy bool, message string) { f(busy, message) }

// Controls are the interactive elements disabled while an action is in flight.
type Controls interface {
	// Disable remembers each control's current flag and disables them all.
	Disable()
	// Restore puts back exactly the flags remembered by Disable.
	Restore()
}

// Gate is a mutex guarded Idle/Busy latch.
type Gate struct {
	mu        sync.Mutex
	status    Status
	indicator Indicator
	controls  Controls
}

// Option configures the Gate.
type Option func(*Gate)

// WithIndicator sets the busy indicator.
func WithIndicator(ind Indicator) Option {
	return func(g *Gate) {
		g.indicator = ind
	}
}

// WithControls sets the controls disabled while busy.
func WithControls(c Controls) Option {
	return func(g *Gate) {
		g.controls = c
	}
}

// New creates an idle Gate.
func New(opts ...Option) *Gate {
	g := &Gate{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Status reports the current state.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// TryEnter moves the gate from Idle to Busy. When the gate is already busy it returns
// ok=false and a no-op release. The returned release is idempotent; callers defer it.
// An empty message shows domain.DefaultWaitingMessage.
func (g *Gate) TryEnter(message string) (release func(), ok bool) {
	g.mu.Lock()
	if g.status == Busy {
		g.mu.Unlock()
		return func() {}, false
	}
	g.status = Busy
	if g.controls != nil {
		g.controls.Disable()
	}
	g.mu.Unlock()

	if message == "" {
		message = domain.DefaultWaitingMessage
	}
	if g.indicator != nil {
		g.indicator.SetBusy(true, message)
	}

	var once sync.Once
	return func() { once.Do(g.leave) }, true
}

func (g *Gate) leave() {
	g.mu.Lock()
	if g.controls != nil {
		g.controls.Restore()
	}
	g.status = Idle
	g.mu.Unlock()

	if g.indicator != nil {
		g.indicator.SetBusy(false, "")
	}
}
