package gate

import (
	"slices"
	"sync"
)

// ControlBoard tracks the disabled flag of named controls.
// It implements Controls.
type ControlBoard struct {
	mu       sync.Mutex
	order    []string
	disabled map[string]bool
	saved    map[string]bool // non-nil while disabled by the gate
}

// NewControlBoard creates an empty board.
func NewControlBoard() *ControlBoard {
	return &ControlBoard{disabled: make(map[string]bool)}
}

// Register adds a control with its current disabled flag.
// A control registered while the board is held is disabled until Restore.
func (b *ControlBoard) Register(name string, disabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.disabled[name]; !ok {
		b.order = append(b.order, name)
	}
	if b.saved != nil {
		b.saved[name] = disabled
		disabled = true
	}
	b.disabled[name] = disabled
}

// SetDisabled changes a control's flag for reasons unrelated to the gate.
func (b *ControlBoard) SetDisabled(name string, disabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.disabled[name]; !ok {
		return
	}
	if b.saved != nil {
		b.saved[name] = disabled
		return
	}
	b.disabled[name] = disabled
}

// Disabled reports a control's current flag.
func (b *ControlBoard) Disabled(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled[name]
}

// Names lists the registered controls in registration order.
func (b *ControlBoard) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.order)
}

// Disable remembers every flag and disables all controls.
func (b *ControlBoard) Disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saved != nil {
		return
	}
	b.saved = make(map[string]bool, len(b.disabled))
	for name, flag := range b.disabled {
		b.saved[name] = flag
		b.disabled[name] = true
	}
}

// Restore puts back the flags remembered by Disable.
func (b *ControlBoard) Restore() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saved == nil {
		return
	}
	for name, flag := range b.saved {
		b.disabled[name] = flag
	}
	b.saved = nil
}
