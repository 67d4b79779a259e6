package domain

import "maps"

// State is the single durable session record of a storage origin.
type State struct {
	// Variables accumulates named facts returned by the webhook or derived from page context.
	// Keys are only ever added or overwritten.
	Variables map[string]any `json:"variables"`

	// Form holds the last submitted value of each form field.
	Form map[string]string `json:"form"`

	// Initialized is true once the initialization round trip completed for this session.
	Initialized bool `json:"initialized"`
}

// NewState creates the default record: two empty mappings, not initialized.
func NewState() State {
	return State{
		Variables: make(map[string]any),
		Form:      make(map[string]string),
	}
}

// Normalize replaces nil mappings with empty ones.
func (s State) Normalize() State {
	if s.Variables == nil {
		s.Variables = make(map[string]any)
	}
	if s.Form == nil {
		s.Form = make(map[string]string)
	}
	return s
}

// Clone returns a copy whose mappings can be mutated independently.
func (s State) Clone() State {
	out := s.Normalize()
	out.Variables = maps.Clone(out.Variables)
	out.Form = maps.Clone(out.Form)
	return out
}

// MergeVariables returns a copy with vars layered over the accumulated variables.
func (s State) MergeVariables(vars map[string]any) State {
	out := s.Clone()
	maps.Copy(out.Variables, vars)
	return out
}

// MergeForm returns a copy with fields layered over the stored form values.
func (s State) MergeForm(fields map[string]string) State {
	out := s.Clone()
	maps.Copy(out.Form, fields)
	return out
}
