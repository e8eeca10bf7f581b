package formstate

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned when writing a name the form does not declare.
var ErrUnknownField = errors.New("formstate: unknown field")

// State tracks the current string value of every form field in declaration
// order. It is read once per submission and never persisted.
type State struct {
	order  []string
	values map[string]string
}

// New seeds a state from the definition defaults.
func New(def Definition) *State {
	s := &State{
		order:  make([]string, 0, len(def.Fields)),
		values: make(map[string]string, len(def.Fields)),
	}
	for _, field := range def.Fields {
		if _, exists := s.values[field.Name]; !exists {
			s.order = append(s.order, field.Name)
		}
		s.values[field.Name] = field.Default
	}
	return s
}

// Names returns the field names in declaration order.
func (s *State) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Get returns the value stored for name.
func (s *State) Get(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.values[name]
	return v, ok
}

// Set overwrites the value of a declared field.
func (s *State) Set(name, value string) error {
	if s == nil {
		return errors.New("formstate: state is nil")
	}
	if _, ok := s.values[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	s.values[name] = value
	return nil
}

// Field returns a handle bound to one entry, usable wherever a single
// editable value is expected (for example a bounded counter).
func (s *State) Field(name string) (*Entry, error) {
	if _, ok := s.Get(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return &Entry{state: s, name: name}, nil
}

// Serialize returns a flat copy of every field keyed by name.
func (s *State) Serialize() map[string]string {
	if s == nil {
		return nil
	}
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Entry is a single field of a State.
type Entry struct {
	state *State
	name  string
}

// Name reports the field name.
func (e *Entry) Name() string { return e.name }

// Value returns the current field value.
func (e *Entry) Value() string {
	v, _ := e.state.Get(e.name)
	return v
}

// SetValue writes the field value.
func (e *Entry) SetValue(value string) {
	_ = e.state.Set(e.name, value)
}
