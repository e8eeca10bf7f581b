// Package display defines the seams the submission controller drives (text
// elements, the submit control, blocking alerts) and the frame-driven numeric
// animator used to reveal a predicted price.
package display

import (
	"context"
	"sync"
)

// Element is a piece of text on screen, such as the price or confidence
// display. Implementations must be comparable (pointer types) and safe for
// use from the animator goroutine.
type Element interface {
	Text() string
	SetText(string)
}

// Control is the submit button: a label plus an enabled flag.
type Control interface {
	Label() string
	SetLabel(string)
	Enabled() bool
	SetEnabled(bool)
}

// Alerter shows a message and returns once the user has acknowledged it.
type Alerter interface {
	Alert(ctx context.Context, message string) error
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(ctx context.Context, message string) error

// Alert calls fn.
func (fn AlerterFunc) Alert(ctx context.Context, message string) error {
	return fn(ctx, message)
}

// TextElement is an in-memory Element guarded by a mutex. Frontends embed it
// or use it directly when they render by polling.
type TextElement struct {
	mu   sync.RWMutex
	text string
	// OnChange, when set, is called with every new value.
	OnChange func(string)
}

// NewTextElement returns an element holding text.
func NewTextElement(text string) *TextElement {
	return &TextElement{text: text}
}

// Text returns the current value.
func (e *TextElement) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}

// SetText replaces the value.
func (e *TextElement) SetText(text string) {
	e.mu.Lock()
	e.text = text
	onChange := e.OnChange
	e.mu.Unlock()
	if onChange != nil {
		onChange(text)
	}
}

// Value and SetValue let a TextElement back a bounded counter.
func (e *TextElement) Value() string { return e.Text() }

// SetValue is an alias of SetText.
func (e *TextElement) SetValue(v string) { e.SetText(v) }

// Button is an in-memory Control.
type Button struct {
	mu      sync.RWMutex
	label   string
	enabled bool
}

// NewButton returns an enabled button.
func NewButton(label string) *Button {
	return &Button{label: label, enabled: true}
}

func (b *Button) Label() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.label
}

func (b *Button) SetLabel(label string) {
	b.mu.Lock()
	b.label = label
	b.mu.Unlock()
}

func (b *Button) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

func (b *Button) SetEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	b.mu.Unlock()
}
