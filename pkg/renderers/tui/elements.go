package tui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/goliatone/go-rentcast/pkg/formstate"
)

// action is a menu entry the controller attaches a handler to.
type action struct {
	mu      sync.Mutex
	handler func(context.Context)
}

func (a *action) OnActivate(handler func(context.Context)) {
	a.mu.Lock()
	a.handler = handler
	a.mu.Unlock()
}

func (a *action) activate(ctx context.Context) {
	a.mu.Lock()
	handler := a.handler
	a.mu.Unlock()
	if handler != nil {
		handler(ctx)
	}
}

// stateForm exposes the form state as a submittable form.
type stateForm struct {
	action
	state *formstate.State
}

func (f *stateForm) Serialize() map[string]string {
	return f.state.Serialize()
}

// promptAlerter prints the message and blocks until the user presses enter.
type promptAlerter struct {
	driver PromptDriver
	prefix string
}

func (a *promptAlerter) Alert(ctx context.Context, message string) error {
	if err := a.driver.Info(ctx, a.prefix+message); err != nil {
		return err
	}
	_, err := a.driver.Input(ctx, InputConfig{Message: "Press enter to continue"})
	return err
}

// frameWriter redraws a single line in place for each animation frame.
type frameWriter struct {
	mu    sync.Mutex
	out   io.Writer
	label string
	dirty bool
}

func (w *frameWriter) write(value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "\r%s: %s   ", w.label, value)
	w.dirty = true
}

// finish ends the redrawn line, if any frame was written since the last call.
func (w *frameWriter) finish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirty {
		fmt.Fprintln(w.out)
		w.dirty = false
	}
}
