package tui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-rentcast/pkg/controller"
	"github.com/goliatone/go-rentcast/pkg/counter"
	"github.com/goliatone/go-rentcast/pkg/display"
	"github.com/goliatone/go-rentcast/pkg/formstate"
	"github.com/goliatone/go-rentcast/pkg/render/template"
	"github.com/goliatone/go-rentcast/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

const placeholder = "--"

// Session is the terminal page: it owns the form state and the display
// elements, binds them to a controller and runs the action menu.
type Session struct {
	driver      PromptDriver
	out         io.Writer
	templates   template.TemplateRenderer
	templateDir string
	theme       Theme

	def          formstate.Definition
	state        *formstate.State
	counterField formstate.FieldDef

	dec, inc   action
	form       *stateForm
	submit     *display.Button
	price      *display.TextElement
	confidence *display.TextElement
	frames     *frameWriter

	last *controller.Submission
}

// New builds a session for def and binds ctrl to its elements.
func New(def formstate.Definition, ctrl *controller.Controller, options ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("tui: controller is nil")
	}

	s := &Session{
		out:        os.Stdout,
		def:        def,
		state:      formstate.New(def),
		submit:     display.NewButton(def.Submit),
		price:      display.NewTextElement(placeholder),
		confidence: display.NewTextElement(placeholder),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = newSurveyDriver(s.out)
	}
	if s.templates == nil {
		engine, err := newTemplates(s.templateDir)
		if err != nil {
			return nil, fmt.Errorf("tui: templates: %w", err)
		}
		s.templates = engine
	}

	found := false
	for _, field := range def.Fields {
		if field.Kind == formstate.KindCounter {
			s.counterField = field
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNoCounter
	}
	occupancy, err := s.state.Field(s.counterField.Name)
	if err != nil {
		return nil, err
	}

	s.form = &stateForm{state: s.state}
	s.frames = &frameWriter{out: s.out, label: "Price"}
	s.price.OnChange = s.frames.write

	min, max := s.counterField.Bounds()
	err = ctrl.Bind(controller.Page{
		DecrementButton: &s.dec,
		IncrementButton: &s.inc,
		Occupancy:       occupancy,
		Form:            s.form,
		Submit:          s.submit,
		Price:           s.price,
		Confidence:      s.confidence,
		Alerter:         &promptAlerter{driver: s.driver, prefix: s.theme.ErrorPrefix},
		CounterOptions:  []counter.Option{counter.WithBounds(min, max)},
		OnSubmitted: func(sub controller.Submission) {
			s.last = &sub
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tui: bind controller: %w", err)
	}
	return s, nil
}

func newTemplates(dir string) (*gotemplate.Engine, error) {
	if dir != "" {
		return gotemplate.New(gotemplate.WithBaseDir(dir))
	}
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	return gotemplate.New(gotemplate.WithFS(sub))
}

// State exposes the form state.
func (s *Session) State() *formstate.State {
	return s.state
}

// PriceText returns the price display.
func (s *Session) PriceText() string {
	return s.price.Text()
}

// ConfidenceText returns the confidence display.
func (s *Session) ConfidenceText() string {
	return s.confidence.Text()
}

type menuEntry struct {
	label string
	run   func(ctx context.Context) (quit bool, err error)
}

// Run shows the screen and the action menu until the user quits. Aborting a
// prompt returns ErrAborted.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.renderScreen(); err != nil {
			return err
		}

		entries := s.menu()
		labels := make([]string, len(entries))
		for i, entry := range entries {
			labels[i] = entry.label
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:  "Choose an action",
			Options:  labels,
			PageSize: len(labels),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(entries) {
			_ = s.info(ctx, "Unknown action")
			continue
		}

		quit, err := entries[idx].run(ctx)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (s *Session) menu() []menuEntry {
	var entries []menuEntry
	for _, field := range s.def.Fields {
		field := field
		value, _ := s.state.Get(field.Name)
		switch field.Kind {
		case formstate.KindCounter:
			if field.Name != s.counterField.Name {
				continue
			}
			entries = append(entries,
				menuEntry{
					label: fmt.Sprintf("%s - (%s)", field.DisplayLabel(), value),
					run:   s.fire(&s.dec),
				},
				menuEntry{
					label: fmt.Sprintf("%s + (%s)", field.DisplayLabel(), value),
					run:   s.fire(&s.inc),
				},
			)
		case formstate.KindSelect:
			entries = append(entries, menuEntry{
				label: fmt.Sprintf("Change %s (%s)", field.DisplayLabel(), value),
				run:   func(ctx context.Context) (bool, error) { return false, s.editSelect(ctx, field) },
			})
		default:
			entries = append(entries, menuEntry{
				label: fmt.Sprintf("Edit %s (%s)", field.DisplayLabel(), value),
				run:   func(ctx context.Context) (bool, error) { return false, s.editText(ctx, field) },
			})
		}
	}

	if s.submit.Enabled() {
		entries = append(entries, menuEntry{label: s.submit.Label(), run: s.runSubmit})
	}
	entries = append(entries, menuEntry{
		label: "Quit",
		run:   func(context.Context) (bool, error) { return true, nil },
	})
	return entries
}

func (s *Session) fire(a *action) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		a.activate(ctx)
		return false, nil
	}
}

func (s *Session) editSelect(ctx context.Context, field formstate.FieldDef) error {
	current, _ := s.state.Get(field.Name)
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      field.DisplayLabel(),
		Options:      field.Options,
		DefaultIndex: indexOf(field.Options, current),
		Help:         field.Help,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Options) {
		return s.info(ctx, fmt.Sprintf("Invalid %s selection", field.Name))
	}
	return s.state.Set(field.Name, field.Options[idx])
}

func (s *Session) editText(ctx context.Context, field formstate.FieldDef) error {
	current, _ := s.state.Get(field.Name)
	value, err := s.driver.Input(ctx, InputConfig{
		Message: field.DisplayLabel(),
		Default: current,
		Help:    field.Help,
	})
	if err != nil {
		return err
	}
	return s.state.Set(field.Name, value)
}

func (s *Session) runSubmit(ctx context.Context) (bool, error) {
	s.last = nil
	s.form.activate(ctx)
	sub := s.last
	if sub == nil {
		return false, nil
	}

	switch sub.Outcome {
	case controller.OutcomePriced:
		if sub.Animation != nil {
			if err := sub.Animation.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return false, err
			}
		}
		s.frames.finish()
		summary, err := s.templates.RenderTemplate("summary", map[string]any{
			"price":      sub.Result.Price,
			"confidence": sub.Result.Confidence,
			"currency":   sub.Result.Currency,
		})
		if err != nil {
			return false, err
		}
		return false, s.info(ctx, strings.TrimSpace(summary))
	case controller.OutcomeFailed:
		s.frames.finish()
		return false, s.info(ctx, s.theme.ErrorPrefix+"Prediction service unreachable")
	default:
		return false, nil
	}
}

func (s *Session) renderScreen() error {
	fields := make([]map[string]any, 0, len(s.def.Fields))
	for _, field := range s.def.Fields {
		value, _ := s.state.Get(field.Name)
		fields = append(fields, map[string]any{
			"label": field.DisplayLabel(),
			"value": value,
		})
	}
	_, err := s.templates.RenderTemplate("screen", map[string]any{
		"title":      s.def.Title,
		"fields":     fields,
		"price":      s.price.Text(),
		"confidence": s.confidence.Text(),
	}, s.out)
	return err
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.InfoPrefix+msg)
}
