package tui

import (
	"io"
	"strings"

	"github.com/goliatone/go-rentcast/pkg/render/template"
)

// Theme captures optional prefixes the session applies when printing
// messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey-backed prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where screens and animation frames are written.
func WithOutput(out io.Writer) Option {
	return func(s *Session) {
		if out != nil {
			s.out = out
		}
	}
}

// WithTemplates replaces the embedded screen templates.
func WithTemplates(renderer template.TemplateRenderer) Option {
	return func(s *Session) {
		if renderer != nil {
			s.templates = renderer
		}
	}
}

// WithTemplateDir loads screen.tpl and summary.tpl from dir instead of the
// embedded templates.
func WithTemplateDir(dir string) Option {
	return func(s *Session) {
		s.templateDir = strings.TrimSpace(dir)
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}
