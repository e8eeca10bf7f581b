package gotemplate_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-rentcast/pkg/render/template/gotemplate"
)

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()
	files := fstest.MapFS{
		"summary.tpl": {Data: []byte(`{{ title }}: {{ price|money:currency }} ({{ confidence|percent }})`)},
		"global.tpl":  {Data: []byte(`{{ app }} says {{ word|trim }}`)},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateWithFilters(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	got, err := engine.RenderTemplate("summary", map[string]any{
		"title":      "Nightly price",
		"price":      250.0,
		"confidence": 87.0,
		"currency":   "$",
	}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "Nightly price: $250.00 (87%)"
	if got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
	if buf.String() != want {
		t.Fatalf("writer mismatch\nwant: %q\n got: %q", want, buf.String())
	}
}

func TestEngine_GlobalContextAndStructData(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{"app": "rentcast"}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	data := struct {
		Word string `json:"word"`
	}{Word: "  hello  "}
	got, err := engine.Render("global", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "rentcast says hello" {
		t.Fatalf("got %q", got)
	}
}

func TestEngine_RenderInlineContent(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.Render("{{ n|percent }}", map[string]any{"n": 85.5})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "85.5%" {
		t.Fatalf("got %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout_rentcast", func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return strings.ToUpper(s) + "!", nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	got, err := engine.RenderString(`{{ word|shout_rentcast }}`, map[string]any{"word": "hi"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "HI!" {
		t.Fatalf("got %q", got)
	}
	if err := engine.RegisterFilter("shout_rentcast", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestEngine_BaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "price.tpl"), []byte(`{{ price|money:"€" }}`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderTemplate("price.tpl", map[string]any{"price": 99.5})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "€99.50" {
		t.Fatalf("got %q", got)
	}
}
