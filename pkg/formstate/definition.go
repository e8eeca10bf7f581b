package formstate

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-rentcast/pkg/counter"
)

//go:embed definitions/default.yaml
var definitionsFS embed.FS

// Kind identifies how a field is edited.
type Kind string

const (
	// KindText is a free-form string input.
	KindText Kind = "text"
	// KindSelect picks one value from Options.
	KindSelect Kind = "select"
	// KindCounter is a bounded integer adjusted by increment/decrement.
	KindCounter Kind = "counter"
)

// FieldDef describes one form control.
type FieldDef struct {
	Name    string   `json:"name" yaml:"name"`
	Label   string   `json:"label" yaml:"label"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	Help    string   `json:"help,omitempty" yaml:"help,omitempty"`
	Default string   `json:"default,omitempty" yaml:"default,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	Min     int      `json:"min,omitempty" yaml:"min,omitempty"`
	Max     int      `json:"max,omitempty" yaml:"max,omitempty"`
}

// DisplayLabel falls back to the field name when no label is configured.
func (f FieldDef) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// Bounds returns the counter range, defaulting to [1,16] when unset.
func (f FieldDef) Bounds() (int, int) {
	min, max := f.Min, f.Max
	if min == 0 && max == 0 {
		return counter.DefaultMin, counter.DefaultMax
	}
	return min, max
}

// Definition is the YAML/JSON description of a form.
type Definition struct {
	Title  string     `json:"title" yaml:"title"`
	Submit string     `json:"submit" yaml:"submit"`
	Fields []FieldDef `json:"fields" yaml:"fields"`
}

// Field looks up a field definition by name.
func (d Definition) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// DefaultDefinition returns the embedded listing form: neighborhood, room type
// and a guest counter bounded to [1,16].
func DefaultDefinition() (Definition, error) {
	data, err := definitionsFS.ReadFile("definitions/default.yaml")
	if err != nil {
		return Definition{}, fmt.Errorf("formstate: read embedded definition: %w", err)
	}
	return ParseDefinition(data, "default.yaml")
}

// LoadDefinitionFile reads a JSON or YAML definition from disk.
func LoadDefinitionFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("formstate: read %s: %w", path, err)
	}
	return ParseDefinition(data, path)
}

// ParseDefinition decodes and normalises a definition. source is only used in
// error messages.
func ParseDefinition(data []byte, source string) (Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("formstate: definition %s is empty", source)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		if err := yaml.Unmarshal(data, &def); err != nil {
			return Definition{}, fmt.Errorf("formstate: parse %s: %w", source, err)
		}
	}
	return normaliseDefinition(def, source)
}

func normaliseDefinition(def Definition, source string) (Definition, error) {
	if len(def.Fields) == 0 {
		return Definition{}, fmt.Errorf("formstate: definition %s declares no fields", source)
	}
	seen := make(map[string]struct{}, len(def.Fields))
	out := def
	out.Fields = make([]FieldDef, 0, len(def.Fields))
	for i, field := range def.Fields {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return Definition{}, fmt.Errorf("formstate: %s field %d has no name", source, i)
		}
		if _, dup := seen[field.Name]; dup {
			return Definition{}, fmt.Errorf("formstate: %s duplicate field %q", source, field.Name)
		}
		seen[field.Name] = struct{}{}

		if field.Kind == "" {
			field.Kind = KindText
		}
		switch field.Kind {
		case KindText:
		case KindSelect:
			if len(field.Options) == 0 {
				return Definition{}, fmt.Errorf("formstate: %s select %q has no options", source, field.Name)
			}
			if field.Default == "" {
				field.Default = field.Options[0]
			}
		case KindCounter:
			min, max := field.Bounds()
			if min > max {
				return Definition{}, fmt.Errorf("formstate: %s counter %q: %w", source, field.Name, counter.ErrInvalidBounds)
			}
			field.Min, field.Max = min, max
			if field.Default == "" {
				field.Default = fmt.Sprint(min)
			}
		default:
			return Definition{}, fmt.Errorf("formstate: %s field %q has unknown kind %q", source, field.Name, field.Kind)
		}
		out.Fields = append(out.Fields, field)
	}
	if strings.TrimSpace(out.Submit) == "" {
		out.Submit = "Submit"
	}
	return out, nil
}
