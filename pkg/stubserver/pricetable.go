package stubserver

import (
	"embed"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables/default.yaml
var tablesFS embed.FS

// PriceTable is the lookup the stub uses in place of a trained model: a base
// nightly price per neighbourhood scaled by a room type factor.
type PriceTable struct {
	Currency       string             `yaml:"currency"`
	Confidence     float64            `yaml:"confidence"`
	DefaultBase    float64            `yaml:"default_base"`
	Neighbourhoods map[string]float64 `yaml:"neighbourhoods"`
	RoomTypes      map[string]float64 `yaml:"room_types"`
}

// DefaultPriceTable returns the embedded table.
func DefaultPriceTable() (*PriceTable, error) {
	data, err := tablesFS.ReadFile("tables/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("stubserver: read embedded table: %w", err)
	}
	return ParsePriceTable(data)
}

// LoadPriceTable reads a YAML table from disk.
func LoadPriceTable(path string) (*PriceTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stubserver: read %s: %w", path, err)
	}
	return ParsePriceTable(data)
}

// ParsePriceTable decodes a YAML table.
func ParsePriceTable(data []byte) (*PriceTable, error) {
	var table PriceTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("stubserver: parse price table: %w", err)
	}
	if table.DefaultBase <= 0 {
		return nil, fmt.Errorf("stubserver: price table needs a positive default_base")
	}
	if table.Confidence < 0 || table.Confidence > 100 {
		return nil, fmt.Errorf("stubserver: confidence %v outside [0,100]", table.Confidence)
	}
	return &table, nil
}

// Price estimates a nightly price rounded to cents. Unknown categories fall
// back to the default base and a neutral factor.
func (t *PriceTable) Price(neighbourhood, roomType string) float64 {
	base, ok := lookup(t.Neighbourhoods, neighbourhood)
	if !ok {
		base = t.DefaultBase
	}
	factor, ok := lookup(t.RoomTypes, roomType)
	if !ok {
		factor = 1
	}
	return math.Round(base*factor*100) / 100
}

func lookup(m map[string]float64, key string) (float64, bool) {
	key = strings.TrimSpace(key)
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return 0, false
}
