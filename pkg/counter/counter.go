package counter

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// DefaultMin is the lower bound of the occupancy field.
	DefaultMin = 1
	// DefaultMax is the upper bound of the occupancy field.
	DefaultMax = 16
)

// ErrInvalidBounds is returned when a counter is configured with min > max.
var ErrInvalidBounds = errors.New("counter: min must not exceed max")

// Field is the single editable value a counter reads and writes. Display
// elements and form state entries both satisfy it.
type Field interface {
	Value() string
	SetValue(string)
}

// Counter clamps a numeric field to an inclusive range.
type Counter struct {
	field Field
	min   int
	max   int
}

// Option configures a Counter.
type Option func(*Counter)

// WithBounds overrides the default [1,16] range.
func WithBounds(min, max int) Option {
	return func(c *Counter) {
		c.min = min
		c.max = max
	}
}

// New binds a counter to field.
func New(field Field, options ...Option) (*Counter, error) {
	if field == nil {
		return nil, errors.New("counter: field is nil")
	}
	c := &Counter{
		field: field,
		min:   DefaultMin,
		max:   DefaultMax,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.min > c.max {
		return nil, ErrInvalidBounds
	}
	return c, nil
}

// Bounds reports the inclusive range.
func (c *Counter) Bounds() (int, int) {
	return c.min, c.max
}

// Current parses the field value. ok is false when the value is not an
// integer or sits outside the bounds.
func (c *Counter) Current() (value int, ok bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(c.field.Value()))
	if err != nil {
		return c.min, false
	}
	if parsed < c.min || parsed > c.max {
		return clamp(parsed, c.min, c.max), false
	}
	return parsed, true
}

// Decrement lowers the value by one unless it already sits at the lower bound.
func (c *Counter) Decrement() {
	current, ok := c.Current()
	if !ok {
		c.write(current)
		return
	}
	if current > c.min {
		c.write(current - 1)
	}
}

// Increment raises the value by one unless it already sits at the upper bound.
func (c *Counter) Increment() {
	current, ok := c.Current()
	if !ok {
		c.write(current)
		return
	}
	if current < c.max {
		c.write(current + 1)
	}
}

func (c *Counter) write(value int) {
	c.field.SetValue(strconv.Itoa(value))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
