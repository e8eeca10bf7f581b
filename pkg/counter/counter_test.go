package counter

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"
)

type memField struct {
	value  string
	writes int
}

func (f *memField) Value() string { return f.value }

func (f *memField) SetValue(v string) {
	f.value = v
	f.writes++
}

func TestCounter_StepsWithinBounds(t *testing.T) {
	field := &memField{value: "2"}
	c, err := New(field)
	if err != nil {
		t.Fatalf("new counter: %v", err)
	}

	c.Increment()
	if field.value != "3" {
		t.Fatalf("increment: got %q want 3", field.value)
	}
	c.Decrement()
	c.Decrement()
	if field.value != "1" {
		t.Fatalf("decrement: got %q want 1", field.value)
	}
}

func TestCounter_NoOpAtBounds(t *testing.T) {
	low := &memField{value: "1"}
	c, _ := New(low)
	c.Decrement()
	if low.value != "1" || low.writes != 0 {
		t.Fatalf("decrement at 1 should be a no-op, got %q after %d writes", low.value, low.writes)
	}

	high := &memField{value: "16"}
	c, _ = New(high)
	c.Increment()
	if high.value != "16" || high.writes != 0 {
		t.Fatalf("increment at 16 should be a no-op, got %q after %d writes", high.value, high.writes)
	}
}

func TestCounter_RandomWalkStaysInRange(t *testing.T) {
	field := &memField{value: "8"}
	c, _ := New(field)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		if rng.Intn(2) == 0 {
			c.Decrement()
		} else {
			c.Increment()
		}
		v, err := strconv.Atoi(field.value)
		if err != nil {
			t.Fatalf("step %d: non-numeric value %q", i, field.value)
		}
		if v < DefaultMin || v > DefaultMax {
			t.Fatalf("step %d: value %d escaped [%d,%d]", i, v, DefaultMin, DefaultMax)
		}
	}
}

func TestCounter_NormalisesInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		value string
		step  func(*Counter)
		want  string
	}{
		{"non-numeric increment", "abc", (*Counter).Increment, "1"},
		{"non-numeric decrement", "", (*Counter).Decrement, "1"},
		{"above range", "40", (*Counter).Decrement, "16"},
		{"below range", "-3", (*Counter).Increment, "1"},
		{"padded", " 4 ", (*Counter).Increment, "5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field := &memField{value: tc.value}
			c, _ := New(field)
			tc.step(c)
			if field.value != tc.want {
				t.Fatalf("got %q want %q", field.value, tc.want)
			}
		})
	}
}

func TestCounter_CustomBounds(t *testing.T) {
	field := &memField{value: "3"}
	c, err := New(field, WithBounds(2, 3))
	if err != nil {
		t.Fatalf("new counter: %v", err)
	}
	c.Increment()
	if field.value != "3" {
		t.Fatalf("got %q want 3", field.value)
	}
	c.Decrement()
	c.Decrement()
	if field.value != "2" {
		t.Fatalf("got %q want 2", field.value)
	}

	if _, err := New(field, WithBounds(5, 1)); !errors.Is(err, ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds, got %v", err)
	}
}
