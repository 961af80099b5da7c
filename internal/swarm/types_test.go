package swarm

import (
	"errors"
	"math"
	"testing"
)

func TestPosition_Distance(t *testing.T) {
	tests := []struct {
		a, b     Position
		expected float64
	}{
		{Position{0, 0}, Position{3, 4}, 5.0},
		{Position{1, 1}, Position{1, 1}, 0.0},
		{Position{-0.05, 0}, Position{0.05, 0}, 0.1},
	}

	for _, tt := range tests {
		if got := tt.a.Distance(tt.b); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
		if got := tt.b.Distance(tt.a); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Distance(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.expected)
		}
	}
}

func TestPosition_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		p     Position
		valid bool
	}{
		{"origin", Position{}, true},
		{"NaN x", Position{math.NaN(), 0}, false},
		{"Inf y", Position{0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestSampling_Validate(t *testing.T) {
	tests := []struct {
		name string
		s    Sampling
		ok   bool
	}{
		{"sweep", Sampling{Stride: 100, Count: 36}, true},
		{"full", Sampling{Stride: 10, Count: 360}, true},
		{"zero stride", Sampling{Stride: 0, Count: 36}, false},
		{"zero count", Sampling{Stride: 10, Count: 0}, false},
		{"negative", Sampling{Stride: -1, Count: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSampling) {
				t.Errorf("expected ErrInvalidSampling, got %v", err)
			}
		})
	}
}

func TestSampling_LastRow(t *testing.T) {
	s := Sampling{Stride: 100, Count: 36}
	if s.LastRow() != 3500 {
		t.Errorf("LastRow() = %d, want 3500", s.LastRow())
	}
	if s.Row(3) != 300 {
		t.Errorf("Row(3) = %d, want 300", s.Row(3))
	}

	huge := Sampling{Stride: math.MaxInt/2 + 1, Count: 3}
	if huge.LastRow() != math.MaxInt {
		t.Errorf("LastRow() = %d, want saturation at MaxInt", huge.LastRow())
	}
}

func TestSampling_Fits(t *testing.T) {
	tests := []struct {
		name string
		s    Sampling
		rows int
		want bool
	}{
		{"sweep on full log", Sampling{Stride: 100, Count: 36}, 3501, true},
		{"sweep one row short", Sampling{Stride: 100, Count: 36}, 3500, false},
		{"single sample", Sampling{Stride: 7, Count: 1}, 1, true},
		{"empty log", Sampling{Stride: 1, Count: 1}, 0, false},
		{"overflowing stride", Sampling{Stride: math.MaxInt/2 + 1, Count: 3}, 5, false},
		{"max stride", Sampling{Stride: math.MaxInt, Count: 2}, math.MaxInt, false},
		{"invalid stride", Sampling{Stride: 0, Count: 2}, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Fits(tt.rows); got != tt.want {
				t.Errorf("Fits(%d) = %v, want %v", tt.rows, got, tt.want)
			}
		})
	}
}

func TestSeries_Final(t *testing.T) {
	if _, ok := (Series{}).Final(); ok {
		t.Error("expected no final value for empty series")
	}

	s := Series{Values: []float64{0.2, 0.4, 0.8}}
	v, ok := s.Final()
	if !ok || v != 0.8 {
		t.Errorf("Final() = %v, %v; want 0.8, true", v, ok)
	}

	c := s.Clone()
	c.Values[0] = 99
	if s.Values[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestErrors(t *testing.T) {
	var err error = &DataFormatError{Row: 3, Robot: 2, Column: 16, Field: "abc", Reason: "not a number"}
	if !errors.Is(err, ErrDataFormat) {
		t.Error("DataFormatError should match ErrDataFormat")
	}
	expected := `swarm: malformed log data: row 3 robot 2 column 16 ("abc"): not a number`
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	err = &OutOfRangeError{What: "row", Index: 3600, Limit: 3600}
	if !errors.Is(err, ErrOutOfRange) {
		t.Error("OutOfRangeError should match ErrOutOfRange")
	}

	err = &ShapeMismatchError{Run: 1, Reason: "length 35, want 36"}
	if !errors.Is(err, ErrShapeMismatch) {
		t.Error("ShapeMismatchError should match ErrShapeMismatch")
	}
	var sm *ShapeMismatchError
	if !errors.As(err, &sm) || sm.Run != 1 {
		t.Errorf("errors.As failed: %v", err)
	}
}

func TestRunID_String(t *testing.T) {
	if got := (RunID{Seed: 4}).String(); got != "seed#4" {
		t.Errorf("got %q", got)
	}
	if got := (RunID{Config: "config_1", Seed: 4}).String(); got != "config_1/seed#4" {
		t.Errorf("got %q", got)
	}
}
