package pilot

import (
	"math"
	"testing"
)

func TestShape(t *testing.T) {
	tests := []struct {
		v        float64
		expected float64
	}{
		{0, 0},
		{0.1, 0},   // inside deadband
		{-0.14, 0}, // inside deadband
		{0.5, 0.5}, // passes through
		{-0.7, -0.7},
		{1.5, 1}, // clamped
		{-2, -1},
	}

	for _, tt := range tests {
		if got := Shape(tt.v); math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("Shape(%f) = %f, want %f", tt.v, got, tt.expected)
		}
	}
}

func TestFromVector(t *testing.T) {
	tests := []struct {
		r     float64
		theta float64
		pitch int
		roll  int
	}{
		{1, 0, 100, 0},             // full forward
		{1, math.Pi / 2, 0, 100},   // full right
		{1, math.Pi, -100, 0},      // full back
		{1, -math.Pi / 2, 0, -100}, // full left
		{0.1, 0, 0, 0},             // inside deadband
		{0.5, math.Pi / 4, 35, 35}, // diagonal, 0.5*cos(45deg)*100 rounds to 35
		{0, 1.2, 0, 0},
	}

	for _, tt := range tests {
		pitch, roll := FromVector(tt.r, tt.theta, 100)
		if pitch != tt.pitch || roll != tt.roll {
			t.Errorf("FromVector(%f, %f) = (%d, %d), want (%d, %d)",
				tt.r, tt.theta, pitch, roll, tt.pitch, tt.roll)
		}
	}
}

func TestFromVectorRespectsMax(t *testing.T) {
	pitch, roll := FromVector(1, 0, 50)
	if pitch != 50 || roll != 0 {
		t.Errorf("FromVector(1, 0, 50) = (%d, %d), want (50, 0)", pitch, roll)
	}
}
