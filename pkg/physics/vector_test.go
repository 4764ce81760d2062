// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestVector2D_Arithmetic(t *testing.T) {
	a := Vector2D{X: 3, Y: 4}
	b := Vector2D{X: 1, Y: -2}

	if got := a.Add(b); got != (Vector2D{X: 4, Y: 2}) {
		t.Errorf("Add() = %v", got)
	}
	if got := a.Sub(b); got != (Vector2D{X: 2, Y: 6}) {
		t.Errorf("Sub() = %v", got)
	}
	if got := a.Scale(-2); got != (Vector2D{X: -6, Y: -8}) {
		t.Errorf("Scale() = %v", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length() = %v, expected 5", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot() = %v, expected -5", got)
	}
}

func TestVector2D_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		expected Vector2D
	}{
		{"axis", Vector2D{X: 0, Y: -7}, Vector2D{X: 0, Y: -1}},
		{"diagonal", Vector2D{X: 3, Y: 4}, Vector2D{X: 0.6, Y: 0.8}},
		{"zero_vector", Vector2D{}, Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Normalize()
			if math.IsNaN(got.X) || math.IsNaN(got.Y) {
				t.Fatalf("Normalize() produced NaN: %v", got)
			}
			if !approxEqual(got.X, tt.expected.X) || !approxEqual(got.Y, tt.expected.Y) {
				t.Errorf("Normalize() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestVector2D_Limit(t *testing.T) {
	v := Vector2D{X: 30, Y: 40}
	if got := v.Limit(10); !approxEqual(got.Length(), 10) {
		t.Errorf("Limit(10) length = %v", got.Length())
	}
	if got := v.Limit(100); got != v {
		t.Errorf("Limit(100) changed a short vector: %v", got)
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		deg      float64
		expected Vector2D
	}{
		{0, Vector2D{X: 0, Y: -1}},
		{90, Vector2D{X: 1, Y: 0}},
		{180, Vector2D{X: 0, Y: 1}},
		{270, Vector2D{X: -1, Y: 0}},
	}

	for _, tt := range tests {
		got := Heading(tt.deg)
		if !approxEqual(got.X, tt.expected.X) || !approxEqual(got.Y, tt.expected.Y) {
			t.Errorf("Heading(%v) = %v, expected %v", tt.deg, got, tt.expected)
		}
		if back := HeadingAngle(got); !approxEqual(back, WrapDegrees(tt.deg)) {
			t.Errorf("HeadingAngle(Heading(%v)) = %v", tt.deg, back)
		}
	}
}

func TestHeading_MatchesRotateDeg(t *testing.T) {
	for _, deg := range []float64{0, 33, 120, 250, -45} {
		rotated := Vector2D{X: 0, Y: -1}.RotateDeg(deg)
		h := Heading(deg)
		if !approxEqual(rotated.X, h.X) || !approxEqual(rotated.Y, h.Y) {
			t.Errorf("RotateDeg(%v) = %v, Heading = %v", deg, rotated, h)
		}
	}
}

func TestAngleDelta(t *testing.T) {
	tests := []struct {
		from, to, expected float64
	}{
		{0, 90, 90},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
		{90, 90, 0},
	}

	for _, tt := range tests {
		if got := AngleDelta(tt.from, tt.to); !approxEqual(got, tt.expected) {
			t.Errorf("AngleDelta(%v, %v) = %v, expected %v", tt.from, tt.to, got, tt.expected)
		}
	}
}

func TestWrapDegrees(t *testing.T) {
	for _, tt := range []struct{ in, out float64 }{{360, 0}, {-90, 270}, {725, 5}, {0, 0}} {
		if got := WrapDegrees(tt.in); math.Abs(got-tt.out) > epsilon {
			t.Errorf("WrapDegrees(%v) = %v, expected %v", tt.in, got, tt.out)
		}
	}
}
