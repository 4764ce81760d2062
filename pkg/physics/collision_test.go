// pkg/physics/collision_test.go
package physics

import (
	"math/rand/v2"
	"testing"
)

func TestCircle_Collides(t *testing.T) {
	tests := []struct {
		name     string
		circle1  Circle
		circle2  Circle
		expected bool
	}{
		{
			name:     "circles_touching",
			circle1:  Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			circle2:  Circle{Center: Vector2D{X: 10, Y: 0}, Radius: 5},
			expected: false,
		},
		{
			name:     "circles_overlapping",
			circle1:  Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10},
			circle2:  Circle{Center: Vector2D{X: 15, Y: 0}, Radius: 10},
			expected: true,
		},
		{
			name:     "circles_same_position",
			circle1:  Circle{Center: Vector2D{X: 2, Y: 2}, Radius: 3},
			circle2:  Circle{Center: Vector2D{X: 2, Y: 2}, Radius: 2},
			expected: true,
		},
		{
			name:     "zero_radius_points",
			circle1:  Circle{Center: Vector2D{X: 1, Y: 1}},
			circle2:  Circle{Center: Vector2D{X: 1, Y: 1}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.circle1.Collides(tt.circle2); got != tt.expected {
				t.Errorf("Circle.Collides() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCheckCollision(t *testing.T) {
	t.Run("no_collision", func(t *testing.T) {
		result := CheckCollision(
			Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			Circle{Center: Vector2D{X: 15, Y: 0}, Radius: 5},
		)
		if result.Collided {
			t.Error("Expected no collision, but got collision")
		}
	})

	t.Run("collision_with_penetration", func(t *testing.T) {
		result := CheckCollision(
			Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			Circle{Center: Vector2D{X: 8, Y: 0}, Radius: 5},
		)
		if !result.Collided {
			t.Fatal("Expected collision, but got no collision")
		}
		if result.Penetration != 2 {
			t.Errorf("Expected penetration 2, got %v", result.Penetration)
		}
		if result.Normal != (Vector2D{X: 1, Y: 0}) {
			t.Errorf("Expected normal (1,0), got %v", result.Normal)
		}
		if result.ContactPoint != (Vector2D{X: 5, Y: 0}) {
			t.Errorf("Expected contact point (5,0), got %v", result.ContactPoint)
		}
	})

	t.Run("coincident_centers", func(t *testing.T) {
		result := CheckCollision(
			Circle{Center: Vector2D{X: 1, Y: 1}, Radius: 2},
			Circle{Center: Vector2D{X: 1, Y: 1}, Radius: 2},
		)
		if !result.Collided {
			t.Fatal("Expected collision")
		}
		if result.Normal != (Vector2D{}) {
			t.Errorf("Expected zero normal for coincident centers, got %v", result.Normal)
		}
	})
}

func bruteForcePairs(circles []Circle) map[[2]int]bool {
	pairs := make(map[[2]int]bool)
	for i := range circles {
		for j := i + 1; j < len(circles); j++ {
			if circles[i].Collides(circles[j]) {
				pairs[[2]int{i, j}] = true
			}
		}
	}
	return pairs
}

func TestSweep_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 25; trial++ {
		circles := make([]Circle, 60)
		for i := range circles {
			circles[i] = Circle{
				Center: Vector2D{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200},
				Radius: rng.Float64() * 30,
			}
		}

		expected := bruteForcePairs(circles)
		seen := make(map[[2]int]bool)
		Sweep(circles, func(k, a int) {
			key := [2]int{min(k, a), max(k, a)}
			if seen[key] {
				t.Fatalf("trial %d: pair %v visited twice", trial, key)
			}
			seen[key] = true
		})

		if len(seen) != len(expected) {
			t.Fatalf("trial %d: sweep found %d pairs, brute force %d", trial, len(seen), len(expected))
		}
		for key := range expected {
			if !seen[key] {
				t.Errorf("trial %d: sweep missed pair %v", trial, key)
			}
		}
	}
}

func TestSweep_SkipsSeparatedAndTouching(t *testing.T) {
	circles := []Circle{
		{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
		{Center: Vector2D{X: 10, Y: 0}, Radius: 5},  // touches 0
		{Center: Vector2D{X: 0, Y: 100}, Radius: 5}, // same x range, far on y
	}
	if pairs := Pairs(circles); len(pairs) != 0 {
		t.Errorf("Expected no pairs, got %v", pairs)
	}
}

func TestSweep_ZeroRadius(t *testing.T) {
	circles := []Circle{
		{Center: Vector2D{X: 0, Y: 0}, Radius: 10},
		{Center: Vector2D{X: 2, Y: 0}, Radius: 0}, // inside 0
		{Center: Vector2D{X: 50, Y: 0}, Radius: 0},
		{Center: Vector2D{X: 50, Y: 0}, Radius: 0}, // coincident points never overlap
		{Center: Vector2D{X: 100, Y: 0}, Radius: 5},
		{Center: Vector2D{X: 104, Y: 0}, Radius: 5},
	}

	var pairs [][2]int
	active := sweep(circles, func(k, a int) {
		pairs = append(pairs, [2]int{k, a})
	})

	want := [][2]int{{1, 0}, {5, 4}}
	if len(pairs) != len(want) {
		t.Fatalf("Expected pairs %v, got %v", want, pairs)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pair %d = %v, want %v", i, pairs[i], want[i])
		}
	}
	if len(active) != 0 {
		t.Errorf("Expected empty active set after sweep, got %v", active)
	}
}

func TestSweep_DeterministicOrder(t *testing.T) {
	circles := []Circle{
		{Center: Vector2D{X: 0, Y: 0}, Radius: 10},
		{Center: Vector2D{X: 5, Y: 0}, Radius: 10},
		{Center: Vector2D{X: 5, Y: 3}, Radius: 10},
	}
	first := Pairs(circles)
	for i := 0; i < 10; i++ {
		again := Pairs(circles)
		if len(again) != len(first) {
			t.Fatalf("pair count changed: %v vs %v", again, first)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("visit order changed: %v vs %v", again, first)
			}
		}
	}
	if first[0] != [2]int{1, 0} {
		t.Errorf("Expected first pair (1,0), got %v", first[0])
	}
}
