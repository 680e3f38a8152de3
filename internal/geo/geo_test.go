package geo

import (
	"math"
	"testing"
)

type point struct{ lat, lng float64 }

var (
	newYork = point{40.7128, -74.006}
	london  = point{51.5074, -0.1278}
	tokyo   = point{35.6762, 139.6503}
	sydney  = point{-33.8688, 151.2093}
)

func TestDistanceZeroForSamePoint(t *testing.T) {
	for _, p := range []point{newYork, london, tokyo, sydney, {0, 0}, {90, 0}, {-90, 180}} {
		if d := Distance(p.lat, p.lng, p.lat, p.lng); d != 0 {
			t.Errorf("Distance(%v, %v) = %f, want 0", p, p, d)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]point{
		{newYork, london},
		{tokyo, sydney},
		{london, sydney},
		{{0, 0}, {0, 180}},
	}
	for _, p := range pairs {
		ab := Distance(p[0].lat, p[0].lng, p[1].lat, p[1].lng)
		ba := Distance(p[1].lat, p[1].lng, p[0].lat, p[0].lng)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance not symmetric for %v: %f vs %f", p, ab, ba)
		}
	}
}

func TestDistanceNewYorkLondon(t *testing.T) {
	d := Distance(newYork.lat, newYork.lng, london.lat, london.lng)
	if d < 5550 || d > 5600 {
		t.Fatalf("New York to London = %f km, want within [5550, 5600]", d)
	}
}

func TestDistanceAntipodal(t *testing.T) {
	d := Distance(0, 0, 0, 180)
	want := math.Pi * EarthRadiusKm
	if math.IsNaN(d) || math.Abs(d-want) > 1 {
		t.Fatalf("antipodal distance = %f, want ≈ %f", d, want)
	}

	d = Distance(90, 0, -90, 0)
	if math.IsNaN(d) || math.Abs(d-want) > 1 {
		t.Fatalf("pole to pole = %f, want ≈ %f", d, want)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     int
	}{
		{"perfect", 0, 1000},
		{"negative clamps to perfect", -150, 1000},
		{"at max distance", MaxDistanceKm, 0},
		{"beyond max distance", 25000, 0},
		{"antipodal", math.Pi * EarthRadiusKm, 0},
		// 827.99 and 967.88: fractions are dropped, not rounded.
		{"truncates 5000 km", 5000, 827},
		{"truncates 1000 km", 1000, 967},
		{"truncates 18000 km", 18000, 158},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.distance); got != tt.want {
				t.Errorf("Score(%f) = %d, want %d", tt.distance, got, tt.want)
			}
		})
	}
}

func TestScoreMidRangeIsGenerous(t *testing.T) {
	// 1000 * ln(1 + 0.5*(e-1)) ≈ 620.
	got := Score(10000)
	if got < 615 || got > 625 {
		t.Fatalf("Score(10000) = %d, want ≈ 620", got)
	}
}

func TestScoreNonIncreasing(t *testing.T) {
	prev := Score(0)
	for d := 0.0; d <= 21000; d += 250 {
		s := Score(d)
		if s > prev {
			t.Fatalf("Score(%f) = %d exceeds previous %d", d, s, prev)
		}
		if s < 0 || s > MaxRoundScore {
			t.Fatalf("Score(%f) = %d out of range", d, s)
		}
		prev = s
	}
}
