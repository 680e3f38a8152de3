// Package geo scores guesses by great-circle distance.
package geo

import "math"

const (
	// EarthRadiusKm is the mean radius used by the haversine formula.
	EarthRadiusKm = 6371.0

	// MaxDistanceKm is the distance at which a guess scores zero.
	MaxDistanceKm = 20000.0

	MaxRoundScore = 1000
)

// Distance returns the haversine distance in kilometres between two points
// given in degrees.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// Rounding can push a a hair past 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Score maps a distance to [0, MaxRoundScore] along a logarithmic curve:
//
//	1000 * ln(1 + t*(e-1)),  t = max(0, 1 - d/MaxDistanceKm)
//
// Mid-range guesses still score well (10 000 km ≈ 620); only the tail near
// MaxDistanceKm collapses to zero. Negative distances count as a perfect
// guess.
func Score(distanceKm float64) int {
	if distanceKm < 0 {
		distanceKm = 0
	}
	t := math.Max(0, 1-distanceKm/MaxDistanceKm)
	if t >= 1 {
		// ln(e) may land one ulp under 1 and truncate to 999.
		return MaxRoundScore
	}
	return int(MaxRoundScore * math.Log(1+t*(math.E-1)))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
