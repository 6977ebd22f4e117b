package utils

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// ValidateCoordinate checks a WGS84 pair.
func ValidateCoordinate(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// HaversineMeters returns the great-circle distance in meters between two
// coordinate pairs. Identical points yield 0; antipodal points yield half the
// Earth's circumference. Out-of-range input fails with ErrInvalidCoordinate.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) (float64, error) {
	if err := ValidateCoordinate(lat1, lng1); err != nil {
		return 0, err
	}
	if err := ValidateCoordinate(lat2, lng2); err != nil {
		return 0, err
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	// Clamp before Asin: floating point can push a just past 1 for
	// near-antipodal pairs.
	if a > 1 {
		a = 1
	}
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMeters * c, nil
}
