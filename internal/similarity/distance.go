package similarity

import (
	"math"

	"projmerge/internal/project"
)

// EarthRadiusKM is the mean Earth radius used for great-circle distance.
const EarthRadiusKM = 6371.0

// Haversine returns the great-circle distance in kilometres between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))
	return EarthRadiusKM * c
}

// Distance returns the distance between two projects and whether it is
// known. It is unknown when either side lacks a valid location.
func Distance(a, b project.Project) (float64, bool) {
	if !a.HasLocation() || !b.HasLocation() {
		return 0, false
	}
	return Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude), true
}
