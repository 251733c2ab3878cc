package geo

import "github.com/golang/geo/s2"

// EarthRadiusKM is the mean earth radius used for great-circle lengths.
const EarthRadiusKM = 6371.0088

// DistanceKM returns the great-circle distance between two [lng, lat] pairs.
func DistanceKM(a, b [2]float64) float64 {
	p1 := s2.LatLngFromDegrees(a[1], a[0])
	p2 := s2.LatLngFromDegrees(b[1], b[0])
	return p1.Distance(p2).Radians() * EarthRadiusKM
}

// PathLengthKM sums the segment lengths of a [lng, lat] polyline.
func PathLengthKM(coords [][2]float64) float64 {
	total := 0.0
	for i := 1; i < len(coords); i++ {
		total += DistanceKM(coords[i-1], coords[i])
	}
	return total
}
