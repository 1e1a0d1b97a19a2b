package places

import (
	"fmt"
	"math"
)

const earthRadiusKM = 6371.0

// DistanceMiles computes the great-circle distance between two points in miles.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	km := earthRadiusKM * c
	return km * 0.621371
}

// FormatDistance renders a distance in miles for display. Distances under
// a tenth of a mile are shown in feet.
func FormatDistance(miles float64) string {
	if miles < 0.1 {
		return fmt.Sprintf("%d ft", int(math.Round(miles*5280)))
	}
	return fmt.Sprintf("%.1f mi", miles)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
