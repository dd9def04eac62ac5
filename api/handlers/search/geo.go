package search

import "math"

// earthRadiusKM is the mean Earth radius used for both the bounding box and
// the exact distance calculation.
const earthRadiusKM = 6371.0

// BoundingBox is a lat/lng rectangle that fully contains the circle of a
// given radius around a center point. It is a necessary, not sufficient,
// filter: candidates inside the box still need an exact distance check.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// NewBoundingBox computes the flat-Earth bounding box for a circle of
// radiusKM kilometers centered at (lat, lng), in degrees.
func NewBoundingBox(lat, lng, radiusKM float64) BoundingBox {
	dLat := (radiusKM / earthRadiusKM) * (180 / math.Pi)
	dLng := (radiusKM / (earthRadiusKM * math.Cos(lat*math.Pi/180))) * (180 / math.Pi)
	return BoundingBox{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
		MinLng: lng - dLng,
		MaxLng: lng + dLng,
	}
}

// Haversine returns the great-circle distance in kilometers between two
// points given in degrees. The acos argument is clamped to [-1, 1] so that
// floating-point drift on near-identical points cannot produce a domain
// error.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	rDLng := (lng2 - lng1) * math.Pi / 180

	a := math.Cos(rLat1)*math.Cos(rLat2)*math.Cos(rDLng) + math.Sin(rLat1)*math.Sin(rLat2)
	if a > 1 {
		a = 1
	}
	if a < -1 {
		a = -1
	}
	return earthRadiusKM * math.Acos(a)
}
