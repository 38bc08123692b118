package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// kmPerDegreeLat is the approximate north-south span of one degree of
// latitude.
const kmPerDegreeLat = 111.0

// Distance returns the great-circle distance in kilometers between two
// coordinates given in degrees, using the haversine formula. Inputs outside
// the valid latitude/longitude domain propagate mathematically; validation
// belongs to the caller.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// BoundingBox returns the [minLat, maxLat, minLng, maxLng] rectangle that
// encloses a circle of radiusKm around the given center. It is deliberately
// loose: candidates inside the box still go through the exact Distance test.
func BoundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radiusKm / kmPerDegreeLat

	// Longitude degrees shrink towards the poles; clamp so the box stays
	// finite at extreme latitudes.
	cosLat := math.Cos(radians(lat))
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLng := radiusKm / (kmPerDegreeLat * cosLat)

	return lat - dLat, lat + dLat, lng - dLng, lng + dLng
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
