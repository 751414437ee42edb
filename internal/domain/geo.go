package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	EarthRadiusKm = 6371.0

	// DefaultRadiusKm is the fixed search radius; callers cannot change it.
	DefaultRadiusKm = 2.0
)

// QueryPoint is the caller's position. It is an orb.Point so it composes with
// orb/geo helpers, which means X is longitude and Y is latitude.
type QueryPoint orb.Point

func NewQueryPoint(lat, lon float64) QueryPoint { return QueryPoint{lon, lat} }

func (q QueryPoint) Lat() float64 { return q[1] }
func (q QueryPoint) Lon() float64 { return q[0] }

// ParseQueryPoint validates the raw lat/lon query values.
func ParseQueryPoint(latStr, lonStr string) (QueryPoint, error) {
	lat, ok := parseCoord(latStr)
	if !ok {
		return QueryPoint{}, ErrInvalidQuery
	}
	lon, ok := parseCoord(lonStr)
	if !ok {
		return QueryPoint{}, ErrInvalidQuery
	}
	return NewQueryPoint(lat, lon), nil
}

func parseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// HaversineKm returns the great-circle distance in km between two points given
// in degrees. A nil coordinate yields +Inf so the record never passes a radius filter.
func HaversineKm(lat1, lon1, lat2, lon2 *float64) float64 {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return math.Inf(1)
	}
	lat1Rad := toRadians(*lat1)
	lat2Rad := toRadians(*lat2)
	dLat := lat2Rad - lat1Rad
	dLon := toRadians(*lon2) - toRadians(*lon1)

	sinLat, sinLon := math.Sin(dLat/2), math.Sin(dLon/2)
	a := sinLat*sinLat + math.Cos(lat1Rad)*math.Cos(lat2Rad)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// DistanceFrom measures from the query point to a record's coordinates.
func (q QueryPoint) DistanceFrom(r Restaurant) float64 {
	lat, lon := q.Lat(), q.Lon()
	return HaversineKm(&lat, &lon, r.Lat, r.Lon)
}

func toRadians(deg float64) float64 { return deg * (math.Pi / 180) }

// SearchBound returns a lat/lon box containing every point within radiusKm of q.
// orb measures on a larger sphere, so the radius is rescaled and padded to keep
// the box at least as wide as the haversine circle. ok is false when the box
// wraps the antimeridian; callers then scan everything.
func (q QueryPoint) SearchBound(radiusKm float64) (b orb.Bound, ok bool) {
	if radiusKm < 0 || math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) {
		return orb.Bound{}, false
	}
	meters := radiusKm * 1000 * (orb.EarthRadius / (EarthRadiusKm * 1000)) * 1.01
	b = geo.NewBoundAroundPoint(orb.Point(q), meters)
	if b.Min.Lon() > b.Max.Lon() {
		return orb.Bound{}, false
	}
	return b, true
}
