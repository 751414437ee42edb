package domain_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_finder/internal/domain"
)

func f(v float64) *float64 { return &v }

func TestHaversineKm(t *testing.T) {
	// one degree of latitude on a 6371 km sphere
	assert.InDelta(t, 6371.0*math.Pi/180, domain.HaversineKm(f(0), f(0), f(1), f(0)), 1e-9)
	assert.Equal(t, 0.0, domain.HaversineKm(f(40), f(-73), f(40), f(-73)))
	// Hyderabad -> Bengaluru, roughly 500 km
	assert.InDelta(t, 500.0, domain.HaversineKm(f(17.3850), f(78.4867), f(12.9716), f(77.5946)), 5)
	// symmetric
	a := domain.HaversineKm(f(51.5), f(-0.12), f(48.85), f(2.35))
	b := domain.HaversineKm(f(48.85), f(2.35), f(51.5), f(-0.12))
	assert.Equal(t, a, b)
}

func TestHaversineKm_NilIsInfinite(t *testing.T) {
	for i := 0; i < 4; i++ {
		args := []*float64{f(1), f(2), f(3), f(4)}
		args[i] = nil
		d := domain.HaversineKm(args[0], args[1], args[2], args[3])
		assert.True(t, math.IsInf(d, 1), "arg %d nil", i)
	}
}

func TestParseQueryPoint(t *testing.T) {
	qp, err := domain.ParseQueryPoint(" 17.385 ", "78.4867")
	require.NoError(t, err)
	assert.Equal(t, 17.385, qp.Lat())
	assert.Equal(t, 78.4867, qp.Lon())

	for _, bad := range [][2]string{{"", "1"}, {"1", ""}, {"x", "1"}, {"1", "Inf"}, {"NaN", "1"}} {
		_, err := domain.ParseQueryPoint(bad[0], bad[1])
		assert.ErrorIs(t, err, domain.ErrInvalidQuery, bad)
	}
}

func TestSearchBound_ContainsEveryInRadiusPoint(t *testing.T) {
	for _, c := range []domain.QueryPoint{
		domain.NewQueryPoint(17.385, 78.4867),
		domain.NewQueryPoint(-33.86, 151.2),
		domain.NewQueryPoint(64.1, -21.9),
		domain.NewQueryPoint(0, 0),
	} {
		b, ok := c.SearchBound(domain.DefaultRadiusKm)
		require.True(t, ok)
		lat, lon := c.Lat(), c.Lon()
		// walk the compass at 1.999 km and check each point is boxed
		for deg := 0.0; deg < 360; deg += 15 {
			p := destination(lat, lon, deg, 1.999)
			d := domain.HaversineKm(&lat, &lon, f(p.Lat()), f(p.Lon()))
			require.LessOrEqual(t, d, domain.DefaultRadiusKm)
			assert.True(t, b.Contains(p), "center %v bearing %v point %v not in %v", c, deg, p, b)
		}
	}
}

func TestSearchBound_AntimeridianFallsBack(t *testing.T) {
	_, ok := domain.NewQueryPoint(0, 179.99).SearchBound(domain.DefaultRadiusKm)
	assert.False(t, ok)
	_, ok = domain.NewQueryPoint(0, 0).SearchBound(-1)
	assert.False(t, ok)
}

// destination returns the point distKm away along bearing deg on the 6371 km sphere.
func destination(lat, lon, deg, distKm float64) orb.Point {
	rad := math.Pi / 180
	φ1, λ1, θ := lat*rad, lon*rad, deg*rad
	δ := distKm / domain.EarthRadiusKm
	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))
	return orb.Point{λ2 / rad, φ2 / rad}
}
