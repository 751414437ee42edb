package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_finder/internal/domain"
)

func s(v string) *string { return &v }

func TestRestaurantHit_JSONPassesAllFieldsThrough(t *testing.T) {
	h := domain.RestaurantHit{
		Restaurant: domain.Restaurant{
			ID:          99,
			Name:        s("Paradise"),
			Lat:         f(17.385),
			Cuisines:    s("Biryani"),
			BestSellers: s(`[{"name":"Biryani"}]`),
			Extras:      map[string]string{"timings": "11am-11pm", "name": "shadowed"},
		},
		DistanceKm: 1.25,
	}
	b, err := json.Marshal(h)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "Paradise", m["name"], "typed columns win over extras")
	assert.Equal(t, "11am-11pm", m["timings"])
	assert.Equal(t, 1.25, m["distance_km"])
	assert.Contains(t, m, "longitude")
	assert.Nil(t, m["longitude"])
	assert.NotContains(t, m, "ID")

	var back domain.RestaurantHit
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "Paradise", *back.Name)
	assert.Equal(t, 17.385, *back.Lat)
	assert.Nil(t, back.Lon)
	assert.Equal(t, 1.25, back.DistanceKm)
	assert.Equal(t, map[string]string{"timings": "11am-11pm"}, back.Extras)
}
