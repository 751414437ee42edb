package domain

import (
	"encoding/json"
)

type Restaurant struct {
	ID        int64
	SourceKey string // sha1 of url and row position, or of the whole row when url is empty
	SourceRow int    // position in the source file; defines dataset order

	Name            *string
	URL             *string
	Address         *string
	Location        *string
	Rating          *string
	NumberOfRatings *string
	CostForTwo      *string

	Lat, Lon *float64

	NumberOfRatingsNumeric *float64 // ordering only; nil sorts last

	Cuisines    *string // comma separated
	BestSellers *string // JSON array of {"name": ...} objects, or free text

	Extras map[string]string // unknown source columns, passed through as-is
}

// RestaurantHit is a retained record with its distance from the query point.
type RestaurantHit struct {
	Restaurant
	DistanceKm float64
}

type SearchResult struct {
	Restaurants        []RestaurantHit `json:"restaurants"`
	PopularCuisines    []string        `json:"popular_cuisines"`
	PopularBestSellers []string        `json:"popular_best_sellers"`
}

// EmptySearchResult has all three lists non-nil so they encode as [].
func EmptySearchResult() SearchResult {
	return SearchResult{
		Restaurants:        []RestaurantHit{},
		PopularCuisines:    []string{},
		PopularBestSellers: []string{},
	}
}

// Fields returns the record as the flat column map the API emits.
// Extras go in first so typed columns always win on a name clash.
func (r Restaurant) Fields() map[string]any {
	m := make(map[string]any, len(r.Extras)+12)
	for k, v := range r.Extras {
		m[k] = v
	}
	m["name"] = r.Name
	m["url"] = r.URL
	m["address"] = r.Address
	m["location"] = r.Location
	m["rating"] = r.Rating
	m["number_of_ratings"] = r.NumberOfRatings
	m["number_of_ratings_numeric"] = r.NumberOfRatingsNumeric
	m["cost_for_two"] = r.CostForTwo
	m["latitude"] = r.Lat
	m["longitude"] = r.Lon
	m["cuisines"] = r.Cuisines
	m["best_sellers"] = r.BestSellers
	return m
}

func (h RestaurantHit) MarshalJSON() ([]byte, error) {
	m := h.Restaurant.Fields()
	m["distance_km"] = h.DistanceKm
	return json.Marshal(m)
}

func (h *RestaurantHit) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out RestaurantHit
	str := func(k string) *string {
		v, ok := raw[k]
		if !ok {
			return nil
		}
		delete(raw, k)
		var s *string
		_ = json.Unmarshal(v, &s)
		return s
	}
	num := func(k string) *float64 {
		v, ok := raw[k]
		if !ok {
			return nil
		}
		delete(raw, k)
		var f *float64
		_ = json.Unmarshal(v, &f)
		return f
	}
	out.Name = str("name")
	out.URL = str("url")
	out.Address = str("address")
	out.Location = str("location")
	out.Rating = str("rating")
	out.NumberOfRatings = str("number_of_ratings")
	out.CostForTwo = str("cost_for_two")
	out.Cuisines = str("cuisines")
	out.BestSellers = str("best_sellers")
	out.NumberOfRatingsNumeric = num("number_of_ratings_numeric")
	out.Lat = num("latitude")
	out.Lon = num("longitude")
	if d := num("distance_km"); d != nil {
		out.DistanceKm = *d
	}
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			continue
		}
		if out.Extras == nil {
			out.Extras = map[string]string{}
		}
		out.Extras[k] = s
	}
	*h = out
	return nil
}
