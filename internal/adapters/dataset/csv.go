package dataset

import (
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"restaurant_finder/internal/domain"
)

var ErrNoHeader = errors.New("dataset: missing header row")

// column setters for the typed fields; everything else lands in Extras.
var columns = map[string]func(r *domain.Restaurant, v string){
	"name":              func(r *domain.Restaurant, v string) { r.Name = &v },
	"url":               func(r *domain.Restaurant, v string) { r.URL = &v },
	"address":           func(r *domain.Restaurant, v string) { r.Address = &v },
	"location":          func(r *domain.Restaurant, v string) { r.Location = &v },
	"rating":            func(r *domain.Restaurant, v string) { r.Rating = &v },
	"number_of_ratings": func(r *domain.Restaurant, v string) { r.NumberOfRatings = &v },
	"cost_for_two":      func(r *domain.Restaurant, v string) { r.CostForTwo = &v },
	"cuisines":          func(r *domain.Restaurant, v string) { r.Cuisines = &v },
	"best_sellers":      func(r *domain.Restaurant, v string) { r.BestSellers = &v },
	"latitude":          func(r *domain.Restaurant, v string) { r.Lat = parseFloat(v) },
	"longitude":         func(r *domain.Restaurant, v string) { r.Lon = parseFloat(v) },
	"number_of_ratings_numeric": func(r *domain.Restaurant, v string) {
		r.NumberOfRatingsNumeric = parseFloat(v)
	},
}

// aliases map common header spellings onto the canonical column names.
var aliases = map[string]string{
	"lat":          "latitude",
	"lng":          "longitude",
	"lon":          "longitude",
	"restaurant":   "name",
	"cuisine":      "cuisines",
	"bestsellers":  "best_sellers",
	"best_seller":  "best_sellers",
	"num_ratings":  "number_of_ratings",
	"cost_for_2":   "cost_for_two",
	"ratings_text": "number_of_ratings",
}

func canonical(h string) string {
	k := strings.ToLower(strings.TrimSpace(h))
	k = strings.ReplaceAll(k, " ", "_")
	if a, ok := aliases[k]; ok {
		return a
	}
	return k
}

// DecodeCSV reads a header row followed by records. Empty cells are NULL.
// SourceRow is the 1-based record position and fixes dataset order.
func DecodeCSV(r io.Reader) ([]domain.Restaurant, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = canonical(strings.TrimPrefix(h, "\ufeff"))
	}

	var out []domain.Restaurant
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d: %w", row, err)
		}
		out = append(out, decodeRow(names, rec, row))
	}
	return out, nil
}

func decodeRow(names, rec []string, row int) domain.Restaurant {
	r := domain.Restaurant{SourceRow: row}
	for i, v := range rec {
		if i >= len(names) || names[i] == "" || strings.TrimSpace(v) == "" {
			continue
		}
		if set, ok := columns[names[i]]; ok {
			set(&r, v)
			continue
		}
		if r.Extras == nil {
			r.Extras = map[string]string{}
		}
		r.Extras[names[i]] = v
	}
	if r.NumberOfRatingsNumeric == nil && r.NumberOfRatings != nil {
		r.NumberOfRatingsNumeric = ParseRatingsCount(*r.NumberOfRatings)
	}
	if r.URL != nil {
		r.SourceKey = sourceKey(*r.URL, strconv.Itoa(row))
	} else {
		r.SourceKey = sourceKey(rec...)
	}
	return r
}

// sourceKey is fixed width so it always fits the unique column, and the row
// position keeps listings that share a url as separate records.
func sourceKey(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "\x1f")))
	return "sha1:" + hex.EncodeToString(sum[:])
}

func parseFloat(v string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

var ratingsRe = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*([KM]?)`)

// ParseRatingsCount turns listing text such as "1.2K+ ratings" or "500+"
// into a number. Text without digits ("Too Few Ratings") yields nil.
func ParseRatingsCount(s string) *float64 {
	m := ratingsRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	switch strings.ToUpper(m[2]) {
	case "K":
		f = math.Round(f * 1_000)
	case "M":
		f = math.Round(f * 1_000_000)
	}
	return &f
}
