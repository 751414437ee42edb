package app

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"restaurant_finder/internal/domain"
)

const topN = 10

// counter tallies occurrences and remembers first-seen order for ties.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter { return &counter{counts: map[string]int{}} }

func (c *counter) add(k string) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

// top returns up to n keys by count desc, then first-seen order.
func (c *counter) top(n int) []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	// insertion order is the tie-break, so a stable sort on count alone is enough
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func popularCuisines(hits []domain.RestaurantHit) []string {
	c := newCounter()
	for _, h := range hits {
		if h.Cuisines == nil {
			continue
		}
		for _, tok := range strings.Split(*h.Cuisines, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				c.add(tok)
			}
		}
	}
	return c.top(topN)
}

func popularBestSellers(hits []domain.RestaurantHit) []string {
	c := newCounter()
	for _, h := range hits {
		if h.BestSellers == nil {
			continue
		}
		names, ok := parseBestSellers(*h.BestSellers)
		if !ok {
			continue
		}
		for _, n := range names {
			c.add(n)
		}
	}
	return c.top(topN)
}

// parseBestSellers extracts item names from a best_sellers cell.
// ok is false for plain text and for malformed JSON; both contribute nothing.
func parseBestSellers(raw string) (names []string, ok bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Debug().Err(err).Msg("skipping malformed best_sellers")
		return nil, false
	}
	names = make([]string, 0, len(items))
	for _, it := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(it, &obj); err != nil || obj == nil {
			continue
		}
		v, has := obj["name"]
		if !has {
			continue
		}
		if n, ok := nameValue(v); ok {
			names = append(names, n)
		}
	}
	return names, true
}

// nameValue renders a name: strings as-is, other scalars by their JSON text.
// null carries no name.
func nameValue(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if bytes.Equal(v, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	return string(v), true
}
