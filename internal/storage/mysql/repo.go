package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"restaurant_finder/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(m map[string]string) any {
	if len(m) == 0 {
		return nil
	}
	b, _ := json.Marshal(m)
	return string(b)
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
func nullF64(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) ScanRestaurants(ctx context.Context, q domain.ScanQuery) ([]domain.Restaurant, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q.Bound != nil {
		b := *q.Bound
		rows, err = r.db.QueryContext(ctx, scanBoxSQL, b.Min.Lat(), b.Max.Lat(), b.Min.Lon(), b.Max.Lon())
	} else {
		rows, err = r.db.QueryContext(ctx, scanAllSQL)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		var rs domain.Restaurant
		var (
			name, url, address, location sql.NullString
			rating, ratings, cost        sql.NullString
			cuisines, bestSellers        sql.NullString
			ratingsNum, lat, lon         sql.NullFloat64
			extras                       sql.RawBytes
		)
		if err := rows.Scan(
			&rs.ID,
			&rs.SourceKey,
			&rs.SourceRow,
			&name,
			&url,
			&address,
			&location,
			&rating,
			&ratings,
			&ratingsNum,
			&cost,
			&lat, &lon,
			&cuisines,
			&bestSellers,
			&extras,
		); err != nil {
			return nil, err
		}
		rs.Name = nullStr(name)
		rs.URL = nullStr(url)
		rs.Address = nullStr(address)
		rs.Location = nullStr(location)
		rs.Rating = nullStr(rating)
		rs.NumberOfRatings = nullStr(ratings)
		rs.NumberOfRatingsNumeric = nullF64(ratingsNum)
		rs.CostForTwo = nullStr(cost)
		rs.Lat = nullF64(lat)
		rs.Lon = nullF64(lon)
		rs.Cuisines = nullStr(cuisines)
		rs.BestSellers = nullStr(bestSellers)
		if len(extras) > 0 {
			// extras is written by this repo; a bad blob only loses passthrough columns
			_ = json.Unmarshal(extras, &rs.Extras)
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertRestaurants writes one multi-row statement keyed on source_key and
// returns the driver's rows-affected count.
func (r *Repo) UpsertRestaurants(ctx context.Context, rs []domain.Restaurant) (int64, error) {
	if len(rs) == 0 {
		return 0, nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*15) // 15 params per row
	for _, x := range rs {
		values = append(values, upsertRestaurantsRow)
		args = append(args,
			x.SourceKey,
			x.SourceRow,
			valStr(x.Name),
			valStr(x.URL),
			valStr(x.Address),
			valStr(x.Location),
			valStr(x.Rating),
			valStr(x.NumberOfRatings),
			valF64(x.NumberOfRatingsNumeric),
			valStr(x.CostForTwo),
			valF64(x.Lat),
			valF64(x.Lon),
			valStr(x.Cuisines),
			valStr(x.BestSellers),
			valJSON(x.Extras),
		)
	}
	sqlStr := upsertRestaurantsPrefix + strings.Join(values, ",") + upsertRestaurantsOnDup
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
