package mysql

const restaurantColumns = `
  id,
  source_key,
  source_row,
  name,
  url,
  address,
  location,
  rating,
  number_of_ratings,
  number_of_ratings_numeric,
  cost_for_two,
  latitude,
  longitude,
  cuisines,
  best_sellers,
  extras`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Dataset order is source_row, then id for rows loaded without a position.
const scanAllSQL = `SELECT` + restaurantColumns + `
FROM restaurants
ORDER BY source_row, id`

// NULL coordinates never satisfy BETWEEN, which matches their infinite distance.
const scanBoxSQL = `SELECT` + restaurantColumns + `
FROM restaurants
WHERE latitude BETWEEN ? AND ?
  AND longitude BETWEEN ? AND ?
ORDER BY source_row, id`

// -----------------------------------------------------------------------------
// WRITE QUERIES (ingestor)
// -----------------------------------------------------------------------------

const upsertRestaurantsPrefix = "INSERT INTO restaurants\n" +
	"  (source_key, source_row, name, url, address, location, rating, number_of_ratings,\n" +
	"   number_of_ratings_numeric, cost_for_two, latitude, longitude, cuisines, best_sellers, extras)\nVALUES "

const upsertRestaurantsRow = "(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"

// Use VALUES(col) for broad compatibility.
const upsertRestaurantsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  source_row                = VALUES(source_row),\n" +
	"  name                      = VALUES(name),\n" +
	"  url                       = VALUES(url),\n" +
	"  address                   = VALUES(address),\n" +
	"  location                  = VALUES(location),\n" +
	"  rating                    = VALUES(rating),\n" +
	"  number_of_ratings         = VALUES(number_of_ratings),\n" +
	"  number_of_ratings_numeric = VALUES(number_of_ratings_numeric),\n" +
	"  cost_for_two              = VALUES(cost_for_two),\n" +
	"  latitude                  = VALUES(latitude),\n" +
	"  longitude                 = VALUES(longitude),\n" +
	"  cuisines                  = VALUES(cuisines),\n" +
	"  best_sellers              = VALUES(best_sellers),\n" +
	"  extras                    = VALUES(extras),\n" +
	"  updated_at                = CURRENT_TIMESTAMP\n"
