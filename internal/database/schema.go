package database

import (
	"database/sql"
	"fmt"
)

// The bicycle_journeys column order is a versioned contract: the filtered
// journey reads scan SELECT * positionally (id, covered_distance,
// departure_date, departure_station_id, journey_duration, return_date,
// return_station_id). Changing the column order requires updating that
// mapping in the journey repository.
const schema = `
CREATE TABLE IF NOT EXISTS stations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	station_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	x REAL NOT NULL,
	y REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS bicycle_journeys (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	covered_distance REAL NOT NULL,
	departure_date TEXT NOT NULL,
	departure_station_id TEXT NOT NULL,
	journey_duration INTEGER NOT NULL,
	return_date TEXT NOT NULL,
	return_station_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journeys_departure_station
	ON bicycle_journeys(departure_station_id);
CREATE INDEX IF NOT EXISTS idx_journeys_return_station
	ON bicycle_journeys(return_station_id);
CREATE INDEX IF NOT EXISTS idx_journeys_departure_date
	ON bicycle_journeys(departure_date);
`

// CreateSchema creates the stations and bicycle_journeys tables if they
// do not exist yet. Exposed so tests can bootstrap in-memory databases.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
