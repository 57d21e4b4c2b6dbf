package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/citybicycle/journeys-backend-go/internal/models"
)

// DateTimeLayout is the second-precision format journey timestamps are
// stored in. Stored values compare lexicographically, which the date
// range predicates rely on.
const DateTimeLayout = "2006-01-02 15:04:05"

// JourneyRepository handles database operations for bicycle journeys
type JourneyRepository struct {
	db DBTX
}

// NewJourneyRepository creates a new journey repository
func NewJourneyRepository(db DBTX) *JourneyRepository {
	return &JourneyRepository{db: db}
}

// Save persists one journey and assigns its identity
func (r *JourneyRepository) Save(j *models.BicycleJourney) error {
	result, err := r.db.Exec(
		`INSERT INTO bicycle_journeys
			(covered_distance, departure_date, departure_station_id,
			 journey_duration, return_date, return_station_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
		j.CoveredDistance,
		j.DepartureDate.Format(DateTimeLayout),
		j.DepartureStationID,
		j.JourneyDuration,
		j.ReturnDate.Format(DateTimeLayout),
		j.ReturnStationID,
	)
	if err != nil {
		return fmt.Errorf("failed to save journey: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get journey id: %w", err)
	}
	j.ID = id

	return nil
}

// Count returns the number of persisted journeys
func (r *JourneyRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM bicycle_journeys").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count journeys: %w", err)
	}
	return count, nil
}

// FindAll retrieves every journey in insertion order
func (r *JourneyRepository) FindAll() ([]models.BicycleJourney, error) {
	return r.queryJourneys("SELECT * FROM bicycle_journeys ORDER BY id")
}

// FindByID retrieves a single journey by its internal id.
// Returns nil without an error when no journey matches.
func (r *JourneyRepository) FindByID(id int64) (*models.BicycleJourney, error) {
	rows, err := r.queryJourneys("SELECT * FROM bicycle_journeys WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// FindForDateRange retrieves the journeys matching a departure date
// predicate built by the query package, in insertion order.
func (r *JourneyRepository) FindForDateRange(predicate string) ([]models.BicycleJourney, error) {
	return r.queryJourneys("SELECT * FROM bicycle_journeys WHERE " + predicate + " ORDER BY id")
}

// queryJourneys runs a SELECT * over bicycle_journeys and maps each row
// positionally. The column order (id, covered_distance, departure_date,
// departure_station_id, journey_duration, return_date, return_station_id)
// is fixed by the schema contract; see internal/database/schema.go.
func (r *JourneyRepository) queryJourneys(query string, args ...interface{}) ([]models.BicycleJourney, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journeys: %w", err)
	}
	defer rows.Close()

	var journeys []models.BicycleJourney
	for rows.Next() {
		var j models.BicycleJourney
		var departure, ret string
		err := rows.Scan(
			&j.ID, &j.CoveredDistance, &departure, &j.DepartureStationID,
			&j.JourneyDuration, &ret, &j.ReturnStationID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journey: %w", err)
		}

		if j.DepartureDate, err = time.Parse(DateTimeLayout, departure); err != nil {
			return nil, fmt.Errorf("failed to parse departure date: %w", err)
		}
		if j.ReturnDate, err = time.Parse(DateTimeLayout, ret); err != nil {
			return nil, fmt.Errorf("failed to parse return date: %w", err)
		}

		journeys = append(journeys, j)
	}

	return journeys, rows.Err()
}

// CountByDeparture counts journeys departing from the station with the
// given external reference id. dateClause is either empty or the
// " AND (...)" form produced by the date range builder.
func (r *JourneyRepository) CountByDeparture(stationID, dateClause string) (int, error) {
	return r.countJourneys("departure_station_id", stationID, dateClause)
}

// CountByReturn counts journeys returning to the station with the given
// external reference id, restricted by the optional date clause.
func (r *JourneyRepository) CountByReturn(stationID, dateClause string) (int, error) {
	return r.countJourneys("return_station_id", stationID, dateClause)
}

func (r *JourneyRepository) countJourneys(column, stationID, dateClause string) (int, error) {
	query := "SELECT COUNT(*) FROM bicycle_journeys WHERE (" + column + " = ?)" + dateClause

	var count int
	if err := r.db.QueryRow(query, stationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count journeys by %s: %w", column, err)
	}

	return count, nil
}

// AverageDistanceByDeparture returns the mean covered distance in meters
// of journeys departing from the station. An empty matching set yields 0.
func (r *JourneyRepository) AverageDistanceByDeparture(stationID, dateClause string) (float64, error) {
	return r.averageDistance("departure_station_id", stationID, dateClause)
}

// AverageDistanceByReturn returns the mean covered distance in meters of
// journeys returning to the station. An empty matching set yields 0.
func (r *JourneyRepository) AverageDistanceByReturn(stationID, dateClause string) (float64, error) {
	return r.averageDistance("return_station_id", stationID, dateClause)
}

func (r *JourneyRepository) averageDistance(column, stationID, dateClause string) (float64, error) {
	query := "SELECT AVG(covered_distance) FROM bicycle_journeys WHERE (" + column + " = ?)" + dateClause

	// AVG over no rows is NULL, which maps to an average of zero.
	var avg sql.NullFloat64
	if err := r.db.QueryRow(query, stationID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average distance by %s: %w", column, err)
	}
	if !avg.Valid {
		return 0, nil
	}

	return avg.Float64, nil
}

// TopReturnStations returns the external ids of the stations journeys
// from the given station most often end at, ordered by journey count
// descending with station name ascending as the tie-break. The join
// excludes counterpart ids that resolve to no station.
func (r *JourneyRepository) TopReturnStations(stationID, dateClause string, limit int) ([]string, error) {
	query := `SELECT return_station_id, stations.name, COUNT(*)
		FROM bicycle_journeys
		INNER JOIN stations ON bicycle_journeys.return_station_id = stations.station_id
		WHERE (departure_station_id = ?)` + dateClause + `
		GROUP BY return_station_id
		ORDER BY COUNT(*) DESC, stations.name ASC
		LIMIT ?`

	return r.queryCounterparts(query, stationID, limit)
}

// TopDepartureStations returns the external ids of the stations journeys
// arriving at the given station most often depart from, with the same
// ordering rules as TopReturnStations.
func (r *JourneyRepository) TopDepartureStations(stationID, dateClause string, limit int) ([]string, error) {
	query := `SELECT departure_station_id, stations.name, COUNT(*)
		FROM bicycle_journeys
		INNER JOIN stations ON bicycle_journeys.departure_station_id = stations.station_id
		WHERE (return_station_id = ?)` + dateClause + `
		GROUP BY departure_station_id
		ORDER BY COUNT(*) DESC, stations.name ASC
		LIMIT ?`

	return r.queryCounterparts(query, stationID, limit)
}

func (r *JourneyRepository) queryCounterparts(query, stationID string, limit int) ([]string, error) {
	rows, err := r.db.Query(query, stationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query counterpart stations: %w", err)
	}
	defer rows.Close()

	var stationIDs []string
	for rows.Next() {
		var counterpartID, name string
		var count int
		if err := rows.Scan(&counterpartID, &name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan counterpart station: %w", err)
		}
		stationIDs = append(stationIDs, counterpartID)
	}

	return stationIDs, rows.Err()
}
