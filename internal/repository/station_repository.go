package repository

import (
	"database/sql"
	"fmt"

	"github.com/citybicycle/journeys-backend-go/internal/models"
)

// DBTX is the subset of database/sql operations the repositories use.
// Both *sql.DB and *sql.Tx satisfy it, so a repository can run over the
// shared pool or inside a transaction.
type DBTX interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// StationRepository handles database operations for stations
type StationRepository struct {
	db DBTX
}

// NewStationRepository creates a new station repository
func NewStationRepository(db DBTX) *StationRepository {
	return &StationRepository{db: db}
}

// Save persists one station and assigns its identity
func (r *StationRepository) Save(s *models.Station) error {
	result, err := r.db.Exec(
		`INSERT INTO stations (station_id, name, address, x, y) VALUES (?, ?, ?, ?, ?)`,
		s.StationID, s.Name, s.Address, s.X, s.Y,
	)
	if err != nil {
		return fmt.Errorf("failed to save station: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get station id: %w", err)
	}
	s.ID = int(id)

	return nil
}

// Count returns the number of stations
func (r *StationRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM stations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count stations: %w", err)
	}
	return count, nil
}

// FindAll retrieves every station in insertion order
func (r *StationRepository) FindAll() ([]models.Station, error) {
	rows, err := r.db.Query(
		`SELECT id, station_id, name, address, x, y FROM stations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.StationID, &s.Name, &s.Address, &s.X, &s.Y); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, s)
	}

	return stations, rows.Err()
}

// FindByID retrieves a single station by its internal id.
// Returns nil without an error when no station matches.
func (r *StationRepository) FindByID(id int) (*models.Station, error) {
	var s models.Station
	err := r.db.QueryRow(
		`SELECT id, station_id, name, address, x, y FROM stations WHERE id = ?`, id,
	).Scan(&s.ID, &s.StationID, &s.Name, &s.Address, &s.X, &s.Y)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get station: %w", err)
	}

	return &s, nil
}

// FindByStationID retrieves a single station by its external reference id.
// Returns nil without an error when no station matches.
func (r *StationRepository) FindByStationID(stationID string) (*models.Station, error) {
	var s models.Station
	err := r.db.QueryRow(
		`SELECT id, station_id, name, address, x, y FROM stations WHERE station_id = ?`,
		stationID,
	).Scan(&s.ID, &s.StationID, &s.Name, &s.Address, &s.X, &s.Y)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get station by station id: %w", err)
	}

	return &s, nil
}
