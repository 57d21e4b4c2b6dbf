package importer

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/citybicycle/journeys-backend-go/internal/database"
	"github.com/citybicycle/journeys-backend-go/internal/repository"
)

// Importer walks delimited source files and persists the valid records.
// Each file is imported inside a single transaction so hundreds of
// thousands of row inserts commit once. A row that fails to parse or to
// persist never aborts the rest of its batch; only a file that cannot be
// opened or read at all fails the import of that file.
type Importer struct {
	db *sql.DB
}

// NewImporter creates a new importer
func NewImporter(db *sql.DB) *Importer {
	return &Importer{db: db}
}

// ImportStations imports every valid station row from the given CSV file.
func (im *Importer) ImportStations(path string) error {
	var imported, malformed int

	err := database.Transaction(im.db, func(tx *sql.Tx) error {
		stations := repository.NewStationRepository(tx)

		return walkFile(path, func(row Row) {
			station, err := ClassifyStationRow(row)
			if err != nil {
				malformed++
				log.Printf("Skipping malformed station row: %v", err)
				return
			}
			if err := stations.Save(station); err != nil {
				log.Printf("Failed to save station %s: %v", station.StationID, err)
				return
			}
			imported++
		})
	})
	if err != nil {
		return err
	}

	log.Printf("Imported %d stations from %s (%d malformed rows skipped)",
		imported, path, malformed)
	return nil
}

// ImportJourneys imports every valid journey row from the given CSV file.
// Rows below the distance/duration threshold are dropped silently;
// malformed rows are counted and logged.
func (im *Importer) ImportJourneys(path string) error {
	var imported, filtered, malformed int

	err := database.Transaction(im.db, func(tx *sql.Tx) error {
		journeys := repository.NewJourneyRepository(tx)

		return walkFile(path, func(row Row) {
			journey, outcome, err := ClassifyJourneyRow(row)
			switch outcome {
			case FilteredOut:
				filtered++
				return
			case Malformed:
				malformed++
				log.Printf("Skipping malformed journey row: %v", err)
				return
			}

			if err := journeys.Save(journey); err != nil {
				log.Printf("Failed to save journey: %v", err)
				return
			}
			imported++
		})
	})
	if err != nil {
		return err
	}

	log.Printf("Imported %d journeys from %s (%d below threshold, %d malformed)",
		imported, path, filtered, malformed)
	return nil
}

// walkFile opens a CSV file, skips the header line and feeds every data
// row to fn. It returns an error only when the file itself is unreadable.
func walkFile(path string, fn func(Row)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A single unparsable line is a row-level failure, not a
			// file-level one.
			log.Printf("Skipping unreadable row in %s: %v", path, err)
			continue
		}
		fn(Row(record))
	}

	return nil
}
