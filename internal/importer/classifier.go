package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/citybicycle/journeys-backend-go/internal/models"
)

// Outcome classifies what happened to one raw journey row.
type Outcome int

const (
	// Accepted means the row produced a valid journey record.
	Accepted Outcome = iota
	// FilteredOut means the row failed the distance/duration threshold.
	// This is expected data, not an error, and is dropped silently.
	FilteredOut
	// Malformed means a required field could not be parsed. The row is
	// dropped and the failure is signaled to the caller; the batch
	// continues.
	Malformed
)

// Journeys below either threshold are not persisted at all.
const (
	minCoveredDistanceMeters = 10
	minJourneyDurationSecs   = 10
)

// Fixed 1-based column positions of the two source file families.
const (
	stationColID      = 2
	stationColName    = 3
	stationColAddress = 6
	stationColX       = 12
	stationColY       = 13

	journeyColDepartureDate    = 1
	journeyColReturnDate       = 2
	journeyColDepartureStation = 3
	journeyColReturnStation    = 5
	journeyColDistance         = 7
	journeyColDuration         = 8
)

// ClassifyStationRow builds a Station from a raw station row. The station
// name is truncated at the first comma to strip trailing descriptive text.
// Any parse failure discards the row with an error; the caller continues
// with the next row.
func ClassifyStationRow(row Row) (*models.Station, error) {
	stationID, err := row.String(stationColID)
	if err != nil {
		return nil, fmt.Errorf("station id: %w", err)
	}

	name, err := row.String(stationColName)
	if err != nil {
		return nil, fmt.Errorf("station name: %w", err)
	}
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}

	address, err := row.String(stationColAddress)
	if err != nil {
		return nil, fmt.Errorf("station address: %w", err)
	}

	x, err := row.Float(stationColX)
	if err != nil {
		return nil, fmt.Errorf("station x coordinate: %w", err)
	}
	y, err := row.Float(stationColY)
	if err != nil {
		return nil, fmt.Errorf("station y coordinate: %w", err)
	}

	return &models.Station{
		StationID: stationID,
		Name:      name,
		Address:   address,
		X:         x,
		Y:         y,
	}, nil
}

// ClassifyJourneyRow builds a BicycleJourney from a raw journey row.
//
// Distance and duration are read first: a journey shorter than 10 meters
// or 10 seconds is filtered out silently. Everything else that fails to
// parse makes the row malformed, with the cause in the returned error.
func ClassifyJourneyRow(row Row) (*models.BicycleJourney, Outcome, error) {
	distance, err := row.Float(journeyColDistance)
	if err != nil {
		return nil, Malformed, fmt.Errorf("covered distance: %w", err)
	}
	duration, err := row.Int(journeyColDuration)
	if err != nil {
		return nil, Malformed, fmt.Errorf("journey duration: %w", err)
	}

	if distance < minCoveredDistanceMeters || duration < minJourneyDurationSecs {
		return nil, FilteredOut, nil
	}

	departureRaw, err := row.String(journeyColDepartureDate)
	if err != nil {
		return nil, Malformed, fmt.Errorf("departure date: %w", err)
	}
	departureDate, err := ParseDateTime(departureRaw)
	if err != nil {
		return nil, Malformed, fmt.Errorf("departure date: %w", err)
	}

	returnRaw, err := row.String(journeyColReturnDate)
	if err != nil {
		return nil, Malformed, fmt.Errorf("return date: %w", err)
	}
	returnDate, err := ParseDateTime(returnRaw)
	if err != nil {
		return nil, Malformed, fmt.Errorf("return date: %w", err)
	}

	departureStationID, err := row.String(journeyColDepartureStation)
	if err != nil {
		return nil, Malformed, fmt.Errorf("departure station id: %w", err)
	}
	returnStationID, err := row.String(journeyColReturnStation)
	if err != nil {
		return nil, Malformed, fmt.Errorf("return station id: %w", err)
	}

	journey := &models.BicycleJourney{
		DepartureDate:      departureDate,
		ReturnDate:         returnDate,
		DepartureStationID: departureStationID,
		ReturnStationID:    returnStationID,
		CoveredDistance:    distance,
		JourneyDuration:    duration,
	}

	return journey, Accepted, nil
}

// Accepted date-time layouts, most specific first. A bare date means the
// journey started at midnight.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDateTime parses a source date-time string of the form YYYY-MM-DD
// or YYYY-MM-DDTHH:MM[:SS]. A missing time component defaults to 00:00:00.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date-time %q", s)
}
