package service

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/citybicycle/journeys-backend-go/internal/cache"
	"github.com/citybicycle/journeys-backend-go/internal/models"
	"github.com/citybicycle/journeys-backend-go/internal/query"
	"github.com/citybicycle/journeys-backend-go/internal/repository"
)

// SortKey selects the journey attribute a listing is sorted by.
type SortKey string

// The four supported sort keys. Station keys compare the resolved station
// name, not the reference id.
const (
	SortByDepartureStation SortKey = "departureStation"
	SortByReturnStation    SortKey = "returnStation"
	SortByDistance         SortKey = "distance"
	SortByDuration         SortKey = "duration"
)

// SortDirection selects ascending or descending order.
type SortDirection string

// The two supported sort directions.
const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// JourneyService resolves month selections into journey collections and
// sorts them in memory. It keeps the most recently produced collection as
// the current result set; the count endpoint answers from that set when
// present instead of re-querying storage. All access to the shared result
// set is serialized, so a concurrent reader never observes a half-sorted
// or half-replaced collection.
type JourneyService struct {
	mu       sync.Mutex
	journeys *repository.JourneyRepository
	stations *cache.StationCache
	dates    *query.DateRange

	current    []models.BicycleJourney
	hasCurrent bool
}

// NewJourneyService creates a new journey service
func NewJourneyService(journeys *repository.JourneyRepository, stations *cache.StationCache) *JourneyService {
	return &JourneyService{
		journeys: journeys,
		stations: stations,
		dates:    query.NewDateRange(),
	}
}

// CountAll returns the total journey count. When a listing has been
// produced at least once, the count comes from that in-memory collection
// rather than a second storage pass.
func (s *JourneyService) CountAll() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasCurrent {
		return int64(len(s.current)), nil
	}

	return s.journeys.Count()
}

// ListJourneys returns the journeys for the selected months, newest
// insertions first, and publishes the result as the current result set.
func (s *JourneyService) ListJourneys(months models.MonthSelection) ([]models.BicycleJourney, error) {
	journeys, err := s.journeysForMonths(months)
	if err != nil {
		return nil, err
	}

	reverse(journeys)
	s.publish(journeys)

	return journeys, nil
}

// SortJourneys fetches the journeys for the selected months, sorts them
// by the given key, and publishes the result as the current result set.
//
// Sorting is always an ascending-oriented stable sort; a descending
// request reverses the whole sequence afterwards. Journeys whose station
// id does not resolve sort before all resolvable journeys in ascending
// mode, which means they end up last after a descending reversal. That
// asymmetry is deliberate and load-bearing for the dashboard.
func (s *JourneyService) SortJourneys(months models.MonthSelection, key SortKey, direction SortDirection) ([]models.BicycleJourney, error) {
	journeys, err := s.journeysForMonths(months)
	if err != nil {
		return nil, err
	}

	less, err := s.lessFunc(journeys, key)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(journeys, less)
	if direction == Descending {
		reverse(journeys)
	}
	s.publish(journeys)

	return journeys, nil
}

// GetJourney returns a single journey by its internal id, given as the
// raw path segment.
func (s *JourneyService) GetJourney(rawID string) (*models.BicycleJourney, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, &models.IDNotANumberError{ID: rawID}
	}

	journey, err := s.journeys.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get journey: %w", err)
	}
	if journey == nil {
		return nil, &models.JourneyNotFoundError{ID: id}
	}

	return journey, nil
}

// journeysForMonths resolves a month selection into a journey collection.
// All available months selected means a full unfiltered read; anything
// less goes through the date range predicate. Either way the collection
// comes back in storage insertion order.
func (s *JourneyService) journeysForMonths(months models.MonthSelection) ([]models.BicycleJourney, error) {
	if months.AllSelected() {
		return s.journeys.FindAll()
	}

	return s.journeys.FindForDateRange(s.dates.Clause(months))
}

// lessFunc builds the ascending comparison for the given sort key. For
// station-name keys the station cache is loaded up front so a cache load
// failure surfaces here instead of silently turning every journey into an
// unresolved one.
func (s *JourneyService) lessFunc(journeys []models.BicycleJourney, key SortKey) (func(i, j int) bool, error) {
	switch key {
	case SortByDistance:
		return func(i, j int) bool {
			return journeys[i].CoveredDistance < journeys[j].CoveredDistance
		}, nil
	case SortByDuration:
		return func(i, j int) bool {
			return journeys[i].JourneyDuration < journeys[j].JourneyDuration
		}, nil
	case SortByDepartureStation, SortByReturnStation:
		if err := s.stations.Ensure(); err != nil {
			return nil, err
		}
		stationID := func(j models.BicycleJourney) string {
			if key == SortByReturnStation {
				return j.ReturnStationID
			}
			return j.DepartureStationID
		}
		return func(i, j int) bool {
			return s.stationNameLess(stationID(journeys[i]), stationID(journeys[j]))
		}, nil
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}
}

// stationNameLess compares two journeys by resolved station name.
// Unresolved on both sides is equal; unresolved on one side sorts first.
func (s *JourneyService) stationNameLess(leftID, rightID string) bool {
	left, okLeft := s.stations.Get(leftID)
	right, okRight := s.stations.Get(rightID)

	switch {
	case !okLeft && !okRight:
		return false
	case !okLeft:
		return true
	case !okRight:
		return false
	default:
		return left.Name < right.Name
	}
}

// publish replaces the current result set under the lock.
func (s *JourneyService) publish(journeys []models.BicycleJourney) {
	s.mu.Lock()
	s.current = journeys
	s.hasCurrent = true
	s.mu.Unlock()
}

// ResetCurrent drops the current result set so the next count falls back
// to a storage query. Used by tests.
func (s *JourneyService) ResetCurrent() {
	s.mu.Lock()
	s.current = nil
	s.hasCurrent = false
	s.mu.Unlock()
}

func reverse(journeys []models.BicycleJourney) {
	for i, j := 0, len(journeys)-1; i < j; i, j = i+1, j-1 {
		journeys[i], journeys[j] = journeys[j], journeys[i]
	}
}
