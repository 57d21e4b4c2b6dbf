package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/citybicycle/journeys-backend-go/internal/cache"
	"github.com/citybicycle/journeys-backend-go/internal/models"
	"github.com/citybicycle/journeys-backend-go/internal/query"
	"github.com/citybicycle/journeys-backend-go/internal/repository"
	"github.com/citybicycle/journeys-backend-go/internal/spatial"
)

// Top counterpart listings are capped at five stations.
const topCounterpartLimit = 5

// DefaultNearbyLimit is how many nearby stations are returned when the
// caller does not ask for a specific count.
const DefaultNearbyLimit = 5

// StationService computes per-station statistics: journey counts, average
// covered distances and the most popular counterpart stations, all
// restricted to a month selection. Counts and averages are single
// aggregate reads; the journey collection is never materialized for them.
type StationService struct {
	stations *repository.StationRepository
	journeys *repository.JourneyRepository
	cache    *cache.StationCache
	dates    *query.DateRange
}

// NewStationService creates a new station service
func NewStationService(stations *repository.StationRepository, journeys *repository.JourneyRepository, stationCache *cache.StationCache) *StationService {
	return &StationService{
		stations: stations,
		journeys: journeys,
		cache:    stationCache,
		dates:    query.NewDateRange(),
	}
}

// ListStations returns every station in insertion order.
func (s *StationService) ListStations() ([]models.Station, error) {
	return s.stations.FindAll()
}

// GetStation returns a single station by its internal id, given as the
// raw path segment.
func (s *StationService) GetStation(rawID string) (*models.Station, error) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return nil, &models.IDNotANumberError{ID: rawID}
	}

	station, err := s.stations.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	if station == nil {
		return nil, &models.StationNotFoundError{ID: id}
	}

	return station, nil
}

// TotalJourneysFrom counts journeys departing from the station during the
// selected months.
func (s *StationService) TotalJourneysFrom(rawID string, months models.MonthSelection) (int, error) {
	station, err := s.GetStation(rawID)
	if err != nil {
		return 0, err
	}

	return s.journeys.CountByDeparture(station.StationID, s.dateClause(months))
}

// TotalJourneysTo counts journeys ending at the station during the
// selected months.
func (s *StationService) TotalJourneysTo(rawID string, months models.MonthSelection) (int, error) {
	station, err := s.GetStation(rawID)
	if err != nil {
		return 0, err
	}

	return s.journeys.CountByReturn(station.StationID, s.dateClause(months))
}

// AverageDistanceFrom returns the mean covered distance of journeys
// departing from the station, in kilometres rounded to two decimals.
// No matching journeys yields 0.
func (s *StationService) AverageDistanceFrom(rawID string, months models.MonthSelection) (float64, error) {
	station, err := s.GetStation(rawID)
	if err != nil {
		return 0, err
	}

	meters, err := s.journeys.AverageDistanceByDeparture(station.StationID, s.dateClause(months))
	if err != nil {
		return 0, err
	}

	return toKilometres(meters), nil
}

// AverageDistanceTo returns the mean covered distance of journeys ending
// at the station, in kilometres rounded to two decimals.
func (s *StationService) AverageDistanceTo(rawID string, months models.MonthSelection) (float64, error) {
	station, err := s.GetStation(rawID)
	if err != nil {
		return 0, err
	}

	meters, err := s.journeys.AverageDistanceByReturn(station.StationID, s.dateClause(months))
	if err != nil {
		return 0, err
	}

	return toKilometres(meters), nil
}

// Top5ReturnStationsFrom returns the stations journeys departing from the
// given station most often end at, ordered by journey count descending
// with station name ascending as the tie-break. A counterpart id that
// resolves to no station is excluded, not an error.
func (s *StationService) Top5ReturnStationsFrom(rawID string, months models.MonthSelection) ([]models.Station, error) {
	station, err := s.GetStation(rawID)
	if err != nil {
		return nil, err
	}

	ids, err := s.journeys.TopReturnStations(station.StationID, s.dateClause(months), topCounterpartLimit)
	if err != nil {
		return nil, err
	}

	return s.resolveStations(ids)
}

// Top5DepartureStationsTo returns the stations journeys arriving at the
// given station most often depart from, with the same ordering rules as
// Top5ReturnStationsFrom.
func (s *StationService) Top5DepartureStationsTo(rawID string, months models.MonthSelection) ([]models.Station, error) {
	station, err := s.GetStation(rawID)
	if err != nil {
		return nil, err
	}

	ids, err := s.journeys.TopDepartureStations(station.StationID, s.dateClause(months), topCounterpartLimit)
	if err != nil {
		return nil, err
	}

	return s.resolveStations(ids)
}

// NearbyStations returns the stations closest to the given one by
// great-circle distance, nearest first.
func (s *StationService) NearbyStations(rawID string, limit int) ([]models.NearbyStation, error) {
	station, err := s.GetStation(rawID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}

	all, err := s.cache.All()
	if err != nil {
		return nil, err
	}

	var nearby []models.NearbyStation
	for _, other := range all {
		if other.StationID == station.StationID {
			continue
		}
		nearby = append(nearby, models.NearbyStation{
			Station:        other,
			DistanceMeters: spatial.Distance(station.Y, station.X, other.Y, other.X),
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}

	return nearby, nil
}

// dateClause returns the " AND (...)" departure date restriction for the
// month selection, or nothing when every available month is selected.
func (s *StationService) dateClause(months models.MonthSelection) string {
	if months.AllSelected() {
		return ""
	}
	return s.dates.AndClause(months)
}

// resolveStations maps external reference ids to full station records,
// silently dropping ids with no resolvable station.
func (s *StationService) resolveStations(ids []string) ([]models.Station, error) {
	stations := make([]models.Station, 0, len(ids))
	for _, id := range ids {
		station, err := s.stations.FindByStationID(id)
		if err != nil {
			return nil, err
		}
		if station == nil {
			continue
		}
		stations = append(stations, *station)
	}

	return stations, nil
}

// toKilometres converts a distance in meters to kilometres rounded
// half-up to two decimal places. Distances are persisted in meters and
// reported in kilometres; this is the single place that conversion and
// rounding happen.
func toKilometres(meters float64) float64 {
	return math.Round(meters/1000*100) / 100
}
