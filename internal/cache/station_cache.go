package cache

import (
	"fmt"
	"sync"

	"github.com/citybicycle/journeys-backend-go/internal/models"
	"github.com/citybicycle/journeys-backend-go/internal/repository"
)

// StationCache maps external station reference ids to stations so journey
// sorting can resolve station names without a backing-store scan per
// comparison. The mapping is loaded once, on first use, from a full
// station read; stations are write-once at import time, so the cache is
// never invalidated in normal operation. Reset exists for tests and for
// the one day that assumption breaks.
type StationCache struct {
	mu          sync.Mutex
	repo        *repository.StationRepository
	byStationID map[string]models.Station
}

// NewStationCache creates a new station cache
func NewStationCache(repo *repository.StationRepository) *StationCache {
	return &StationCache{repo: repo}
}

// Ensure loads the cache if it has not been loaded yet. Callers that need
// load failures surfaced (rather than treated as misses) call this before
// a burst of Get calls.
func (c *StationCache) Ensure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

// Get returns the station with the given external reference id. A false
// result means "not found", which is a valid, sortable condition rather
// than a fault.
func (c *StationCache) Get(stationID string) (models.Station, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return models.Station{}, false
	}

	station, ok := c.byStationID[stationID]
	return station, ok
}

// All returns every cached station.
func (c *StationCache) All() ([]models.Station, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return nil, err
	}

	stations := make([]models.Station, 0, len(c.byStationID))
	for _, s := range c.byStationID {
		stations = append(stations, s)
	}
	return stations, nil
}

// Reset drops the cached mapping so the next access rebuilds it.
func (c *StationCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byStationID = nil
}

func (c *StationCache) loadLocked() error {
	if c.byStationID != nil {
		return nil
	}

	stations, err := c.repo.FindAll()
	if err != nil {
		return fmt.Errorf("failed to load station cache: %w", err)
	}

	byID := make(map[string]models.Station, len(stations))
	for _, s := range stations {
		byID[s.StationID] = s
	}
	c.byStationID = byID

	return nil
}
