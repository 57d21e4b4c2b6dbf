package service

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/citybicycle/journeys-backend-go/internal/cache"
	"github.com/citybicycle/journeys-backend-go/internal/database"
	"github.com/citybicycle/journeys-backend-go/internal/models"
	"github.com/citybicycle/journeys-backend-go/internal/repository"
	_ "modernc.org/sqlite"
)

// allMonths selects every available dataset, which short-circuits to the
// unfiltered full read.
var allMonths = models.MonthSelection{5, 6, 7}

type testEnv struct {
	stations *repository.StationRepository
	journeys *repository.JourneyRepository
	cache    *cache.StationCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	// A pooled second connection would see its own empty :memory: db.
	db.SetMaxOpenConns(1)

	if err := database.CreateSchema(db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stations := repository.NewStationRepository(db)
	return &testEnv{
		stations: stations,
		journeys: repository.NewJourneyRepository(db),
		cache:    cache.NewStationCache(stations),
	}
}

func (e *testEnv) journeyService() *JourneyService {
	return NewJourneyService(e.journeys, e.cache)
}

func (e *testEnv) stationService() *StationService {
	return NewStationService(e.stations, e.journeys, e.cache)
}

func (e *testEnv) seedStation(t *testing.T, stationID, name string, x, y float64) *models.Station {
	t.Helper()

	s := &models.Station{StationID: stationID, Name: name, Address: "A", X: x, Y: y}
	if err := e.stations.Save(s); err != nil {
		t.Fatalf("failed to save station %s: %v", stationID, err)
	}
	return s
}

func (e *testEnv) seedJourney(t *testing.T, departure time.Time, depStation, retStation string, distance float64, duration int) *models.BicycleJourney {
	t.Helper()

	j := &models.BicycleJourney{
		DepartureDate:      departure,
		ReturnDate:         departure.Add(time.Duration(duration) * time.Second),
		DepartureStationID: depStation,
		ReturnStationID:    retStation,
		CoveredDistance:    distance,
		JourneyDuration:    duration,
	}
	if err := e.journeys.Save(j); err != nil {
		t.Fatalf("failed to save journey: %v", err)
	}
	return j
}

func may(day, hour, min, sec int) time.Time {
	return time.Date(2021, 5, day, hour, min, sec, 0, time.UTC)
}

func journeyIDs(journeys []models.BicycleJourney) []int64 {
	ids := make([]int64, len(journeys))
	for i, j := range journeys {
		ids[i] = j.ID
	}
	return ids
}

func TestListJourneysNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	first := env.seedJourney(t, may(1, 8, 0, 0), "501", "503", 1000, 600)
	second := env.seedJourney(t, time.Date(2021, 6, 1, 8, 0, 0, 0, time.UTC), "503", "501", 2000, 700)
	third := env.seedJourney(t, time.Date(2021, 7, 1, 8, 0, 0, 0, time.UTC), "501", "503", 3000, 800)

	journeys, err := env.journeyService().ListJourneys(allMonths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := journeyIDs(journeys)
	want := []int64{third.ID, second.ID, first.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

// TestListJourneysMonthBoundaries pins the closed-open month interval
// against the real storage engine: the last second of May is a May
// journey, midnight on June 1st is not.
func TestListJourneysMonthBoundaries(t *testing.T) {
	env := newTestEnv(t)
	lastOfMay := env.seedJourney(t, may(31, 23, 59, 59), "501", "503", 1000, 600)
	env.seedJourney(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), "503", "501", 2000, 700)

	journeys, err := env.journeyService().ListJourneys(models.MonthSelection{5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(journeys) != 1 || journeys[0].ID != lastOfMay.ID {
		t.Errorf("May selection = %v, want only journey %d", journeyIDs(journeys), lastOfMay.ID)
	}
}

func TestAllMonthsMatchesUnfilteredRead(t *testing.T) {
	env := newTestEnv(t)
	env.seedJourney(t, may(1, 8, 0, 0), "501", "503", 1000, 600)
	env.seedJourney(t, time.Date(2021, 6, 15, 8, 0, 0, 0, time.UTC), "503", "501", 2000, 700)
	env.seedJourney(t, time.Date(2021, 7, 20, 8, 0, 0, 0, time.UTC), "501", "503", 3000, 800)

	journeys, err := env.journeyService().ListJourneys(allMonths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total, err := env.journeys.Count()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if int64(len(journeys)) != total {
		t.Errorf("all-months listing has %d journeys, store has %d", len(journeys), total)
	}
}

func TestCountAllPrefersCurrentResultSet(t *testing.T) {
	env := newTestEnv(t)
	env.seedJourney(t, may(1, 8, 0, 0), "501", "503", 1000, 600)
	env.seedJourney(t, may(2, 8, 0, 0), "503", "501", 2000, 700)
	env.seedJourney(t, time.Date(2021, 6, 15, 8, 0, 0, 0, time.UTC), "501", "503", 3000, 800)

	svc := env.journeyService()

	// No listing yet: the count comes from storage.
	count, err := svc.CountAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("store count = %d, want 3", count)
	}

	// After a filtered listing the count reflects the cached result set.
	if _, err := svc.ListJourneys(models.MonthSelection{5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, err = svc.CountAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("cached count = %d, want 2", count)
	}

	svc.ResetCurrent()
	count, err = svc.CountAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("count after reset = %d, want 3", count)
	}
}

func TestSortByDistance(t *testing.T) {
	env := newTestEnv(t)
	env.seedJourney(t, may(1, 8, 0, 0), "501", "503", 300, 600)
	env.seedJourney(t, may(2, 8, 0, 0), "503", "501", 100, 700)
	env.seedJourney(t, may(3, 8, 0, 0), "501", "503", 200, 800)

	svc := env.journeyService()

	asc, err := svc.SortJourneys(allMonths, SortByDistance, Ascending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(asc); i++ {
		if asc[i-1].CoveredDistance > asc[i].CoveredDistance {
			t.Fatalf("ascending sort out of order: %v", asc)
		}
	}

	desc, err := svc.SortJourneys(allMonths, SortByDistance, Descending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Descending must be exactly the ascending order reversed.
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("descending is not the reverse of ascending: %v vs %v",
				journeyIDs(asc), journeyIDs(desc))
		}
	}
}

// Tied journeys keep their relative input order ascending, and appear in
// reversed relative order after the descending reversal.
func TestSortByDistanceStableOnTies(t *testing.T) {
	env := newTestEnv(t)
	firstTied := env.seedJourney(t, may(1, 8, 0, 0), "501", "503", 500, 600)
	secondTied := env.seedJourney(t, may(2, 8, 0, 0), "503", "501", 500, 700)
	shortest := env.seedJourney(t, may(3, 8, 0, 0), "501", "503", 100, 800)

	svc := env.journeyService()

	asc, err := svc.SortJourneys(allMonths, SortByDistance, Ascending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantAsc := []int64{shortest.ID, firstTied.ID, secondTied.ID}
	for i := range wantAsc {
		if asc[i].ID != wantAsc[i] {
			t.Fatalf("ascending order = %v, want %v", journeyIDs(asc), wantAsc)
		}
	}

	desc, err := svc.SortJourneys(allMonths, SortByDistance, Descending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDesc := []int64{secondTied.ID, firstTied.ID, shortest.ID}
	for i := range wantDesc {
		if desc[i].ID != wantDesc[i] {
			t.Fatalf("descending order = %v, want %v", journeyIDs(desc), wantDesc)
		}
	}
}

// Two journeys that both fail to resolve their departure station compare
// equal, so they keep their relative input order among themselves.
func TestSortByDepartureStationNameBothUnresolvedAreEqual(t *testing.T) {
	env := newTestEnv(t)
	env.seedStation(t, "100", "Alpha", 24.0, 60.0)

	firstOrphan := env.seedJourney(t, may(1, 8, 0, 0), "999", "100", 1000, 600)
	secondOrphan := env.seedJourney(t, may(2, 8, 0, 0), "888", "100", 2000, 700)
	resolved := env.seedJourney(t, may(3, 8, 0, 0), "100", "999", 3000, 800)

	sorted, err := env.journeyService().SortJourneys(allMonths, SortByDepartureStation, Ascending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int64{firstOrphan.ID, secondOrphan.ID, resolved.ID}
	for i := range want {
		if sorted[i].ID != want[i] {
			t.Fatalf("ascending order = %v, want %v", journeyIDs(sorted), want)
		}
	}
}

func TestSortByDuration(t *testing.T) {
	env := newTestEnv(t)
	env.seedJourney(t, may(1, 8, 0, 0), "501", "503", 300, 900)
	env.seedJourney(t, may(2, 8, 0, 0), "503", "501", 100, 300)
	env.seedJourney(t, may(3, 8, 0, 0), "501", "503", 200, 600)

	sorted, err := env.journeyService().SortJourneys(allMonths, SortByDuration, Ascending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].JourneyDuration > sorted[i].JourneyDuration {
			t.Fatalf("ascending duration sort out of order: %v", sorted)
		}
	}
}

// Journeys whose departure station does not resolve sort before every
// resolvable journey ascending, and consequently land last descending.
func TestSortByDepartureStationNameUnresolved(t *testing.T) {
	env := newTestEnv(t)
	env.seedStation(t, "100", "Alpha", 24.0, 60.0)
	env.seedStation(t, "200", "Beta", 24.1, 60.1)

	beta := env.seedJourney(t, may(1, 8, 0, 0), "200", "100", 1000, 600)
	orphan := env.seedJourney(t, may(2, 8, 0, 0), "999", "100", 2000, 700)
	alpha := env.seedJourney(t, may(3, 8, 0, 0), "100", "200", 3000, 800)

	svc := env.journeyService()

	asc, err := svc.SortJourneys(allMonths, SortByDepartureStation, Ascending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantAsc := []int64{orphan.ID, alpha.ID, beta.ID}
	for i := range wantAsc {
		if asc[i].ID != wantAsc[i] {
			t.Fatalf("ascending order = %v, want %v", journeyIDs(asc), wantAsc)
		}
	}

	desc, err := svc.SortJourneys(allMonths, SortByDepartureStation, Descending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc[len(desc)-1].ID != orphan.ID {
		t.Errorf("descending order = %v, want the unresolved journey last", journeyIDs(desc))
	}
}

func TestSortByReturnStationName(t *testing.T) {
	env := newTestEnv(t)
	env.seedStation(t, "100", "Alpha", 24.0, 60.0)
	env.seedStation(t, "200", "Beta", 24.1, 60.1)

	toBeta := env.seedJourney(t, may(1, 8, 0, 0), "100", "200", 1000, 600)
	toAlpha := env.seedJourney(t, may(2, 8, 0, 0), "200", "100", 2000, 700)

	sorted, err := env.journeyService().SortJourneys(allMonths, SortByReturnStation, Ascending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sorted[0].ID != toAlpha.ID || sorted[1].ID != toBeta.ID {
		t.Errorf("order = %v, want [%d %d]", journeyIDs(sorted), toAlpha.ID, toBeta.ID)
	}
}

func TestSortPublishesCurrentResultSet(t *testing.T) {
	env := newTestEnv(t)
	env.seedJourney(t, may(1, 8, 0, 0), "501", "503", 300, 600)
	env.seedJourney(t, time.Date(2021, 6, 1, 8, 0, 0, 0, time.UTC), "503", "501", 100, 700)

	svc := env.journeyService()
	if _, err := svc.SortJourneys(models.MonthSelection{5}, SortByDistance, Ascending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := svc.CountAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("count after sorted listing = %d, want 1", count)
	}
}

func TestGetJourney(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seedJourney(t, may(17, 14, 5, 32), "501", "503", 2043, 500)

	svc := env.journeyService()

	journey, err := svc.GetJourney("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if journey.ID != seeded.ID || !journey.DepartureDate.Equal(seeded.DepartureDate) {
		t.Errorf("got %+v, want %+v", journey, seeded)
	}
}

func TestGetJourneyErrors(t *testing.T) {
	svc := newTestEnv(t).journeyService()

	_, err := svc.GetJourney("abc")
	var notANumber *models.IDNotANumberError
	if !errors.As(err, &notANumber) {
		t.Errorf("GetJourney(abc) error = %v, want IDNotANumberError", err)
	} else if notANumber.ID != "abc" {
		t.Errorf("error carries id %q, want the raw offending id", notANumber.ID)
	}

	_, err = svc.GetJourney("42")
	var notFound *models.JourneyNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("GetJourney(42) error = %v, want JourneyNotFoundError", err)
	}
}
