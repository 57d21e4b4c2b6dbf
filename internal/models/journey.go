package models

import "time"

// BicycleJourney represents one bicycle rental trip between a departure
// and a return station.
//
// DepartureStationID and ReturnStationID reference Station.StationID but
// are not enforced as foreign keys; journeys pointing at unknown stations
// are valid data and must be tolerated by every consumer.
type BicycleJourney struct {
	ID                 int64     `json:"id"`
	DepartureDate      time.Time `json:"departureDate"`
	ReturnDate         time.Time `json:"returnDate"`
	DepartureStationID string    `json:"departureStationId"`
	ReturnStationID    string    `json:"returnStationId"`
	CoveredDistance    float64   `json:"coveredDistance"`
	JourneyDuration    int       `json:"journeyDuration"`
}
