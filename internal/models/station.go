package models

// Station represents one city bicycle station.
//
// ID is the storage-assigned identity; StationID is the external reference
// id from the source dataset (e.g. "501") that journeys use to point at
// stations. The two must not be confused: lookups by URL path use ID,
// journey correlation uses StationID.
type Station struct {
	ID        int     `json:"id"`
	StationID string  `json:"stationId"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// NearbyStation is a station paired with its great-circle distance
// from some reference station.
type NearbyStation struct {
	Station
	DistanceMeters float64 `json:"distanceMeters"`
}
