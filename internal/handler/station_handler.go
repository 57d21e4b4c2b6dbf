package handler

import (
	"strconv"

	"github.com/citybicycle/journeys-backend-go/internal/service"
	"github.com/citybicycle/journeys-backend-go/pkg/response"
	"github.com/gin-gonic/gin"
)

// StationHandler handles HTTP requests for stations
type StationHandler struct {
	service *service.StationService
}

// NewStationHandler creates a new station handler
func NewStationHandler(service *service.StationService) *StationHandler {
	return &StationHandler{service: service}
}

// GetStations handles GET /api/stations
func (h *StationHandler) GetStations(c *gin.Context) {
	stations, err := h.service.ListStations()
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, stations)
}

// GetStationByID handles GET /api/stations/:id
func (h *StationHandler) GetStationByID(c *gin.Context) {
	station, err := h.service.GetStation(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, station)
}

// GetTotalJourneysFrom handles GET /api/stations/:id/totalJourneysFrom
func (h *StationHandler) GetTotalJourneysFrom(c *gin.Context) {
	months, ok := selectedMonths(c)
	if !ok {
		return
	}

	count, err := h.service.TotalJourneysFrom(c.Param("id"), months)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, count)
}

// GetTotalJourneysTo handles GET /api/stations/:id/totalJourneysTo
func (h *StationHandler) GetTotalJourneysTo(c *gin.Context) {
	months, ok := selectedMonths(c)
	if !ok {
		return
	}

	count, err := h.service.TotalJourneysTo(c.Param("id"), months)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, count)
}

// GetAverageDistanceFrom handles GET /api/stations/:id/averageDistanceFrom
func (h *StationHandler) GetAverageDistanceFrom(c *gin.Context) {
	months, ok := selectedMonths(c)
	if !ok {
		return
	}

	avg, err := h.service.AverageDistanceFrom(c.Param("id"), months)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, avg)
}

// GetAverageDistanceTo handles GET /api/stations/:id/averageDistanceTo
func (h *StationHandler) GetAverageDistanceTo(c *gin.Context) {
	months, ok := selectedMonths(c)
	if !ok {
		return
	}

	avg, err := h.service.AverageDistanceTo(c.Param("id"), months)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, avg)
}

// GetTop5ReturnStations handles GET /api/stations/:id/top5ReturnStationsStartingFrom
func (h *StationHandler) GetTop5ReturnStations(c *gin.Context) {
	months, ok := selectedMonths(c)
	if !ok {
		return
	}

	stations, err := h.service.Top5ReturnStationsFrom(c.Param("id"), months)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, stations)
}

// GetTop5DepartureStations handles GET /api/stations/:id/top5DepartureStationsEndingAt
func (h *StationHandler) GetTop5DepartureStations(c *gin.Context) {
	months, ok := selectedMonths(c)
	if !ok {
		return
	}

	stations, err := h.service.Top5DepartureStationsTo(c.Param("id"), months)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, stations)
}

// GetNearbyStations handles GET /api/stations/:id/nearbyStations
func (h *StationHandler) GetNearbyStations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "limit must be a number")
			return
		}
		limit = parsed
	}

	nearby, err := h.service.NearbyStations(c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, nearby)
}
