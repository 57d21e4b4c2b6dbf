package handler

import (
	"github.com/citybicycle/journeys-backend-go/internal/service"
	"github.com/citybicycle/journeys-backend-go/pkg/response"
	"github.com/gin-gonic/gin"
)

// JourneyHandler handles HTTP requests for bicycle journeys
type JourneyHandler struct {
	service *service.JourneyService
}

// NewJourneyHandler creates a new journey handler
func NewJourneyHandler(service *service.JourneyService) *JourneyHandler {
	return &JourneyHandler{service: service}
}

// GetJourneys handles GET /api/journeys
func (h *JourneyHandler) GetJourneys(c *gin.Context) {
	months, ok := selectedMonths(c)
	if !ok {
		return
	}

	journeys, err := h.service.ListJourneys(months)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, journeys)
}

// GetJourneyByID handles GET /api/journeys/:id
func (h *JourneyHandler) GetJourneyByID(c *gin.Context) {
	journey, err := h.service.GetJourney(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, journey)
}

// GetJourneysCount handles GET /api/journeysCount
func (h *JourneyHandler) GetJourneysCount(c *gin.Context) {
	count, err := h.service.CountAll()
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, count)
}

// GetJourneysSorted returns a handler serving the journey listing sorted
// by the given key and direction. One route per key/direction pair keeps
// the URLs the dashboard calls explicit.
func (h *JourneyHandler) GetJourneysSorted(key service.SortKey, direction service.SortDirection) gin.HandlerFunc {
	return func(c *gin.Context) {
		months, ok := selectedMonths(c)
		if !ok {
			return
		}

		journeys, err := h.service.SortJourneys(months, key, direction)
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, journeys)
	}
}
