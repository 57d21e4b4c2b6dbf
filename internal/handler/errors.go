package handler

import (
	"errors"
	"log"

	"github.com/citybicycle/journeys-backend-go/internal/models"
	"github.com/citybicycle/journeys-backend-go/pkg/response"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses: malformed ids are
// bad requests, missing records are not found, everything else is an
// internal error with the detail kept server-side.
func respondError(c *gin.Context, err error) {
	var notANumber *models.IDNotANumberError
	var stationNotFound *models.StationNotFoundError
	var journeyNotFound *models.JourneyNotFoundError

	switch {
	case errors.As(err, &notANumber):
		response.BadRequest(c, notANumber.Error())
	case errors.As(err, &stationNotFound):
		response.NotFound(c, stationNotFound.Error())
	case errors.As(err, &journeyNotFound):
		response.NotFound(c, journeyNotFound.Error())
	default:
		log.Printf("Internal error on %s: %v", c.Request.URL.Path, err)
		response.InternalError(c, "internal server error")
	}
}

// selectedMonths parses and validates the selectedMonths query parameter.
// A false result means the request was already answered with a 400.
func selectedMonths(c *gin.Context) (models.MonthSelection, bool) {
	months, err := models.ParseMonthSelection(c.Query("selectedMonths"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}
	return months, true
}
