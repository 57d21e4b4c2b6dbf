package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/citybicycle/journeys-backend-go/internal/handler"
	"github.com/citybicycle/journeys-backend-go/internal/middleware"
	"github.com/citybicycle/journeys-backend-go/internal/service"
)

// SetupRouter wires the HTTP routes for stations and journeys
func SetupRouter(stations *handler.StationHandler, journeys *handler.JourneyHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "City Bicycle Journeys API is running",
		})
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimit(300, time.Minute))
	{
		api.GET("/stations", stations.GetStations)
		api.GET("/stations/:id", stations.GetStationByID)
		api.GET("/stations/:id/totalJourneysFrom", stations.GetTotalJourneysFrom)
		api.GET("/stations/:id/totalJourneysTo", stations.GetTotalJourneysTo)
		api.GET("/stations/:id/averageDistanceFrom", stations.GetAverageDistanceFrom)
		api.GET("/stations/:id/averageDistanceTo", stations.GetAverageDistanceTo)
		api.GET("/stations/:id/top5ReturnStationsStartingFrom", stations.GetTop5ReturnStations)
		api.GET("/stations/:id/top5DepartureStationsEndingAt", stations.GetTop5DepartureStations)
		api.GET("/stations/:id/nearbyStations", stations.GetNearbyStations)

		api.GET("/journeys", journeys.GetJourneys)
		api.GET("/journeysCount", journeys.GetJourneysCount)

		// Static sort routes are registered before the :id route so the
		// router resolves them first.
		api.GET("/journeys/departureAsc",
			journeys.GetJourneysSorted(service.SortByDepartureStation, service.Ascending))
		api.GET("/journeys/departureDesc",
			journeys.GetJourneysSorted(service.SortByDepartureStation, service.Descending))
		api.GET("/journeys/returnAsc",
			journeys.GetJourneysSorted(service.SortByReturnStation, service.Ascending))
		api.GET("/journeys/returnDesc",
			journeys.GetJourneysSorted(service.SortByReturnStation, service.Descending))
		api.GET("/journeys/distanceAsc",
			journeys.GetJourneysSorted(service.SortByDistance, service.Ascending))
		api.GET("/journeys/distanceDesc",
			journeys.GetJourneysSorted(service.SortByDistance, service.Descending))
		api.GET("/journeys/durationAsc",
			journeys.GetJourneysSorted(service.SortByDuration, service.Ascending))
		api.GET("/journeys/durationDesc",
			journeys.GetJourneysSorted(service.SortByDuration, service.Descending))

		api.GET("/journeys/:id", journeys.GetJourneyByID)
	}

	return r
}
