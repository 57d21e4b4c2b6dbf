package main

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/citybicycle/journeys-backend-go/internal/api"
	"github.com/citybicycle/journeys-backend-go/internal/cache"
	"github.com/citybicycle/journeys-backend-go/internal/config"
	"github.com/citybicycle/journeys-backend-go/internal/database"
	"github.com/citybicycle/journeys-backend-go/internal/handler"
	"github.com/citybicycle/journeys-backend-go/internal/importer"
	"github.com/citybicycle/journeys-backend-go/internal/query"
	"github.com/citybicycle/journeys-backend-go/internal/repository"
	"github.com/citybicycle/journeys-backend-go/internal/service"
)

// The monthly journey datasets shipped with this deployment.
var journeyMonths = []int{5, 6, 7}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	stationRepo := repository.NewStationRepository(db)
	journeyRepo := repository.NewJourneyRepository(db)

	if err := importIfEmpty(db, cfg, stationRepo, journeyRepo); err != nil {
		log.Fatal("Failed to import datasets:", err)
	}

	stationCache := cache.NewStationCache(stationRepo)
	journeyService := service.NewJourneyService(journeyRepo, stationCache)
	stationService := service.NewStationService(stationRepo, journeyRepo, stationCache)

	router := api.SetupRouter(
		handler.NewStationHandler(stationService),
		handler.NewJourneyHandler(journeyService),
	)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// importIfEmpty runs the one-time dataset import. Imports happen before
// any query traffic is served; a table that already has rows is left
// untouched so restarts do not duplicate data.
func importIfEmpty(db *sql.DB, cfg *config.Config, stationRepo *repository.StationRepository, journeyRepo *repository.JourneyRepository) error {
	imp := importer.NewImporter(db)

	stationCount, err := stationRepo.Count()
	if err != nil {
		return err
	}
	if stationCount == 0 {
		if err := imp.ImportStations(filepath.Join(cfg.CSVDir, "stations.csv")); err != nil {
			log.Printf("Could not read stations file, please check the file name: %v", err)
		} else {
			log.Printf("Stations imported to db")
		}
	}

	journeyCount, err := journeyRepo.Count()
	if err != nil {
		return err
	}
	if journeyCount == 0 {
		log.Printf("Importing %d bicycle journey datasets, this can take a few minutes", len(journeyMonths))

		for _, month := range journeyMonths {
			file := filepath.Join(cfg.CSVDir, fmt.Sprintf("%d-%02d.csv", query.DataYear, month))
			if err := imp.ImportJourneys(file); err != nil {
				log.Printf("Could not read journeys file, please check the file name: %v", err)
				continue
			}
		}
		log.Printf("All bicycle journey datasets have been imported")
	}

	return nil
}
