// @title Pathfinder specialties API
// @version 1.0
// @description Specialty claim approval workflow for club members.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"log"

	"pathfinder_backend/internal/app"
	"pathfinder_backend/internal/config"
	"pathfinder_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run the database migration and exit")
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg, *configDir)

	if *migrateOnly {
		logger.Log.Info("Database migration completed, exiting")
		application.Close(context.Background())
		return
	}

	application.Run()
}
