// Seeds users, quizzes and specialties from a YAML catalog.
//
// Usage: go run scripts/seed_catalog.go -catalog configs/catalog.yaml

package main

import (
	"context"
	"flag"
	"log"

	"pathfinder_backend/internal/catalog"
	"pathfinder_backend/internal/config"
	"pathfinder_backend/internal/repository"
	"pathfinder_backend/pkg/database"
	"pathfinder_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	catalogPath := flag.String("catalog", "configs/catalog.yaml", "catalog file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	c, err := catalog.Load(*catalogPath)
	if err != nil {
		logger.Log.Fatal("Invalid catalog", zap.String("path", *catalogPath), zap.Error(err))
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	seeder := &catalog.Seeder{
		Users:       repository.NewUserRepository(db),
		Quizzes:     repository.NewQuizRepository(db),
		Specialties: repository.NewSpecialtyRepository(db),
	}
	res, err := seeder.Seed(context.Background(), c)
	if err != nil {
		logger.Log.Fatal("Seeding failed", zap.Error(err))
	}

	logger.Log.Info("Catalog seeded",
		zap.Int("users", res.Users),
		zap.Int("quizzes", res.Quizzes),
		zap.Int("specialties", res.Specialties),
	)
}
