package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	database "github.com/FACorreiaa/go-city-weather/app/db"
	"github.com/FACorreiaa/go-city-weather/config"
	"github.com/FACorreiaa/go-city-weather/internal/api/city"
	"github.com/FACorreiaa/go-city-weather/internal/types"
)

var (
	citiesFile = flag.String("file", "cities.json", "JSON array of {name, latitude, longitude} objects")
	token      = flag.String("token", "", "API token to store alongside the cities")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	dbpool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbpool.Close()

	if !database.WaitForDB(ctx, dbpool, logger) {
		log.Fatal("Database not ready")
	}

	raw, err := os.ReadFile(*citiesFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *citiesFile, err)
	}
	var payloads []types.CityPayload
	if err = json.Unmarshal(raw, &payloads); err != nil {
		log.Fatalf("Failed to parse %s: %v", *citiesFile, err)
	}

	repo := city.NewCityRepository(dbpool, logger)

	if *token != "" {
		if err = repo.AddToken(ctx, *token); err != nil {
			log.Fatalf("Failed to store token: %v", err)
		}
		logger.Info("Token stored")
	}

	var added, skipped int
	for i, p := range payloads {
		c, err := p.ToCity()
		if err != nil {
			logger.Warn("Skipping invalid entry", slog.Int("index", i), slog.Any("error", err))
			skipped++
			continue
		}
		if _, err = repo.AddCity(ctx, c); err != nil {
			if errors.Is(err, types.ErrCityExists) {
				skipped++
				continue
			}
			logger.Error("Failed to add city", slog.String("city", c.Name), slog.Any("error", err))
			os.Exit(1)
		}
		added++
	}

	logger.Info("Seeding complete", slog.Int("added", added), slog.Int("skipped", skipped))
}
