package main

import (
	"log"
	"time"

	"github.com/DhavalSuthar-24/crictally/config"
	_ "github.com/DhavalSuthar-24/crictally/docs"
	"github.com/DhavalSuthar-24/crictally/internal/livestate"
	"github.com/DhavalSuthar-24/crictally/internal/match"
	"github.com/DhavalSuthar-24/crictally/internal/user"
	"github.com/DhavalSuthar-24/crictally/routes"
)

// @title CricTally REST API
// @version 1.0
// @description Ball-by-ball cricket scoring backend 🏏
// @host localhost:8080
// @BasePath /api
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &user.RefreshToken{},
		&match.Match{}, &match.MatchSquad{}, &match.InningsRecord{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	live := livestate.NewRedisStore(config.Redis, time.Duration(cfg.Redis.StateTTLHours)*time.Hour)

	r := routes.SetupRoutes(config.DB, live, cfg)

	// Use port from loaded configuration
	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
