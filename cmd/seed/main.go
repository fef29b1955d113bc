package main

import (
	"github.com/colabhq/colab-server/internal/config"
	"github.com/colabhq/colab-server/internal/db"
	"github.com/colabhq/colab-server/internal/logger"
)

// Seeds the database with demo profiles, swipes, matches and messages.
// Refuses to run outside the development environment.
func main() {
	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.L()

	if cfg.App.ENV != "development" {
		log.Error("refusing to seed outside development", "env", cfg.App.ENV)
		return
	}

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	if err := db.SeedDemoData(database); err != nil {
		log.Error("failed to seed", "err", err)
		return
	}

	log.Info("seed complete")
}
