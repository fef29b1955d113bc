package main

import (
	"context"

	"github.com/colabhq/colab-server/internal/app"
	"github.com/colabhq/colab-server/internal/cache"
	"github.com/colabhq/colab-server/internal/config"
	"github.com/colabhq/colab-server/internal/db"
	"github.com/colabhq/colab-server/internal/logger"
	"github.com/colabhq/colab-server/internal/server"
	"github.com/colabhq/colab-server/internal/service/account"
	"github.com/colabhq/colab-server/internal/service/chat"
	"github.com/colabhq/colab-server/internal/service/matching"
	"github.com/colabhq/colab-server/internal/service/moderation"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log, cfg)

	registrars := []server.Registrar{
		account.NewRegistrar(appCtx),
		matching.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		moderation.NewRegistrar(appCtx),
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
