package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/gudang-labs/warehouse-dashboard/internal/mockapi"
	"github.com/gudang-labs/warehouse-dashboard/internal/mockapi/repository"
	"github.com/gudang-labs/warehouse-dashboard/pkg/config"
	"github.com/gudang-labs/warehouse-dashboard/pkg/database"
	"github.com/gudang-labs/warehouse-dashboard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var repo repository.Repository
	switch cfg.Mock.Backend {
	case "postgres":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
		}
		defer db.Close() //nolint:errcheck
		repo = repository.NewPostgres(db)
	default:
		mem := repository.NewMemory()
		if cfg.Mock.Seed {
			if err := repository.Seed(context.Background(), mem); err != nil {
				logr.Sugar().Fatalw("failed to seed data", "error", err)
			}
		}
		repo = mem
	}

	srv := mockapi.NewServer(cfg.Mock, repo, logr)

	addr := fmt.Sprintf(":%d", cfg.Mock.Port)
	logr.Sugar().Infow("mock api starting", "addr", addr, "backend", cfg.Mock.Backend, "env", cfg.Env)
	if err := srv.Run(addr); err != nil {
		logr.Sugar().Fatalw("mock api failed", "error", err)
	}
}
