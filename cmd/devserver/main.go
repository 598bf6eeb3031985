package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-console/internal/devserver"
	"github.com/noah-isme/sma-adp-console/pkg/config"
	"github.com/noah-isme/sma-adp-console/pkg/logger"
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

	srv, err := devserver.New(devserver.Options{
		JWTSecret: cfg.DevServer.JWTSecret,
		TokenTTL:  cfg.DevServer.TokenTTL,
		SeedEmail: cfg.DevServer.SeedEmail,
		SeedPass:  cfg.DevServer.SeedPass,
		SeedName:  cfg.DevServer.AdminName,
	}, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to build dev server", "error", err)
	}
	srv.SeedFixtures()

	r := srv.Router(cfg.API.Prefix)
	addr := fmt.Sprintf(":%d", cfg.DevServer.Port)
	logr.Sugar().Infow("dev server starting", "addr", addr, "prefix", cfg.API.Prefix)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("dev server failed", "error", err)
	}
}
