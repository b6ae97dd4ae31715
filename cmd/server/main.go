package main

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/admincontrol/user-admin/internal/config"
	"github.com/admincontrol/user-admin/internal/database"
	"github.com/admincontrol/user-admin/internal/handler"
	"github.com/admincontrol/user-admin/internal/logger"
	"github.com/admincontrol/user-admin/internal/queue"
	"github.com/admincontrol/user-admin/internal/repository"
	"github.com/admincontrol/user-admin/internal/router"
	"github.com/admincontrol/user-admin/internal/service"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		boot := logger.New("info", true)
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.Env == "dev")

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil && cfg.Cache.Enabled {
		log.Warn().Msg("redis unreachable, response cache disabled")
	}

	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	events := queue.NewPublisher(cfg.AmqpURL, log)

	account := handler.NewAccountHandler(cfg,
		service.NewAuthService(userRepo, log), log)
	users := handler.NewUserHandler(
		service.NewUserService(userRepo, roleRepo, events, log), log)
	roles := handler.NewRoleHandler(
		service.NewRoleService(roleRepo, events, log), log)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, rdb, account, users, roles)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
