// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/admincontrol/user-admin/internal/config"
	"github.com/admincontrol/user-admin/internal/handler"
	"github.com/admincontrol/user-admin/internal/metrics"
	"github.com/admincontrol/user-admin/internal/middleware"
	"github.com/admincontrol/user-admin/internal/model"
)

// Register wires every route. The account group is reachable without a
// session; the administration group requires a valid session cookie and
// one of the two gated roles.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	account *handler.AccountHandler, users *handler.UserHandler, roles *handler.RoleHandler) {

	e.Use(metrics.Middleware())

	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	acc := e.Group("/v1/account")
	acc.GET("/login", account.LoginForm)
	acc.POST("/login", account.Login)
	acc.POST("/logout", account.Logout)
	acc.GET("/denied", account.Denied)

	admin := e.Group("/v1")
	admin.Use(middleware.SessionAuth(cfg.SessionSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager))
	admin.GET("/account/me", account.Me)

	cache := middleware.ResponseCache(cfg.Cache, rdb)
	admin.GET("/users", users.List, cache)
	admin.POST("/users", users.Create)
	admin.POST("/users/validate", users.Validate)
	admin.PUT("/users/:id", users.Update)
	admin.DELETE("/users/:id", users.Delete)

	admin.GET("/roles", roles.List, cache)
	admin.POST("/roles", roles.Create)
	admin.PUT("/roles/:id", roles.Update)
	admin.DELETE("/roles/:id", roles.Delete)
}
