package http

import (
	"taskshare/internal/config"
	"taskshare/internal/http/handlers"
	"taskshare/internal/http/middleware"
	"taskshare/internal/service"
	"taskshare/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenExpiry)
	hub := ws.NewHub()
	h := handlers.NewHandler(db, tokens, hub)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks, not rate limited
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	api := r.Group("/")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	auth := middleware.Auth(tokens, h.Users)
	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)
	userRL := middleware.UserRateLimit(cfg.APIRateLimit, cfg.APIRateWindow)

	// Registration and login
	api.POST("/register", authRL, h.Register)
	api.POST("/token", authRL, h.Token)

	// Public user directory
	api.GET("/users", h.ListUsers)
	api.GET("/users/:username", h.GetUser)

	// Tasks (mutations rate limited per user, not per IP)
	api.POST("/tasks/", auth, userRL, h.CreateTask)
	api.GET("/tasks/", auth, h.ListTasks)
	api.GET("/tasks/:id", auth, h.GetTask)
	api.PUT("/tasks/:id", auth, userRL, h.UpdateTask)
	api.PATCH("/tasks/:id", auth, userRL, h.PatchTask)
	api.DELETE("/tasks/:id", auth, userRL, h.DeleteTask)

	// Per-task permission grants
	api.GET("/tasks/:id/permissions", h.ListPermissions)
	api.POST("/tasks/:id/permissions", auth, userRL, h.CreatePermission)
	api.PATCH("/tasks/:id/permissions/:userId", auth, userRL, h.UpdatePermission)
	api.DELETE("/tasks/:id/permissions/:userId", auth, userRL, h.DeletePermission)

	// Live task-event stream (token via query param)
	r.GET("/ws", h.WS)
}
