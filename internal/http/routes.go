package http

import (
	"database/sql"
	"net/http"
	"time"

	"task_tracker/internal/config"
	"task_tracker/internal/http/handlers"
	"task_tracker/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the page handlers, health checks and the mutation
// rate limiter onto the engine.
func RegisterRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config) {
	h := handlers.NewHandler(db)
	healthHandler := handlers.NewHealthHandler(db)

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	rateLimit := 60
	rateWindow := time.Minute
	if cfg != nil {
		rateLimit = cfg.RateLimit
		rateWindow = time.Duration(cfg.RateWindow) * time.Second
	}
	mutationRL := middleware.SimpleRateLimit(rateLimit, rateWindow)

	r.GET("/", h.Index)
	r.POST("/add", mutationRL, h.AddTask)
	r.GET("/edit/:id", h.EditTaskForm)
	r.POST("/edit/:id", mutationRL, h.UpdateTask)
	r.GET("/delete/:id", mutationRL, h.DeleteTask)
	r.GET("/complete/:id", mutationRL, h.CompleteTask)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "404.html", nil)
	})
}
