package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bibliotech/internal/shared/middleware"
	"bibliotech/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		c.AuthorHandler.RegisterRoutes(v1)
		c.BookHandler.RegisterRoutes(v1)
		c.SessionHandler.RegisterRoutes(v1)
		if c.SnapshotHandler != nil {
			c.SnapshotHandler.RegisterRoutes(v1)
		}
	}

	return router
}

// healthCheckHandler reports the session and its backing services. Only a
// failing database or a closed session makes the service unavailable.
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"backend":   appCtx.Config.Remote.Backend,
		}
		statusCode := http.StatusOK

		dbStatus := "not configured"
		if appCtx.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			dbStatus = "ok"
			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		redisStatus := "disabled"
		if appCtx.Redis != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			redisStatus = "ok"
			if err := appCtx.Redis.HealthCheck(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		sessionStatus := "ready"
		switch {
		case appCtx.Session.Closed():
			sessionStatus = "closed"
			health["status"] = "degraded"
			statusCode = http.StatusServiceUnavailable
		case !appCtx.Session.Ready():
			sessionStatus = "loading"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"session":  sessionStatus,
		}

		c.JSON(statusCode, health)
	}
}
