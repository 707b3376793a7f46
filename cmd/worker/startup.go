package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bibliotech/internal/config"
	"bibliotech/internal/infrastructure/pubsub"
)

const healthAddr = ":9999"

// startServices checks Redis and then serves /health and /ready.
func startServices(cfg *config.Config) error {
	rc := pubsub.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	defer rc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	go func() {
		log.Info().Str("addr", healthAddr).Msg("health server starting")
		if err := http.ListenAndServe(healthAddr, healthRouter()); err != nil {
			log.Error().Err(err).Msg("health server stopped")
		}
	}()
	return nil
}

func healthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "bibliotech-worker"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})
	return r
}
