package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bibliotech/internal/infrastructure/queue"
	"bibliotech/internal/shared/response"
)

// SnapshotQueue hands snapshot requests to the worker.
type SnapshotQueue interface {
	EnqueueSnapshot(ctx context.Context, reason string) (string, error)
}

type SnapshotHandler struct {
	queue SnapshotQueue
}

func NewSnapshotHandler(q SnapshotQueue) *SnapshotHandler {
	return &SnapshotHandler{queue: q}
}

func (h *SnapshotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/snapshots", h.Request)
}

// Request queues a snapshot; the worker uploads it.
func (h *SnapshotHandler) Request(c *gin.Context) {
	id, err := h.queue.EnqueueSnapshot(c.Request.Context(), "api")
	if errors.Is(err, queue.ErrSnapshotPending) {
		response.Conflict(c, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to queue snapshot")
		response.ServiceUnavailable(c, "snapshot queue unavailable")
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"taskId": id})
}
