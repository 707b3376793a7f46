package main

import (
	"context"

	"github.com/hibiken/asynq"

	"bibliotech/internal/infrastructure/storage"
	"bibliotech/internal/snapshot"
	"bibliotech/pkg/container"
)

// HandlerRegistry holds every task handler of the worker.
type HandlerRegistry struct {
	snapshot *snapshot.Handler
}

func initializeHandlers(ctx context.Context, c *container.Container) (*HandlerRegistry, error) {
	store, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		return nil, err
	}

	return &HandlerRegistry{
		snapshot: snapshot.NewHandler(snapshot.New(c.Session, store, c.Config.Snapshot)),
	}, nil
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(snapshot.TypeSnapshot, h.snapshot.ProcessTask)
}
