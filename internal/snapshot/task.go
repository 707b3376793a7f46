package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// TypeSnapshot is the asynq task type handled by the worker.
const TypeSnapshot = "library:snapshot"

// Payload says why a snapshot was requested.
type Payload struct {
	Reason string `json:"reason"`
}

func NewTask(reason string) (*asynq.Task, error) {
	payload, err := json.Marshal(Payload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSnapshot, payload), nil
}

// Handler runs snapshot tasks.
type Handler struct {
	snapshotter *Snapshotter
}

func NewHandler(sn *Snapshotter) *Handler {
	return &Handler{snapshotter: sn}
}

func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p Payload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	res, err := h.snapshotter.Take(ctx)
	if err != nil {
		return err
	}

	log.Info().Str("reason", p.Reason).Str("key", res.Key).Int("pruned", len(res.Pruned)).Msg("snapshot task done")
	return nil
}
