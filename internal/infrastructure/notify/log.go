package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogNotifier writes notifications to the global logger.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) {
	ev := log.Info()
	if n.Variant == VariantDestructive {
		ev = log.Warn()
	}
	ev.Str("title", n.Title).Str("variant", string(n.Variant)).Msg(n.Description)
}
