package bus

import (
	"context"

	"github.com/anchorrisk/anchorrisk-backend/internal/realtime"
)

// Bus carries risk events between API replicas.
type Bus interface {
	Publish(ctx context.Context, ev realtime.Event) error
	StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error
	Close() error
}
