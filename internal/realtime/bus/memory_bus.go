package bus

import (
	"context"
	"sync"

	"github.com/anchorrisk/anchorrisk-backend/internal/realtime"
)

// MemoryBus delivers events synchronously to forwarders in this process.
type MemoryBus struct {
	mu         sync.RWMutex
	forwarders []func(realtime.Event)
}

func NewMemoryBus() *MemoryBus { return &MemoryBus{} }

func (b *MemoryBus) Publish(_ context.Context, ev realtime.Event) error {
	b.mu.RLock()
	fs := append([]func(realtime.Event){}, b.forwarders...)
	b.mu.RUnlock()
	for _, f := range fs {
		f(ev)
	}
	return nil
}

func (b *MemoryBus) StartForwarder(_ context.Context, onEvent func(ev realtime.Event)) error {
	if onEvent == nil {
		return nil
	}
	b.mu.Lock()
	b.forwarders = append(b.forwarders, onEvent)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBus) Close() error { return nil }
