package bus

import (
	"context"
	"testing"

	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/realtime"
)

func TestNewWithoutAddrIsInProcess(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	b, err := New(log, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := b.(*MemoryBus); !ok {
		t.Fatalf("want *MemoryBus got %T", b)
	}
}

func TestMemoryBusForwards(t *testing.T) {
	b := NewMemoryBus()
	var got []realtime.EventType
	if err := b.StartForwarder(context.Background(), func(ev realtime.Event) { got = append(got, ev.Type) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	_ = b.Publish(context.Background(), realtime.Event{Channel: "hh", Type: realtime.EventRiskAssessed})
	_ = b.Publish(context.Background(), realtime.Event{Channel: "hh", Type: realtime.EventSimulationCompleted})
	if len(got) != 2 || got[0] != realtime.EventRiskAssessed || got[1] != realtime.EventSimulationCompleted {
		t.Fatalf("forwarded events: %v", got)
	}
}

func TestNewRejectsNilLogger(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}
