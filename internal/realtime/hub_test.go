package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func recvEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestHubOrderingAndReconnect(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	a := hub.NewClient()
	hub.Subscribe(a, "hh1")

	hub.Broadcast(Event{Channel: "hh1", Type: EventRiskAssessed})
	hub.Broadcast(Event{Channel: "hh1", Type: EventSimulationCompleted})
	hub.Broadcast(Event{Channel: "other", Type: EventRiskAssessed})

	if got := recvEvent(t, a.Outbound, time.Second); got.Type != EventRiskAssessed {
		t.Fatalf("first event: want=%s got=%s", EventRiskAssessed, got.Type)
	}
	if got := recvEvent(t, a.Outbound, time.Second); got.Type != EventSimulationCompleted {
		t.Fatalf("second event: want=%s got=%s", EventSimulationCompleted, got.Type)
	}
	select {
	case ev := <-a.Outbound:
		t.Fatalf("unexpected event from another channel: %+v", ev)
	default:
	}

	hub.Close(a)
	hub.Close(a)
	if _, ok := <-a.Outbound; ok {
		t.Fatalf("outbound should be closed after Close")
	}
	if n := hub.Subscribers("hh1"); n != 0 {
		t.Fatalf("subscribers after close: want=0 got=%d", n)
	}

	b := hub.NewClient()
	hub.Subscribe(b, "hh1")
	hub.Broadcast(Event{Channel: "hh1", Type: EventSimulationCompleted})
	if got := recvEvent(t, b.Outbound, time.Second); got.Type != EventSimulationCompleted {
		t.Fatalf("reconnect event: want=%s got=%s", EventSimulationCompleted, got.Type)
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	c := hub.NewClient()
	hub.Subscribe(c, "hh")
	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(Event{Channel: "hh", Type: EventRiskAssessed})
	}
	if got := len(c.Outbound); got != outboundBuffer {
		t.Fatalf("buffered events: want=%d got=%d", outboundBuffer, got)
	}
}

func TestHubServeWritesEvents(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	c := hub.NewClient()
	hub.Subscribe(c, "hh")
	hub.Broadcast(Event{Channel: "hh", Type: EventRiskAssessed, Data: map[string]any{"risk_band": "LOW"}})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/risk/events/hh", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		hub.Serve(rec, req, c)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: risk.assessed") || !strings.Contains(body, `"risk_band":"LOW"`) {
		t.Fatalf("unexpected stream body: %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: want=text/event-stream got=%s", ct)
	}
}
