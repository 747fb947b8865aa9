package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/mocks"
)

func TestDispatch(t *testing.T) {
	evt := mocks.CreateTestEvent()
	payload, err := json.Marshal(evt)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		rec           record
		publishError  error
		expectError   bool
		expectPublish int
	}{
		{
			name:          "report event is published",
			rec:           record{ID: "e1", EventType: ports.EventReportGenerated, Payload: payload},
			expectPublish: 1,
		},
		{
			name:          "broker failure keeps the event",
			rec:           record{ID: "e2", EventType: ports.EventReportGenerated, Payload: payload},
			publishError:  errors.New("channel closed"),
			expectError:   true,
			expectPublish: 0,
		},
		{
			name: "unknown type is dropped",
			rec:  record{ID: "e3", EventType: "hostel.archived", Payload: payload},
		},
		{
			name: "bad payload is dropped",
			rec:  record{ID: "e4", EventType: ports.EventReportGenerated, Payload: []byte("{not json")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := mocks.NewMockReportPublisher()
			publisher.PublishError = tt.publishError

			err := dispatch(context.Background(), publisher, tt.rec)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			events := publisher.GetPublishedEvents()
			if len(events) != tt.expectPublish {
				t.Fatalf("expected %d published events, got %d", tt.expectPublish, len(events))
			}
			if tt.expectPublish == 1 {
				got := events[0]
				if got.HostelID != evt.HostelID || got.PassesIssued != evt.PassesIssued || !got.GeneratedAt.Equal(evt.GeneratedAt) {
					t.Errorf("event mismatch: %+v", got)
				}
			}
		})
	}
}

func TestRelayHealth(t *testing.T) {
	r := NewRelay(nil, "postgres://unused", mocks.NewMockReportPublisher())

	if !r.IsHealthy() || !r.IsReady() {
		t.Fatal("new relay should be healthy and ready")
	}

	r.lastProcessed.Store(time.Now().Add(-2 * healthCheckStaleThreshold).UnixNano())
	if r.IsReady() {
		t.Error("stale relay reported ready")
	}
	if !r.IsHealthy() {
		t.Error("staleness alone should not fail liveness")
	}

	r.touch()
	if !r.IsReady() {
		t.Error("touch should restore readiness")
	}

	r.healthy.Store(false)
	if r.IsHealthy() || r.IsReady() {
		t.Error("unhealthy relay reported healthy")
	}
}
