package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ezekielswanson/join-date-serverless-function/internal/app/ports"
)

type stubDeliveryLog struct {
	deliveries []ports.Delivery
	gotLimit   int
}

func (s *stubDeliveryLog) RecordDelivery(_ context.Context, delivery ports.Delivery) error {
	s.deliveries = append(s.deliveries, delivery)
	return nil
}

func (s *stubDeliveryLog) ListRecentDeliveries(_ context.Context, limit int) ([]ports.Delivery, error) {
	s.gotLimit = limit
	return s.deliveries, nil
}

func TestListDeliveriesEndpoint(t *testing.T) {
	t.Parallel()

	log := &stubDeliveryLog{deliveries: []ports.Delivery{
		{EventID: "evt_1", Email: "a@example.com", Status: "success", Action: "updated", JoinDate: "2025-07-20", ContactID: "42", ReceivedAt: "2025-07-20T00:00:05Z"},
		{EventID: "evt_2", Status: "ignored", ReceivedAt: "2025-07-20T00:01:00Z"},
	}}

	e := echo.New()
	NewAPIRoutes(log).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/api/deliveries?limit=5", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if log.gotLimit != 5 {
		t.Fatalf("expected limit passthrough, got %d", log.gotLimit)
	}

	var parsed []deliveryView
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("unexpected count: got=%d want=2", len(parsed))
	}
	if parsed[0].EventID != "evt_1" || parsed[0].Action != "updated" {
		t.Fatalf("unexpected first row: %+v", parsed[0])
	}
}
