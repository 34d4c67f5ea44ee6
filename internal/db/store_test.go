package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ezekielswanson/join-date-serverless-function/internal/app/ports"
)

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "testdb"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestRecordAndListDeliveries(t *testing.T) {
	ctx := context.Background()
	database := openTestDatabase(t)

	first := ports.Delivery{
		EventID:    "evt_1",
		Email:      "a@example.com",
		Status:     "success",
		Action:     "updated",
		JoinDate:   "2025-07-20",
		ContactID:  "42",
		Message:    "join date set",
		ReceivedAt: "2025-07-20T00:00:05Z",
	}
	if err := database.RecordDelivery(ctx, first); err != nil {
		t.Fatalf("record first: %v", err)
	}
	second := ports.Delivery{
		EventID: "evt_2",
		Status:  "ignored",
		Message: "unhandled event type",
	}
	if err := database.RecordDelivery(ctx, second); err != nil {
		t.Fatalf("record second: %v", err)
	}

	deliveries, err := database.ListRecentDeliveries(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(deliveries) != 2 {
		t.Fatalf("unexpected count: got=%d want=2", len(deliveries))
	}
	if deliveries[0].EventID != "evt_2" {
		t.Fatalf("expected newest first, got %q", deliveries[0].EventID)
	}
	if deliveries[0].ReceivedAt == "" {
		t.Fatal("expected defaulted received_at")
	}
	if deliveries[1] != first {
		t.Fatalf("round trip mismatch: %+v", deliveries[1])
	}
}

func TestListRecentDeliveriesClampsLimit(t *testing.T) {
	ctx := context.Background()
	database := openTestDatabase(t)

	for range 3 {
		if err := database.RecordDelivery(ctx, ports.Delivery{Status: "error", Message: "boom"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	deliveries, err := database.ListRecentDeliveries(ctx, -5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(deliveries) != 3 {
		t.Fatalf("unexpected count: got=%d want=3", len(deliveries))
	}
}
