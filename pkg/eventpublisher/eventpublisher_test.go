package eventpublisher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

func TestPublishJoinDateAssigned(t *testing.T) {
	t.Parallel()

	var received cloudevents.Event
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := received.UnmarshalJSON(mustReadBody(t, r)); err != nil {
			t.Errorf("decode event: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	c := Client{Endpoint: srv.URL}
	err := c.PublishJoinDateAssigned(context.Background(), Notification{
		ContactID: "42",
		Email:     "a@example.com",
		JoinDate:  "2025-07-20",
		EventID:   "evt_1",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if contentType != cloudevents.ApplicationCloudEventsJSON {
		t.Fatalf("unexpected content type: %q", contentType)
	}
	if received.Type() != ContactUpdatedEventType {
		t.Fatalf("unexpected event type: %q", received.Type())
	}
	if received.ID() == "" {
		t.Fatal("expected non-empty event id")
	}

	var data Notification
	if err := received.DataAs(&data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.ContactID != "42" || data.JoinDate != "2025-07-20" || data.EventID != "evt_1" {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestPublishDisabledWithoutEndpoint(t *testing.T) {
	t.Parallel()

	c := Client{}
	if c.Enabled() {
		t.Fatal("expected disabled client")
	}
	if err := c.PublishJoinDateAssigned(context.Background(), Notification{}); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestPublishSurfacesSinkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sink unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := Client{Endpoint: srv.URL}
	if err := c.PublishJoinDateAssigned(context.Background(), Notification{}); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func mustReadBody(t *testing.T, r *http.Request) []byte {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return body
}
