// Package eventpublisher emits CloudEvents notifications about join-date
// assignments to an optional downstream HTTP sink.
package eventpublisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// ContactUpdatedEventType identifies a join-date assignment notification.
const ContactUpdatedEventType = "com.joindate.contact.updated"

const eventSource = "joindate/webhook"

// Notification is the CloudEvent payload for one join-date assignment.
type Notification struct {
	ContactID string `json:"contact_id"`
	Email     string `json:"email"`
	JoinDate  string `json:"join_date"`
	EventID   string `json:"event_id"`
}

// Client publishes notifications to a configured endpoint. A zero Endpoint
// disables publishing.
type Client struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Enabled reports whether an endpoint is configured.
func (c Client) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// PublishJoinDateAssigned sends a contact-updated CloudEvent in structured
// JSON mode. A no-op when no endpoint is configured.
func (c Client) PublishJoinDateAssigned(ctx context.Context, n Notification) error {
	if !c.Enabled() {
		return nil
	}

	event := cloudevents.NewEvent()
	event.SetID(uuid.NewString())
	event.SetSource(eventSource)
	event.SetType(ContactUpdatedEventType)
	event.SetTime(time.Now().UTC())
	if err := event.SetData(cloudevents.ApplicationJSON, n); err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}

	body, err := event.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(c.Endpoint), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", cloudevents.ApplicationCloudEventsJSON)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("publish failed with %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return nil
}
