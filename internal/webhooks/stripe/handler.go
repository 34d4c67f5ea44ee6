// Package stripe processes checkout-completion webhooks: it derives a join
// date from the event timestamp and sets it on the matching CRM contact
// exactly once.
package stripe

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ezekielswanson/join-date-serverless-function/internal/app/ports"
	"github.com/ezekielswanson/join-date-serverless-function/internal/app/services"
	"github.com/ezekielswanson/join-date-serverless-function/pkg/eventpublisher"
)

const maxPayloadBytes = 1 << 20

// Notifier publishes a downstream notification after a join date is written.
type Notifier interface {
	PublishJoinDateAssigned(ctx context.Context, n eventpublisher.Notification) error
}

// Handler processes checkout webhook payloads.
type Handler struct {
	assigner   *services.JoinDateAssigner
	deliveries ports.DeliveryLog
	notifier   Notifier
	log        *slog.Logger
}

// NewHandler constructs a checkout webhook handler. deliveries and notifier
// may be nil; both are best-effort side channels.
func NewHandler(assigner *services.JoinDateAssigner, deliveries ports.DeliveryLog, notifier Notifier, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{assigner: assigner, deliveries: deliveries, notifier: notifier, log: log}
}

type response struct {
	Status           string `json:"status"`
	Action           string `json:"action,omitempty"`
	ContactID        string `json:"contact_id,omitempty"`
	JoinDate         string `json:"join_date,omitempty"`
	ExistingJoinDate string `json:"existing_join_date,omitempty"`
	EventID          string `json:"event_id,omitempty"`
	Message          string `json:"message,omitempty"`
}

// Handle decodes one webhook delivery and applies the join-date flow.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Status: "error", Message: "unreadable payload"})
		return nil
	}

	var event CheckoutEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Status: "error", Message: "invalid payload"})
		return nil
	}

	if event.Type != CheckoutSessionCompleted {
		h.log.InfoContext(ctx, "Ignoring event", "event_id", event.ID, "event_type", event.Type)
		h.record(ctx, ports.Delivery{
			EventID: event.ID,
			Status:  "ignored",
			Message: "unhandled event type " + event.Type,
		})
		writeJSON(w, http.StatusOK, response{Status: "ignored", EventID: event.ID, Message: "unhandled event type"})
		return nil
	}

	result, err := h.assigner.ApplyJoinDate(ctx, services.AssignCommand{
		Email:          event.CustomerDetails.Email,
		EventCreatedAt: event.Created,
	})
	if err != nil {
		kind := services.ClassifyFailure(err)
		h.log.ErrorContext(ctx, "Join date assignment failed",
			"event_id", event.ID,
			"email", event.CustomerDetails.Email,
			"failure_kind", string(kind),
			"error", err,
		)
		h.record(ctx, ports.Delivery{
			EventID: event.ID,
			Email:   event.CustomerDetails.Email,
			Status:  "error",
			Message: err.Error(),
		})
		writeJSON(w, http.StatusInternalServerError, response{
			Status:  "error",
			EventID: event.ID,
			Message: failureMessage(kind),
		})
		return nil
	}

	h.log.InfoContext(ctx, "Processed checkout event",
		"event_id", event.ID,
		"email", result.Email,
		"action", string(result.Kind),
		"contact_id", result.ContactID,
	)
	h.record(ctx, ports.Delivery{
		EventID:   event.ID,
		Email:     result.Email,
		Status:    "success",
		Action:    string(result.Kind),
		JoinDate:  result.JoinDate,
		ContactID: result.ContactID,
		Message:   result.Message,
	})

	if result.Kind == services.ResultUpdated {
		h.notify(ctx, event.ID, result)
	}

	writeJSON(w, http.StatusOK, response{
		Status:           "success",
		Action:           string(result.Kind),
		ContactID:        result.ContactID,
		JoinDate:         result.JoinDate,
		ExistingJoinDate: result.ExistingJoinDate,
		EventID:          event.ID,
		Message:          result.Message,
	})
	return nil
}

func (h *Handler) record(ctx context.Context, delivery ports.Delivery) {
	if h.deliveries == nil {
		return
	}
	delivery.ReceivedAt = time.Now().UTC().Format(time.RFC3339)
	if err := h.deliveries.RecordDelivery(ctx, delivery); err != nil {
		h.log.WarnContext(ctx, "Failed to record delivery", "event_id", delivery.EventID, "error", err)
	}
}

func (h *Handler) notify(ctx context.Context, eventID string, result services.Result) {
	if h.notifier == nil {
		return
	}
	err := h.notifier.PublishJoinDateAssigned(ctx, eventpublisher.Notification{
		ContactID: result.ContactID,
		Email:     result.Email,
		JoinDate:  result.JoinDate,
		EventID:   eventID,
	})
	if err != nil {
		h.log.WarnContext(ctx, "Failed to publish notification", "event_id", eventID, "error", err)
	}
}

func failureMessage(kind services.FailureKind) string {
	switch kind {
	case services.FailureMissingEmail:
		return "event has no customer email"
	case services.FailureInvalidTimestamp:
		return "event timestamp could not be converted to a date"
	case services.FailureContactNotFound:
		return "no contact matches the customer email"
	case services.FailureContactSearch:
		return "contact lookup failed"
	case services.FailureUpdate:
		return "join date update failed"
	default:
		return "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
