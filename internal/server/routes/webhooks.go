package routes

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/ezekielswanson/join-date-serverless-function/internal/app/ports"
	"github.com/ezekielswanson/join-date-serverless-function/internal/app/services"
	stripewebhook "github.com/ezekielswanson/join-date-serverless-function/internal/webhooks/stripe"
)

// WebhookRoutes registers webhook endpoints.
type WebhookRoutes struct {
	stripe *stripewebhook.Handler
}

// NewWebhookRoutes constructs webhook routes.
func NewWebhookRoutes(assigner *services.JoinDateAssigner, deliveries ports.DeliveryLog, notifier stripewebhook.Notifier, log *slog.Logger) *WebhookRoutes {
	return &WebhookRoutes{
		stripe: stripewebhook.NewHandler(assigner, deliveries, notifier, log),
	}
}

// RegisterRoutes registers webhook endpoints.
func (w *WebhookRoutes) RegisterRoutes(s *echo.Echo) {
	s.POST("/webhooks/stripe", w.handleStripeWebhook)
}

func (w *WebhookRoutes) handleStripeWebhook(c echo.Context) error {
	return w.stripe.Handle(c.Response(), c.Request())
}
