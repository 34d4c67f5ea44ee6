package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ezekielswanson/join-date-serverless-function/internal/app/ports"
)

// APIRoutes registers read-only API endpoints.
type APIRoutes struct {
	deliveries ports.DeliveryLog
}

// NewAPIRoutes constructs API routes over the delivery log.
func NewAPIRoutes(deliveries ports.DeliveryLog) *APIRoutes {
	return &APIRoutes{deliveries: deliveries}
}

// RegisterRoutes registers API endpoints.
func (a *APIRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/api/deliveries", a.handleListDeliveries)
}

type deliveryView struct {
	EventID    string `json:"event_id"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	Action     string `json:"action,omitempty"`
	JoinDate   string `json:"join_date,omitempty"`
	ContactID  string `json:"contact_id,omitempty"`
	Message    string `json:"message,omitempty"`
	ReceivedAt string `json:"received_at"`
}

func (a *APIRoutes) handleListDeliveries(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	deliveries, err := a.deliveries.ListRecentDeliveries(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list deliveries")
	}

	views := make([]deliveryView, 0, len(deliveries))
	for _, d := range deliveries {
		views = append(views, deliveryView{
			EventID:    d.EventID,
			Email:      d.Email,
			Status:     d.Status,
			Action:     d.Action,
			JoinDate:   d.JoinDate,
			ContactID:  d.ContactID,
			Message:    d.Message,
			ReceivedAt: d.ReceivedAt,
		})
	}
	return c.JSON(http.StatusOK, views)
}
