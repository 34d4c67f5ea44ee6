package db

import (
	"context"
	"time"

	"github.com/ezekielswanson/join-date-serverless-function/internal/app/ports"
)

const defaultListLimit = 50

// RecordDelivery appends one processing outcome to the delivery log.
func (c *Database) RecordDelivery(ctx context.Context, delivery ports.Delivery) error {
	receivedAt := delivery.ReceivedAt
	if receivedAt == "" {
		receivedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO deliveries (event_id, email, status, action, join_date, contact_id, message, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		delivery.EventID,
		delivery.Email,
		delivery.Status,
		delivery.Action,
		delivery.JoinDate,
		delivery.ContactID,
		delivery.Message,
		receivedAt,
	)
	return err
}

// ListRecentDeliveries returns the newest delivery rows, newest first.
func (c *Database) ListRecentDeliveries(ctx context.Context, limit int) ([]ports.Delivery, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultListLimit
	}
	rows, err := c.db.QueryContext(ctx, `
		SELECT event_id, email, status, action, join_date, contact_id, message, received_at
		FROM deliveries
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []ports.Delivery
	for rows.Next() {
		var d ports.Delivery
		if err := rows.Scan(&d.EventID, &d.Email, &d.Status, &d.Action, &d.JoinDate, &d.ContactID, &d.Message, &d.ReceivedAt); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}
