package ports

import "context"

// Delivery is one recorded webhook processing outcome. The log is an
// operational audit trail; the processing decision never reads it.
type Delivery struct {
	EventID    string
	Email      string
	Status     string
	Action     string
	JoinDate   string
	ContactID  string
	Message    string
	ReceivedAt string
}

// DeliveryLog persists processing outcomes for later inspection.
type DeliveryLog interface {
	RecordDelivery(ctx context.Context, delivery Delivery) error
	ListRecentDeliveries(ctx context.Context, limit int) ([]Delivery, error)
}
