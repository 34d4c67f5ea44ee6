package stripe

// CheckoutSessionCompleted is the only event type this service acts on;
// every other type is acknowledged and ignored.
const CheckoutSessionCompleted = "checkout.session.completed"

// CheckoutEvent is the payment-provider payload consumed by the handler.
// Signature verification happens upstream; the payload arrives pre-verified.
type CheckoutEvent struct {
	Type            string          `json:"type"`
	ID              string          `json:"id"`
	Created         int64           `json:"created"`
	CustomerDetails CustomerDetails `json:"customer_details"`
}

// CustomerDetails carries the identity used for the CRM lookup.
type CustomerDetails struct {
	Email string `json:"email"`
}
