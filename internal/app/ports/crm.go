package ports

import "context"

// Contact is the slice of a CRM contact record this service observes:
// the opaque record identifier and the join-date property, which may be
// empty when never written.
type Contact struct {
	ID       string
	JoinDate string
}

// ContactDirectory resolves and mutates contact records in the CRM.
type ContactDirectory interface {
	// FindContactByEmail returns the first contact whose identity field
	// equals email, or nil when there is no match.
	FindContactByEmail(ctx context.Context, email string) (*Contact, error)
	// SetJoinDate patches the join-date property of a single contact.
	SetJoinDate(ctx context.Context, contactID, joinDate string) error
}
