package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ezekielswanson/join-date-serverless-function/internal/app/ports"
)

var (
	// ErrMissingEmail indicates the inbound event carried no customer identity.
	ErrMissingEmail = errors.New("missing customer email")
	// ErrInvalidTimestamp indicates the event timestamp cannot be converted to a date.
	ErrInvalidTimestamp = errors.New("invalid event timestamp")
	// ErrContactSearch indicates the CRM lookup failed or returned an unexpected shape.
	ErrContactSearch = errors.New("contact search failed")
	// ErrContactNotFound indicates the lookup succeeded with zero matches.
	ErrContactNotFound = errors.New("contact not found")
	// ErrUpdateFailed indicates the join-date patch was rejected; no write was confirmed.
	ErrUpdateFailed = errors.New("contact update failed")
)

// maxEventTimestamp is 9999-12-31T23:59:59Z; anything past it cannot be a
// real checkout instant and would not format as a four-digit year.
const maxEventTimestamp = 253402300799

// FailureKind classifies assignment failures for transport-specific mapping.
type FailureKind string

const (
	// FailureUnknown is used when error is nil or not classified.
	FailureUnknown FailureKind = "unknown"
	// FailureMissingEmail indicates an event without a customer email.
	FailureMissingEmail FailureKind = "missing_email"
	// FailureInvalidTimestamp indicates an unconvertible event timestamp.
	FailureInvalidTimestamp FailureKind = "invalid_timestamp"
	// FailureContactSearch indicates a CRM lookup failure.
	FailureContactSearch FailureKind = "contact_search"
	// FailureContactNotFound indicates zero contacts matched the email.
	FailureContactNotFound FailureKind = "contact_not_found"
	// FailureUpdate indicates the join-date patch failed.
	FailureUpdate FailureKind = "update_failed"
)

// ClassifyFailure classifies a returned assignment error.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureUnknown
	case errors.Is(err, ErrMissingEmail):
		return FailureMissingEmail
	case errors.Is(err, ErrInvalidTimestamp):
		return FailureInvalidTimestamp
	case errors.Is(err, ErrContactNotFound):
		return FailureContactNotFound
	case errors.Is(err, ErrContactSearch):
		return FailureContactSearch
	case errors.Is(err, ErrUpdateFailed):
		return FailureUpdate
	default:
		return FailureUnknown
	}
}

// ResultKind is the terminal state of one assignment attempt.
type ResultKind string

const (
	// ResultUpdated means the join date was written.
	ResultUpdated ResultKind = "updated"
	// ResultSkipped means an existing join date was left untouched.
	ResultSkipped ResultKind = "skipped"
)

// Result describes the outcome of one assignment attempt.
type Result struct {
	Kind             ResultKind
	ContactID        string
	Email            string
	JoinDate         string
	ExistingJoinDate string
	Message          string
}

// AssignCommand is transport-agnostic assignment input.
type AssignCommand struct {
	Email          string
	EventCreatedAt int64
}

// JoinDateAssigner sets a contact's join date exactly once, derived from
// the event timestamp. Idempotency comes from re-checking the CRM field on
// every call; there is no cross-invocation state. Two concurrent events for
// the same contact can both observe an empty field and both write, in which
// case the CRM's last write wins.
type JoinDateAssigner struct {
	directory ports.ContactDirectory
	loc       *time.Location
}

// Option configures a JoinDateAssigner.
type Option func(*JoinDateAssigner)

// WithLocation fixes the calendar used for date truncation. The default is
// UTC; the location is resolved once at construction and applied to every
// derivation so the policy stays consistent per deployment.
func WithLocation(loc *time.Location) Option {
	return func(a *JoinDateAssigner) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// NewJoinDateAssigner constructs an assigner backed by the given directory.
func NewJoinDateAssigner(directory ports.ContactDirectory, opts ...Option) *JoinDateAssigner {
	a := &JoinDateAssigner{directory: directory, loc: time.UTC}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DeriveJoinDate converts an epoch-seconds timestamp to a YYYY-MM-DD date
// on the configured calendar.
func (a *JoinDateAssigner) DeriveJoinDate(seconds int64) (string, error) {
	if seconds < 0 || seconds > maxEventTimestamp {
		return "", fmt.Errorf("%w: %d out of range", ErrInvalidTimestamp, seconds)
	}
	return time.Unix(seconds, 0).In(a.loc).Format(time.DateOnly), nil
}

// ApplyJoinDate ensures the contact resolved by cmd.Email has a join date,
// writing one derived from cmd.EventCreatedAt only when the field is empty.
// At most one CRM mutation is issued per call.
func (a *JoinDateAssigner) ApplyJoinDate(ctx context.Context, cmd AssignCommand) (Result, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" {
		return Result{}, ErrMissingEmail
	}

	joinDate, err := a.DeriveJoinDate(cmd.EventCreatedAt)
	if err != nil {
		return Result{}, err
	}

	contact, err := a.directory.FindContactByEmail(ctx, email)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrContactSearch, err)
	}
	if contact == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrContactNotFound, email)
	}

	if contact.JoinDate != "" {
		return Result{
			Kind:             ResultSkipped,
			ContactID:        contact.ID,
			Email:            email,
			ExistingJoinDate: contact.JoinDate,
			Message:          "join date already set",
		}, nil
	}

	if err := a.directory.SetJoinDate(ctx, contact.ID, joinDate); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	return Result{
		Kind:      ResultUpdated,
		ContactID: contact.ID,
		Email:     email,
		JoinDate:  joinDate,
		Message:   "join date set",
	}, nil
}
