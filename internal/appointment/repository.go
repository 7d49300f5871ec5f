package appointment

import (
	"context"
	"errors"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrDuplicateID         = errors.New("duplicate appointment id")
	ErrInvalidAppointment  = errors.New("invalid appointment")
	ErrInvalidDate         = errors.New("invalid date")
	ErrStillLoading        = errors.New("appointments are still loading")
	ErrLoadFailed          = errors.New("appointments failed to load")
	ErrQuickAddAborted     = errors.New("quick add aborted")
)

// DataSource is the external collection the dashboard is populated from.
// It is fetched once per session.
type DataSource interface {
	FetchAppointments(ctx context.Context) ([]Appointment, error)
}

// EventPublisher receives notifications about mutations. Publishing is
// best-effort; errors are logged by the caller and never roll back a change.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

// NoopPublisher discards every event.
var NoopPublisher EventPublisher = noopPublisher{}
