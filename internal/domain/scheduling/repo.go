package scheduling

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when an appointment id does not exist.
	ErrNotFound = errors.New("appointment not found")

	// ErrDuplicateID is returned when a create reuses an existing id.
	ErrDuplicateID = errors.New("appointment id already exists")
)

// Repo persists appointments. Implementations must be safe for concurrent
// use.
type Repo interface {
	List(ctx context.Context, c Criteria) ([]Appointment, error)
	Get(ctx context.Context, id string) (Appointment, error)
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}
