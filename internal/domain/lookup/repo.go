package lookup

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("lookup entry not found")

type RoomRepository interface {
	List(ctx context.Context, activeOnly bool) ([]Room, error)
	Get(ctx context.Context, id string) (Room, error)
	Create(ctx context.Context, r Room) error
	Update(ctx context.Context, r Room) error
}

type PhysicianRepository interface {
	List(ctx context.Context, activeOnly bool) ([]Physician, error)
	Get(ctx context.Context, id string) (Physician, error)
	Create(ctx context.Context, p Physician) error
	Update(ctx context.Context, p Physician) error
}

type AppointmentTypeRepository interface {
	List(ctx context.Context) ([]AppointmentType, error)
	Create(ctx context.Context, t AppointmentType) error
}
