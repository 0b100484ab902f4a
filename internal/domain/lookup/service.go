package lookup

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service exposes the clinic's reference directories: rooms, physicians
// and appointment types. Reads default to active entries only so the
// calendar pickers never show retired rooms or departed physicians.
type Service struct {
	rooms      RoomRepository
	physicians PhysicianRepository
	types      AppointmentTypeRepository
	log        zerolog.Logger
}

func NewService(rooms RoomRepository, physicians PhysicianRepository, types AppointmentTypeRepository, log zerolog.Logger) *Service {
	return &Service{
		rooms:      rooms,
		physicians: physicians,
		types:      types,
		log:        log.With().Str("component", "lookup-service").Logger(),
	}
}

func (s *Service) ListRooms(ctx context.Context, includeInactive bool) ([]Room, error) {
	return s.rooms.List(ctx, !includeInactive)
}

func (s *Service) CreateRoom(ctx context.Context, r Room) (Room, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return Room{}, errors.New("room name is required")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Active = true
	if err := s.rooms.Create(ctx, r); err != nil {
		return Room{}, err
	}
	return r, nil
}

func (s *Service) UpdateRoom(ctx context.Context, r Room) error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("room name is required")
	}
	return s.rooms.Update(ctx, r)
}

func (s *Service) ListPhysicians(ctx context.Context, includeInactive bool) ([]Physician, error) {
	return s.physicians.List(ctx, !includeInactive)
}

func (s *Service) CreatePhysician(ctx context.Context, p Physician) (Physician, error) {
	p.FullName = strings.TrimSpace(p.FullName)
	if p.FullName == "" {
		return Physician{}, errors.New("physician full name is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Active = true
	if err := s.physicians.Create(ctx, p); err != nil {
		return Physician{}, err
	}
	return p, nil
}

func (s *Service) UpdatePhysician(ctx context.Context, p Physician) error {
	if strings.TrimSpace(p.FullName) == "" {
		return errors.New("physician full name is required")
	}
	return s.physicians.Update(ctx, p)
}

func (s *Service) ListTypes(ctx context.Context) ([]AppointmentType, error) {
	return s.types.List(ctx)
}

func (s *Service) CreateType(ctx context.Context, t AppointmentType) (AppointmentType, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return AppointmentType{}, errors.New("appointment type name is required")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.DurationMinutes <= 0 {
		t.DurationMinutes = 30
	}
	if err := s.types.Create(ctx, t); err != nil {
		return AppointmentType{}, err
	}
	return t, nil
}
