package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Cache stores rendered calendar payloads keyed by view. Implementations
// must tolerate concurrent use; a nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Invalidate(ctx context.Context) error
}

// Notifier is told about booking events so reminders can go out. A nil
// Notifier is a no-op.
type Notifier interface {
	AppointmentBooked(ctx context.Context, a Appointment)
	AppointmentRescheduled(ctx context.Context, a Appointment)
	AppointmentCancelled(ctx context.Context, a Appointment)
}

// CalendarPayload is a fully materialized view: the grid rows, every cell,
// and the context they were computed for.
type CalendarPayload struct {
	View  ViewContext  `json:"view"`
	Slots []string     `json:"slots,omitempty"`
	Cells []CellBucket `json:"cells"`
	Total int          `json:"total"`
}

type Service struct {
	coord *Coordinator
	repo  Repo
	cache Cache
	notif Notifier
	log   zerolog.Logger
}

func NewService(coord *Coordinator, repo Repo, cache Cache, notif Notifier, log zerolog.Logger) *Service {
	return &Service{
		coord: coord,
		repo:  repo,
		cache: cache,
		notif: notif,
		log:   log.With().Str("component", "scheduling.service").Logger(),
	}
}

// List queries the store directly with server-side filtering.
func (s *Service) List(ctx context.Context, c Criteria) ([]Appointment, error) {
	return s.repo.List(ctx, c)
}

func (s *Service) Get(ctx context.Context, id string) (Appointment, error) {
	if id == "" {
		return Appointment{}, fmt.Errorf("get appointment: %w", ErrNotFound)
	}
	return s.repo.Get(ctx, id)
}

// Create normalizes an inbound payload, which may arrive in any of the
// legacy wire shapes, and books it through the coordinator.
func (s *Service) Create(ctx context.Context, raw RawAppointment) (Appointment, error) {
	a := Normalize(raw)
	if a.PatientName == "" {
		return Appointment{}, fmt.Errorf("create appointment: patient_name is required")
	}
	if a.Date.IsZero() {
		return Appointment{}, fmt.Errorf("create appointment: date is required")
	}
	a, err := s.coord.Create(ctx, a)
	if err != nil {
		return a, err
	}
	s.mutated(ctx)
	if s.notif != nil {
		s.notif.AppointmentBooked(ctx, a)
	}
	return a, nil
}

// Update applies an inbound payload on top of the stored appointment. Only
// fields the payload carries are replaced.
func (s *Service) Update(ctx context.Context, id string, raw RawAppointment) (Appointment, error) {
	cur, err := s.coord.Get(id)
	if err != nil {
		return Appointment{}, err
	}
	next := merge(cur, Normalize(raw), raw)
	a, err := s.coord.Update(ctx, next)
	if err != nil {
		return a, err
	}
	s.mutated(ctx)
	return a, nil
}

func (s *Service) SetStatus(ctx context.Context, id string, status Status) (Appointment, error) {
	a, err := s.coord.SetStatus(ctx, id, status)
	if err != nil {
		return a, err
	}
	s.mutated(ctx)
	if status == StatusCancelled && s.notif != nil {
		s.notif.AppointmentCancelled(ctx, a)
	}
	return a, nil
}

func (s *Service) Reschedule(ctx context.Context, id string, t Target) (Appointment, error) {
	a, err := s.coord.Reschedule(ctx, id, t)
	if err != nil {
		return a, err
	}
	s.mutated(ctx)
	if s.notif != nil {
		s.notif.AppointmentRescheduled(ctx, a)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	a, getErr := s.coord.Get(id)
	if err := s.coord.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx)
	if getErr == nil && s.notif != nil {
		s.notif.AppointmentCancelled(ctx, a)
	}
	return nil
}

// Calendar materializes a view over the coordinator's snapshot, narrowed by
// the criteria. Unfiltered views are served from the cache when possible.
func (s *Service) Calendar(ctx context.Context, view ViewContext, c Criteria, rooms []string) (*CalendarPayload, error) {
	if !view.Mode.Valid() {
		return nil, fmt.Errorf("calendar: invalid mode %q", view.Mode)
	}
	if view.Anchor.IsZero() {
		return nil, fmt.Errorf("calendar: anchor date is required")
	}

	cacheable := c.Empty() && s.cache != nil
	key := calendarKey(view, rooms)
	if cacheable {
		if b, err := s.cache.Get(ctx, key); err == nil && b != nil {
			var p CalendarPayload
			if json.Unmarshal(b, &p) == nil {
				return &p, nil
			}
		}
	}

	appts := s.coord.Snapshot()
	if len(appts) == 0 {
		if err := s.coord.Refresh(ctx); err != nil {
			return nil, err
		}
		appts = s.coord.Snapshot()
	}
	filtered := Filter(appts, c)

	p := &CalendarPayload{
		View:  view,
		Cells: Materialize(filtered, view, rooms),
		Total: len(filtered),
	}
	if view.Mode != ViewMonth {
		p.Slots = TimeSlots()
	}

	if cacheable {
		if b, err := json.Marshal(p); err == nil {
			if err := s.cache.Set(ctx, key, b); err != nil {
				s.log.Debug().Err(err).Msg("calendar cache set failed")
			}
		}
	}
	return p, nil
}

func (s *Service) mutated(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Debug().Err(err).Msg("calendar cache invalidate failed")
	}
}

func calendarKey(view ViewContext, rooms []string) string {
	return fmt.Sprintf("calendar:%s:%s:%d:%s", view.Mode, view.Anchor, view.VisibleDays, strings.Join(rooms, ","))
}

// merge overlays the normalized patch onto cur, keeping cur's value for any
// field the raw payload did not mention.
func merge(cur, patch Appointment, raw RawAppointment) Appointment {
	next := cur
	if raw.PatientName != "" || raw.Patient != "" {
		next.PatientName = patch.PatientName
	}
	if raw.Date != "" {
		next.Date = patch.Date
	}
	if raw.Time != "" {
		next.Time = patch.Time
	}
	if raw.DurationMinutes.OK || raw.Duration.OK {
		next.DurationMinutes = patch.DurationMinutes
	}
	if raw.Status != "" {
		next.Status = patch.Status
	}
	if patch.Room != "" {
		next.Room = patch.Room
		next.RoomName = patch.RoomName
	}
	if patch.Type != "" {
		next.Type = patch.Type
	}
	if patch.Physician != "" {
		next.Physician = patch.Physician
	}
	if patch.PhysicianID != "" {
		next.PhysicianID = patch.PhysicianID
	}
	if raw.Phone != "" {
		next.Phone = patch.Phone
	}
	if raw.Email != "" {
		next.Email = patch.Email
	}
	if raw.Notes != "" || raw.Reason != "" {
		next.Notes = patch.Notes
	}
	if raw.Insurance != "" {
		next.Insurance = patch.Insurance
	}
	if raw.Referral != "" {
		next.Referral = patch.Referral
	}
	return next
}
