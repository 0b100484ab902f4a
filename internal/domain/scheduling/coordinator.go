package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Coordinator serializes appointment mutations and maintains the optimistic
// in-memory snapshot that calendar views are materialized from.
//
// Mutations follow an optimistic protocol: the snapshot is updated first,
// then the change is persisted. A persistence failure is logged and returned
// to the caller but the snapshot is NOT rolled back; the next Refresh
// reconciles it against the store. This keeps the calendar responsive while
// the database catches up, at the cost of a transiently stale view after an
// error.
type Coordinator struct {
	repo Repo
	log  zerolog.Logger

	mu    sync.Mutex
	byID  map[string]Appointment
	dirty bool // a persist failed since the last Refresh
}

// NewCoordinator returns a coordinator with an empty snapshot; call Refresh
// before serving views.
func NewCoordinator(repo Repo, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		repo: repo,
		log:  log.With().Str("component", "scheduling.coordinator").Logger(),
		byID: make(map[string]Appointment),
	}
}

// Refresh replaces the snapshot with the store's current contents.
func (c *Coordinator) Refresh(ctx context.Context) error {
	appts, err := c.repo.List(ctx, Criteria{})
	if err != nil {
		return fmt.Errorf("refresh appointments: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[string]Appointment, len(appts))
	for _, a := range appts {
		c.byID[a.ID] = a
	}
	c.dirty = false
	return nil
}

// Snapshot returns the current appointments ordered by date, time then id.
func (c *Coordinator) Snapshot() []Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Appointment, 0, len(c.byID))
	for _, a := range c.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Get returns the snapshot's copy of one appointment.
func (c *Coordinator) Get(id string) (Appointment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.byID[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

// Dirty reports whether a persist has failed since the last Refresh, i.e.
// the snapshot may be ahead of the store.
func (c *Coordinator) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Create inserts a new appointment. An empty id gets a generated one; a
// reused id is rejected before anything is written.
func (c *Coordinator) Create(ctx context.Context, a Appointment) (Appointment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Time == "" {
		a.Time = normalizeClock(a.Time)
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = DefaultDurationMinutes
	}
	if !a.Status.Valid() {
		a.Status = StatusPending
	}

	c.mu.Lock()
	if _, exists := c.byID[a.ID]; exists {
		c.mu.Unlock()
		return Appointment{}, fmt.Errorf("create appointment %s: %w", a.ID, ErrDuplicateID)
	}
	c.byID[a.ID] = a
	c.mu.Unlock()

	if err := c.repo.Create(ctx, a); err != nil {
		c.persistFailed("create", a.ID, err)
		return a, fmt.Errorf("persist appointment %s: %w", a.ID, err)
	}
	return a, nil
}

// Update replaces an existing appointment wholesale.
func (c *Coordinator) Update(ctx context.Context, a Appointment) (Appointment, error) {
	c.mu.Lock()
	if _, ok := c.byID[a.ID]; !ok {
		c.mu.Unlock()
		return Appointment{}, ErrNotFound
	}
	c.byID[a.ID] = a
	c.mu.Unlock()

	if err := c.repo.Update(ctx, a); err != nil {
		c.persistFailed("update", a.ID, err)
		return a, fmt.Errorf("persist appointment %s: %w", a.ID, err)
	}
	return a, nil
}

// SetStatus transitions one appointment's status.
func (c *Coordinator) SetStatus(ctx context.Context, id string, status Status) (Appointment, error) {
	if !status.Valid() {
		return Appointment{}, fmt.Errorf("set status: invalid status %q", status)
	}

	c.mu.Lock()
	a, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return Appointment{}, ErrNotFound
	}
	a.Status = status
	c.byID[id] = a
	c.mu.Unlock()

	if err := c.repo.UpdateStatus(ctx, id, status); err != nil {
		c.persistFailed("status", id, err)
		return a, fmt.Errorf("persist status of appointment %s: %w", id, err)
	}
	return a, nil
}

// Reschedule moves an appointment to the drop target. A drop that changes
// nothing is a no-op and issues no write.
func (c *Coordinator) Reschedule(ctx context.Context, id string, t Target) (Appointment, error) {
	c.mu.Lock()
	a, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return Appointment{}, ErrNotFound
	}
	moved, err := Reschedule(a, t)
	if err != nil {
		c.mu.Unlock()
		return Appointment{}, err
	}
	if moved.Date == a.Date && moved.Time == a.Time && moved.Room == a.Room {
		c.mu.Unlock()
		return a, nil
	}
	c.byID[id] = moved
	c.mu.Unlock()

	if err := c.repo.Update(ctx, moved); err != nil {
		c.persistFailed("reschedule", id, err)
		return moved, fmt.Errorf("persist appointment %s: %w", id, err)
	}
	return moved, nil
}

// Delete removes an appointment from the snapshot and the store.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if _, ok := c.byID[id]; !ok {
		c.mu.Unlock()
		return ErrNotFound
	}
	delete(c.byID, id)
	c.mu.Unlock()

	if err := c.repo.Delete(ctx, id); err != nil {
		c.persistFailed("delete", id, err)
		return fmt.Errorf("delete appointment %s: %w", id, err)
	}
	return nil
}

func (c *Coordinator) persistFailed(op, id string, err error) {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
	c.log.Warn().Err(err).Str("op", op).Str("appointment_id", id).
		Msg("persist failed, snapshot kept ahead of store")
}
