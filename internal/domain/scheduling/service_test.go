package scheduling

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type mockCache struct {
	mu          sync.Mutex
	store       map[string][]byte
	invalidated int
}

func newMockCache() *mockCache { return &mockCache{store: make(map[string][]byte)} }

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store[key], nil
}

func (m *mockCache) Set(_ context.Context, key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = val
	return nil
}

func (m *mockCache) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string][]byte)
	m.invalidated++
	return nil
}

type mockNotifier struct {
	booked, rescheduled, cancelled int
}

func (m *mockNotifier) AppointmentBooked(context.Context, Appointment)      { m.booked++ }
func (m *mockNotifier) AppointmentRescheduled(context.Context, Appointment) { m.rescheduled++ }
func (m *mockNotifier) AppointmentCancelled(context.Context, Appointment)   { m.cancelled++ }

func newTestService(seed ...Appointment) (*Service, *mockRepo, *mockCache, *mockNotifier) {
	repo := newMockRepo(seed...)
	coord := NewCoordinator(repo, zerolog.Nop())
	if err := coord.Refresh(context.Background()); err != nil {
		panic(err)
	}
	cache := newMockCache()
	notif := &mockNotifier{}
	return NewService(coord, repo, cache, notif, zerolog.Nop()), repo, cache, notif
}

func TestService_CreateNormalizesWirePayload(t *testing.T) {
	svc, _, _, notif := newTestService()
	raw := decodeRaw(t, `{
		"patient": "J. Doe",
		"date": "2025-02-10",
		"time": "09:30:00",
		"status": "canceled",
		"room": {"id": 3, "name": "Salle A"}
	}`)
	a, err := svc.Create(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.PatientName != "J. Doe" || a.Time != "09:30" || a.Status != StatusCancelled || a.Room != "3" {
		t.Errorf("payload not normalized: %+v", a)
	}
	if notif.booked != 1 {
		t.Errorf("expected one booked notification, got %d", notif.booked)
	}
}

func TestService_CreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.Create(context.Background(), RawAppointment{Date: "2025-02-10"}); err == nil {
		t.Error("expected error without patient name")
	}
	if _, err := svc.Create(context.Background(), RawAppointment{PatientName: "X"}); err == nil {
		t.Error("expected error without date")
	}
}

func TestService_UpdateMergesPartialPayload(t *testing.T) {
	seed := baseAppointment()
	seed.PatientName = "J. Doe"
	seed.Phone = "0601020304"
	svc, _, _, _ := newTestService(seed)

	a, err := svc.Update(context.Background(), "a1", decodeRaw(t, `{"time": "14:00"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Time != "14:00" {
		t.Errorf("expected time updated, got %q", a.Time)
	}
	if a.PatientName != "J. Doe" || a.Phone != "0601020304" || a.Room != "r1" {
		t.Errorf("untouched fields must survive a partial update: %+v", a)
	}
	if a.Status != StatusConfirmed {
		t.Errorf("status must survive when the payload omits it, got %q", a.Status)
	}
}

func TestService_CalendarCachesUnfilteredViews(t *testing.T) {
	svc, _, cache, _ := newTestService(baseAppointment())
	view := ViewContext{Mode: ViewWeek, Anchor: NewDate(2025, 2, 12)}

	p1, err := svc.Calendar(context.Background(), view, Criteria{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.store) != 1 {
		t.Fatalf("expected one cached payload, got %d", len(cache.store))
	}
	p2, err := svc.Calendar(context.Background(), view, Criteria{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1.Total != p2.Total || len(p1.Cells) != len(p2.Cells) {
		t.Error("cached payload differs from computed one")
	}
}

func TestService_CalendarCacheKeyedOnRoomList(t *testing.T) {
	svc, _, cache, _ := newTestService(baseAppointment())
	view := ViewContext{Mode: ViewDay, Anchor: NewDate(2025, 2, 10)}

	p1, err := svc.Calendar(context.Background(), view, Criteria{}, []string{"room-1", "room-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, err := svc.Calendar(context.Background(), view, Criteria{}, []string{"room-3", "room-4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.store) != 2 {
		t.Fatalf("expected distinct cache entries per room list, got %d", len(cache.store))
	}

	columns := func(p *CalendarPayload) map[string]bool {
		got := map[string]bool{}
		for _, cell := range p.Cells {
			got[cell.Room] = true
		}
		return got
	}
	got1, got2 := columns(p1), columns(p2)
	if !got1["room-1"] || !got1["room-2"] {
		t.Errorf("first view missing its columns: %v", got1)
	}
	if !got2["room-3"] || !got2["room-4"] {
		t.Errorf("second view must carry its own columns, got %v", got2)
	}
	if got2["room-1"] || got2["room-2"] {
		t.Errorf("second view served another room list's grid: %v", got2)
	}
}

func TestService_CalendarSkipsCacheWhenFiltered(t *testing.T) {
	svc, _, cache, _ := newTestService(baseAppointment())
	view := ViewContext{Mode: ViewWeek, Anchor: NewDate(2025, 2, 12)}
	if _, err := svc.Calendar(context.Background(), view, Criteria{Rooms: []string{"r1"}}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.store) != 0 {
		t.Error("filtered views must not be cached")
	}
}

func TestService_MutationsInvalidateCache(t *testing.T) {
	svc, _, cache, _ := newTestService(baseAppointment())
	view := ViewContext{Mode: ViewWeek, Anchor: NewDate(2025, 2, 12)}
	if _, err := svc.Calendar(context.Background(), view, Criteria{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), "a1", StatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.invalidated != 1 {
		t.Errorf("expected one invalidation, got %d", cache.invalidated)
	}
	if len(cache.store) != 0 {
		t.Error("cache must be empty after a mutation")
	}
}

func TestService_CalendarValidation(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.Calendar(context.Background(), ViewContext{Mode: "year", Anchor: NewDate(2025, 2, 1)}, Criteria{}, nil); err == nil {
		t.Error("expected error for invalid mode")
	}
	if _, err := svc.Calendar(context.Background(), ViewContext{Mode: ViewDay}, Criteria{}, nil); err == nil {
		t.Error("expected error for missing anchor")
	}
}

func TestService_CalendarAppliesCriteria(t *testing.T) {
	a1 := baseAppointment()
	a2 := baseAppointment()
	a2.ID = "a2"
	a2.Room = "r2"
	svc, _, _, _ := newTestService(a1, a2)

	view := ViewContext{Mode: ViewDay, Anchor: a1.Date}
	p, err := svc.Calendar(context.Background(), view, Criteria{Rooms: []string{"r1"}}, []string{"r1", "r2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Total != 1 {
		t.Errorf("expected 1 visible appointment, got %d", p.Total)
	}
	for _, c := range p.Cells {
		if c.Room == "r2" && len(c.Appointments) > 0 {
			t.Error("filtered-out appointment still bucketed")
		}
	}
}

func TestService_DeleteNotifiesCancellation(t *testing.T) {
	svc, _, _, notif := newTestService(baseAppointment())
	if err := svc.Delete(context.Background(), "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notif.cancelled != 1 {
		t.Errorf("expected one cancellation notification, got %d", notif.cancelled)
	}
}

func TestService_RescheduleNotifies(t *testing.T) {
	svc, _, _, notif := newTestService(baseAppointment())
	if _, err := svc.Reschedule(context.Background(), "a1", Target{Time: "15:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notif.rescheduled != 1 {
		t.Errorf("expected one reschedule notification, got %d", notif.rescheduled)
	}
}
