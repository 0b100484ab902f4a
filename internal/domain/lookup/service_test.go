package lookup

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

type mockRoomRepo struct {
	rooms map[string]Room
}

func newMockRoomRepo() *mockRoomRepo { return &mockRoomRepo{rooms: map[string]Room{}} }

func (m *mockRoomRepo) List(_ context.Context, activeOnly bool) ([]Room, error) {
	var out []Room
	for _, r := range m.rooms {
		if activeOnly && !r.Active {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRoomRepo) Get(_ context.Context, id string) (Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}
	return r, nil
}

func (m *mockRoomRepo) Create(_ context.Context, r Room) error {
	m.rooms[r.ID] = r
	return nil
}

func (m *mockRoomRepo) Update(_ context.Context, r Room) error {
	if _, ok := m.rooms[r.ID]; !ok {
		return ErrNotFound
	}
	m.rooms[r.ID] = r
	return nil
}

type mockPhysicianRepo struct {
	physicians map[string]Physician
}

func newMockPhysicianRepo() *mockPhysicianRepo {
	return &mockPhysicianRepo{physicians: map[string]Physician{}}
}

func (m *mockPhysicianRepo) List(_ context.Context, activeOnly bool) ([]Physician, error) {
	var out []Physician
	for _, p := range m.physicians {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPhysicianRepo) Get(_ context.Context, id string) (Physician, error) {
	p, ok := m.physicians[id]
	if !ok {
		return Physician{}, ErrNotFound
	}
	return p, nil
}

func (m *mockPhysicianRepo) Create(_ context.Context, p Physician) error {
	m.physicians[p.ID] = p
	return nil
}

func (m *mockPhysicianRepo) Update(_ context.Context, p Physician) error {
	if _, ok := m.physicians[p.ID]; !ok {
		return ErrNotFound
	}
	m.physicians[p.ID] = p
	return nil
}

type mockTypeRepo struct {
	types map[string]AppointmentType
}

func newMockTypeRepo() *mockTypeRepo { return &mockTypeRepo{types: map[string]AppointmentType{}} }

func (m *mockTypeRepo) List(_ context.Context) ([]AppointmentType, error) {
	var out []AppointmentType
	for _, t := range m.types {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTypeRepo) Create(_ context.Context, t AppointmentType) error {
	m.types[t.ID] = t
	return nil
}

func newTestService() (*Service, *mockRoomRepo, *mockPhysicianRepo, *mockTypeRepo) {
	rooms := newMockRoomRepo()
	physicians := newMockPhysicianRepo()
	types := newMockTypeRepo()
	svc := NewService(rooms, physicians, types, zerolog.Nop())
	return svc, rooms, physicians, types
}

func TestService_CreateRoom(t *testing.T) {
	svc, rooms, _, _ := newTestService()

	created, err := svc.CreateRoom(context.Background(), Room{Name: "  Salle 1  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected generated ID")
	}
	if created.Name != "Salle 1" {
		t.Errorf("Expected trimmed name, got %q", created.Name)
	}
	if !created.Active {
		t.Error("Expected new room to be active")
	}
	if _, ok := rooms.rooms[created.ID]; !ok {
		t.Error("Expected room persisted")
	}
}

func TestService_CreateRoomRequiresName(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.CreateRoom(context.Background(), Room{Name: "   "}); err == nil {
		t.Error("Expected error for blank name")
	}
}

func TestService_ListRoomsActiveOnly(t *testing.T) {
	svc, rooms, _, _ := newTestService()
	rooms.rooms["a"] = Room{ID: "a", Name: "Salle 1", Active: true}
	rooms.rooms["b"] = Room{ID: "b", Name: "Salle 2", Active: false}

	active, err := svc.ListRooms(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("Expected 1 active room, got %d", len(active))
	}

	all, err := svc.ListRooms(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 rooms including inactive, got %d", len(all))
	}
}

func TestService_UpdateRoomNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.UpdateRoom(context.Background(), Room{ID: "missing", Name: "Salle 9"})
	if err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestService_CreatePhysician(t *testing.T) {
	svc, _, physicians, _ := newTestService()

	created, err := svc.CreatePhysician(context.Background(), Physician{FullName: "Dr. Martin", Specialty: "Cardiology"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected generated ID")
	}
	if !created.Active {
		t.Error("Expected new physician to be active")
	}
	if len(physicians.physicians) != 1 {
		t.Errorf("Expected 1 physician persisted, got %d", len(physicians.physicians))
	}
}

func TestService_CreateTypeDefaultsDuration(t *testing.T) {
	svc, _, _, _ := newTestService()

	created, err := svc.CreateType(context.Background(), AppointmentType{Name: "Consultation"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.DurationMinutes != 30 {
		t.Errorf("Expected default duration 30, got %d", created.DurationMinutes)
	}
}
