package referral

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockRepo struct {
	refs map[string]Referral
	fail error
}

func newMockRepo() *mockRepo { return &mockRepo{refs: map[string]Referral{}} }

func (m *mockRepo) List(_ context.Context, c Criteria) ([]Referral, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var out []Referral
	for _, r := range m.refs {
		if len(c.Statuses) > 0 {
			ok := false
			for _, s := range c.Statuses {
				if r.Status == s {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		if c.From != nil && r.CreatedAt.Before(*c.From) {
			continue
		}
		if c.To != nil && r.CreatedAt.After(*c.To) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRepo) Get(_ context.Context, id string) (Referral, error) {
	if m.fail != nil {
		return Referral{}, m.fail
	}
	r, ok := m.refs[id]
	if !ok {
		return Referral{}, ErrNotFound
	}
	return r, nil
}

func (m *mockRepo) Create(_ context.Context, r Referral) error {
	if m.fail != nil {
		return m.fail
	}
	m.refs[r.ID] = r
	return nil
}

func (m *mockRepo) Update(_ context.Context, r Referral) error {
	if m.fail != nil {
		return m.fail
	}
	if _, ok := m.refs[r.ID]; !ok {
		return ErrNotFound
	}
	m.refs[r.ID] = r
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if m.fail != nil {
		return m.fail
	}
	if _, ok := m.refs[id]; !ok {
		return ErrNotFound
	}
	delete(m.refs, id)
	return nil
}

type mockNotifier struct {
	changed []Referral
}

func (m *mockNotifier) ReferralStatusChanged(_ context.Context, r Referral) {
	m.changed = append(m.changed, r)
}

func newTestService(seed ...Referral) (*Service, *mockRepo, *mockNotifier) {
	repo := newMockRepo()
	for _, r := range seed {
		repo.refs[r.ID] = r
	}
	notif := &mockNotifier{}
	return NewService(repo, notif, zerolog.Nop()), repo, notif
}

func TestService_CreateDefaults(t *testing.T) {
	svc, repo, _ := newTestService()

	created, err := svc.Create(context.Background(), Referral{PatientName: "Alice Moreau"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected generated ID")
	}
	if created.Status != StatusNew {
		t.Errorf("Expected status new, got %s", created.Status)
	}
	if _, ok := repo.refs[created.ID]; !ok {
		t.Error("Expected referral persisted")
	}
}

func TestService_CreateRequiresPatientName(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Create(context.Background(), Referral{PatientName: "  "}); err == nil {
		t.Error("Expected error for blank patient name")
	}
}

func TestService_CreateRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Create(context.Background(), Referral{PatientName: "Alice", Status: "pending"}); err == nil {
		t.Error("Expected error for unknown status")
	}
}

func TestService_SetStatusTransition(t *testing.T) {
	svc, repo, notif := newTestService(Referral{ID: "r1", PatientName: "Alice", Status: StatusNew, Email: "a@example.com"})

	ref, err := svc.SetStatus(context.Background(), "r1", StatusSent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Status != StatusSent {
		t.Errorf("Expected status sent, got %s", ref.Status)
	}
	if repo.refs["r1"].Status != StatusSent {
		t.Error("Expected status persisted")
	}
	if len(notif.changed) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notif.changed))
	}
}

func TestService_SetStatusRejectsBadTransition(t *testing.T) {
	svc, _, notif := newTestService(Referral{ID: "r1", PatientName: "Alice", Status: StatusArrived})

	_, err := svc.SetStatus(context.Background(), "r1", StatusSent)
	if !errors.Is(err, ErrBadTransition) {
		t.Errorf("Expected ErrBadTransition, got %v", err)
	}
	if len(notif.changed) != 0 {
		t.Error("Expected no notification on rejected transition")
	}
}

func TestService_SetStatusNoOpSameStatus(t *testing.T) {
	svc, _, notif := newTestService(Referral{ID: "r1", PatientName: "Alice", Status: StatusNew})

	ref, err := svc.SetStatus(context.Background(), "r1", StatusNew)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Status != StatusNew {
		t.Errorf("Expected status unchanged, got %s", ref.Status)
	}
	if len(notif.changed) != 0 {
		t.Error("Expected no notification on no-op")
	}
}

func TestService_UpdateKeepsStatusAndCreatedAt(t *testing.T) {
	created := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(Referral{ID: "r1", PatientName: "Alice", Status: StatusAccepted, CreatedAt: created})

	updated, err := svc.Update(context.Background(), Referral{ID: "r1", PatientName: "Alice Moreau", Status: StatusNew})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusAccepted {
		t.Errorf("Expected update to keep status accepted, got %s", updated.Status)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Error("Expected update to keep created_at")
	}
	if repo.refs["r1"].PatientName != "Alice Moreau" {
		t.Error("Expected patient name persisted")
	}
}

func TestService_StatsFiltersByCriteria(t *testing.T) {
	day := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(
		Referral{ID: "r1", PatientName: "Alice", Status: StatusNew, CreatedAt: day},
		Referral{ID: "r2", PatientName: "Bob", Status: StatusArrived, CreatedAt: day.AddDate(0, 0, 5)},
	)

	to := day.AddDate(0, 0, 1)
	st, err := svc.Stats(context.Background(), Criteria{To: &to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Total != 1 {
		t.Errorf("Expected 1 referral in range, got %d", st.Total)
	}
}
