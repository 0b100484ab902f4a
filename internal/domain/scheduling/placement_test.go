package scheduling

import "testing"

func baseAppointment() Appointment {
	return Appointment{
		ID:     "a1",
		Date:   NewDate(2025, 2, 10),
		Time:   "09:00",
		Room:   "r1",
		Status: StatusConfirmed,
	}
}

func TestReschedule_FullMove(t *testing.T) {
	a := baseAppointment()
	room := "r2"
	day := NewDate(2025, 2, 12)
	moved, err := Reschedule(a, Target{Room: &room, Time: "14:30", Day: &day})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.Date != day || moved.Time != "14:30" || moved.Room != "r2" {
		t.Errorf("expected full move, got date=%s time=%s room=%s", moved.Date, moved.Time, moved.Room)
	}
	if moved.Status != StatusConfirmed || moved.ID != "a1" {
		t.Error("non-placement fields must survive a move")
	}
}

func TestReschedule_MissingDayKeepsCurrent(t *testing.T) {
	a := baseAppointment()
	room := "r2"
	moved, err := Reschedule(a, Target{Room: &room, Time: "14:30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.Date != a.Date {
		t.Errorf("expected date to stay %s, got %s", a.Date, moved.Date)
	}
}

func TestReschedule_MissingRoomKeepsCurrent(t *testing.T) {
	a := baseAppointment()
	moved, err := Reschedule(a, Target{Time: "14:30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.Room != "r1" {
		t.Errorf("expected room to stay r1, got %s", moved.Room)
	}
}

func TestReschedule_NoRoomAnywhereGetsGeneral(t *testing.T) {
	a := baseAppointment()
	a.Room = ""
	moved, err := Reschedule(a, Target{Time: "14:30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.Room != RoomGeneral {
		t.Errorf("expected %q, got %q", RoomGeneral, moved.Room)
	}
}

func TestReschedule_TouchesOnlyPlacementTriple(t *testing.T) {
	a := baseAppointment()
	a.RoomName = "Salle A"
	a.Notes = "bring referral letter"
	room := "r2"
	day := NewDate(2025, 2, 12)
	moved, err := Reschedule(a, Target{Room: &room, Time: "10:30", Day: &day})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.Room != "r2" || moved.Time != "10:30" || moved.Date != day {
		t.Fatalf("placement triple not applied: %+v", moved)
	}
	// Restore the triple: everything else must be byte-identical.
	moved.Room = a.Room
	moved.Time = a.Time
	moved.Date = a.Date
	if moved != a {
		t.Errorf("fields outside the placement triple changed: %+v", moved)
	}
}

func TestReschedule_MissingTimeFails(t *testing.T) {
	if _, err := Reschedule(baseAppointment(), Target{}); err == nil {
		t.Error("expected error for target without a time")
	}
}

func TestReschedule_TruncatesSecondsAndNeverMutatesInput(t *testing.T) {
	a := baseAppointment()
	moved, err := Reschedule(a, Target{Time: "14:30:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.Time != "14:30" {
		t.Errorf("expected 14:30, got %q", moved.Time)
	}
	if a.Time != "09:00" || a.Room != "r1" {
		t.Error("input appointment was mutated")
	}
}

func TestRescheduleChanged(t *testing.T) {
	a := baseAppointment()
	if RescheduleChanged(a, Target{Time: "09:00"}) {
		t.Error("drop on own cell must not count as a change")
	}
	if !RescheduleChanged(a, Target{Time: "09:30"}) {
		t.Error("time change must count as a change")
	}
	room := "r2"
	if !RescheduleChanged(a, Target{Room: &room, Time: "09:00"}) {
		t.Error("room change must count as a change")
	}
	if RescheduleChanged(a, Target{}) {
		t.Error("invalid target reports no change")
	}
}
