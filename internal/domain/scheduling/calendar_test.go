package scheduling

import (
	"testing"
)

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	if len(slots) != 21 {
		t.Fatalf("expected 21 slots, got %d", len(slots))
	}
	if slots[0] != "08:00" {
		t.Errorf("expected first slot 08:00, got %q", slots[0])
	}
	if slots[1] != "08:30" {
		t.Errorf("expected second slot 08:30, got %q", slots[1])
	}
	if slots[len(slots)-1] != "18:00" {
		t.Errorf("expected last slot 18:00, got %q", slots[len(slots)-1])
	}
}

func cellAt(t *testing.T, cells []CellBucket, day Date, slot, room string) CellBucket {
	t.Helper()
	for _, c := range cells {
		if c.Day == day && c.Slot == slot && c.Room == room {
			return c
		}
	}
	t.Fatalf("no cell for day=%s slot=%q room=%q", day, slot, room)
	return CellBucket{}
}

func TestMaterialize_DayWithRooms(t *testing.T) {
	day := NewDate(2025, 2, 10)
	appts := []Appointment{
		{ID: "a1", Date: day, Time: "09:00", Room: "r1"},
		{ID: "a2", Date: day, Time: "09:00", Room: "r2"},
		{ID: "a3", Date: day, Time: "09:30", Room: "r1"},
		{ID: "off", Date: day.AddDays(1), Time: "09:00", Room: "r1"},
	}
	cells := Materialize(appts, ViewContext{Mode: ViewDay, Anchor: day}, []string{"r1", "r2"})

	if len(cells) != 21*2 {
		t.Fatalf("expected %d cells, got %d", 21*2, len(cells))
	}
	c := cellAt(t, cells, day, "09:00", "r1")
	if len(c.Appointments) != 1 || c.Appointments[0].ID != "a1" {
		t.Errorf("expected a1 in (09:00, r1), got %v", c.Appointments)
	}
	c = cellAt(t, cells, day, "09:00", "r2")
	if len(c.Appointments) != 1 || c.Appointments[0].ID != "a2" {
		t.Errorf("expected a2 in (09:00, r2), got %v", c.Appointments)
	}
	// Other-day appointments never leak into the grid.
	for _, c := range cells {
		for _, a := range c.Appointments {
			if a.ID == "off" {
				t.Error("appointment from another day bucketed into day view")
			}
		}
	}
}

func TestMaterialize_DayWithoutRoomsIsFlat(t *testing.T) {
	day := NewDate(2025, 2, 10)
	appts := []Appointment{
		{ID: "a1", Date: day, Time: "09:00", Room: "r1"},
		{ID: "a2", Date: day, Time: "09:00", Room: "r2"},
	}
	cells := Materialize(appts, ViewContext{Mode: ViewDay, Anchor: day}, nil)

	if len(cells) != 21 {
		t.Fatalf("expected 21 flat cells, got %d", len(cells))
	}
	c := cellAt(t, cells, day, "09:00", "")
	if len(c.Appointments) != 2 {
		t.Errorf("expected both appointments in the flat slot, got %d", len(c.Appointments))
	}
}

func TestWeekStart(t *testing.T) {
	// 2025-02-12 is a Wednesday; its week opens Sunday 2025-02-09.
	if got := WeekStart(NewDate(2025, 2, 12)); got != NewDate(2025, 2, 9) {
		t.Errorf("expected 2025-02-09, got %s", got)
	}
	// A Sunday anchors its own week.
	if got := WeekStart(NewDate(2025, 2, 9)); got != NewDate(2025, 2, 9) {
		t.Errorf("expected 2025-02-09, got %s", got)
	}
}

func TestMaterialize_WeekFullWidth(t *testing.T) {
	anchor := NewDate(2025, 2, 12) // Wednesday
	cells := Materialize(nil, ViewContext{Mode: ViewWeek, Anchor: anchor}, nil)
	if len(cells) != 21*7 {
		t.Fatalf("expected %d cells, got %d", 21*7, len(cells))
	}
	if cells[0].Day != NewDate(2025, 2, 9) {
		t.Errorf("expected week to open Sunday 2025-02-09, got %s", cells[0].Day)
	}
	if cells[6].Day != NewDate(2025, 2, 15) {
		t.Errorf("expected first row to end Saturday 2025-02-15, got %s", cells[6].Day)
	}
}

func TestVisibleWeekDays_Clamping(t *testing.T) {
	cases := []struct {
		name   string
		anchor Date
		width  int
		first  Date
		last   Date
	}{
		{"midweek 3-day window starts on anchor", NewDate(2025, 2, 12), 3, NewDate(2025, 2, 12), NewDate(2025, 2, 14)},
		{"saturday 3-day window clamps back", NewDate(2025, 2, 15), 3, NewDate(2025, 2, 13), NewDate(2025, 2, 15)},
		{"friday 3-day window clamps by one", NewDate(2025, 2, 14), 3, NewDate(2025, 2, 13), NewDate(2025, 2, 15)},
		{"single day is the anchor", NewDate(2025, 2, 12), 1, NewDate(2025, 2, 12), NewDate(2025, 2, 12)},
		{"saturday single day", NewDate(2025, 2, 15), 1, NewDate(2025, 2, 15), NewDate(2025, 2, 15)},
		{"full week ignores anchor position", NewDate(2025, 2, 15), 7, NewDate(2025, 2, 9), NewDate(2025, 2, 15)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days := visibleWeekDays(tc.anchor, tc.width)
			if len(days) != tc.width {
				t.Fatalf("expected %d days, got %d", tc.width, len(days))
			}
			if days[0] != tc.first {
				t.Errorf("expected first day %s, got %s", tc.first, days[0])
			}
			if days[len(days)-1] != tc.last {
				t.Errorf("expected last day %s, got %s", tc.last, days[len(days)-1])
			}
		})
	}
}

func TestMaterialize_WeekBucketsIgnoreRoom(t *testing.T) {
	anchor := NewDate(2025, 2, 12)
	appts := []Appointment{
		{ID: "a1", Date: anchor, Time: "10:00", Room: "r1"},
		{ID: "a2", Date: anchor, Time: "10:00", Room: RoomGeneral},
	}
	cells := Materialize(appts, ViewContext{Mode: ViewWeek, Anchor: anchor, VisibleDays: 7}, nil)
	c := cellAt(t, cells, anchor, "10:00", "")
	if len(c.Appointments) != 2 {
		t.Errorf("expected both rooms bucketed together, got %d", len(c.Appointments))
	}
}

func TestMonthGridStart(t *testing.T) {
	// February 2025 starts on a Saturday; the grid opens the preceding Sunday.
	if got := MonthGridStart(NewDate(2025, 2, 15)); got != NewDate(2025, 1, 26) {
		t.Errorf("expected 2025-01-26, got %s", got)
	}
	// June 2025 starts on a Sunday; the grid opens on the 1st itself.
	if got := MonthGridStart(NewDate(2025, 6, 20)); got != NewDate(2025, 6, 1) {
		t.Errorf("expected 2025-06-01, got %s", got)
	}
}

func TestMaterialize_MonthIsAlways42Cells(t *testing.T) {
	for _, anchor := range []Date{
		NewDate(2025, 2, 15), // 28-day month
		NewDate(2024, 2, 10), // leap February
		NewDate(2025, 6, 1),  // month starting on Sunday
		NewDate(2025, 8, 31), // 31-day month starting late in the week
	} {
		cells := Materialize(nil, ViewContext{Mode: ViewMonth, Anchor: anchor}, nil)
		if len(cells) != MonthGridDays {
			t.Errorf("anchor %s: expected 42 cells, got %d", anchor, len(cells))
		}
		for i := 1; i < len(cells); i++ {
			if cells[i].Day != cells[i-1].Day.AddDays(1) {
				t.Errorf("anchor %s: grid not contiguous at cell %d", anchor, i)
			}
		}
	}
}

func TestMaterialize_MonthCellCapAndOverflow(t *testing.T) {
	anchor := NewDate(2025, 2, 15)
	day := NewDate(2025, 2, 10)
	appts := make([]Appointment, 5)
	for i := range appts {
		appts[i] = Appointment{ID: string(rune('a' + i)), Date: day, Time: "09:00"}
	}
	cells := Materialize(appts, ViewContext{Mode: ViewMonth, Anchor: anchor}, nil)

	var cell CellBucket
	found := false
	for _, c := range cells {
		if c.Day == day {
			cell, found = c, true
		}
	}
	if !found {
		t.Fatal("day cell missing from month grid")
	}
	if len(cell.Appointments) != MonthCellCap {
		t.Errorf("expected %d listed appointments, got %d", MonthCellCap, len(cell.Appointments))
	}
	if cell.Overflow != 2 {
		t.Errorf("expected overflow 2, got %d", cell.Overflow)
	}
	if !cell.CurrentMonth {
		t.Error("anchor-month cell not flagged as current")
	}
}

func TestMaterialize_MonthMarksOutOfMonthCells(t *testing.T) {
	cells := Materialize(nil, ViewContext{Mode: ViewMonth, Anchor: NewDate(2025, 2, 15)}, nil)
	if cells[0].Day != NewDate(2025, 1, 26) {
		t.Fatalf("expected grid to open 2025-01-26, got %s", cells[0].Day)
	}
	if cells[0].CurrentMonth {
		t.Error("January tile flagged as current month")
	}
	last := cells[len(cells)-1]
	if last.Day != NewDate(2025, 3, 8) {
		t.Errorf("expected grid to close 2025-03-08, got %s", last.Day)
	}
	if last.CurrentMonth {
		t.Error("March tile flagged as current month")
	}
}

func TestMaterialize_Deterministic(t *testing.T) {
	anchor := NewDate(2025, 2, 12)
	appts := sampleAppointments()
	view := ViewContext{Mode: ViewWeek, Anchor: anchor, VisibleDays: 3}
	first := Materialize(appts, view, nil)
	second := Materialize(appts, view, nil)
	if len(first) != len(second) {
		t.Fatalf("cell counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Day != second[i].Day || first[i].Slot != second[i].Slot {
			t.Fatalf("cell order differs at %d", i)
		}
	}
}
