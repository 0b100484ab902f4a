package scheduling

import "fmt"

// ViewMode selects the calendar grid shape.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	return m == ViewDay || m == ViewWeek || m == ViewMonth
}

const (
	// SlotMinutes is the grid quantum: appointments snap to half-hour slots.
	SlotMinutes = 30

	slotFirstHour = 8  // grid opens 08:00
	slotLastHour  = 18 // last row is 18:00

	// MonthGridDays is the fixed month-grid size: six full weeks, so the
	// grid always tiles whole weeks across the month boundary.
	MonthGridDays = 42

	// MonthCellCap is how many appointments a month cell enumerates before
	// collapsing the rest into an overflow count.
	MonthCellCap = 3
)

// TimeSlots returns the ordered day/week grid rows: every half hour from
// 08:00 through 18:00.
func TimeSlots() []string {
	slots := make([]string, 0, (slotLastHour-slotFirstHour)*60/SlotMinutes+1)
	for h := slotFirstHour; h <= slotLastHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
		if h < slotLastHour {
			slots = append(slots, fmt.Sprintf("%02d:30", h))
		}
	}
	return slots
}

// ViewContext identifies what the calendar is looking at.
type ViewContext struct {
	Mode   ViewMode `json:"mode"`
	Anchor Date     `json:"anchor"`

	// VisibleDays is the week-view window width in days (1, 3 or 7),
	// narrowing with the viewport. Zero or out-of-range means the full week.
	// Other modes ignore it.
	VisibleDays int `json:"visible_days,omitempty"`
}

// CellBucket is one rendered grid cell: a (day, slot, room) coordinate plus
// the appointments that landed in it. Slot is empty in month mode; Room is
// empty outside desktop day mode.
type CellBucket struct {
	Day          Date          `json:"day"`
	Slot         string        `json:"slot,omitempty"`
	Room         string        `json:"room,omitempty"`
	Appointments []Appointment `json:"appointments"`

	// Overflow counts month-cell entries beyond MonthCellCap; the caller
	// renders it as a "+N" summary instead of enumerating them.
	Overflow int `json:"overflow,omitempty"`

	// CurrentMonth marks month cells that belong to the anchor month rather
	// than the leading/trailing tiles.
	CurrentMonth bool `json:"current_month,omitempty"`
}

// Materialize computes the full set of grid cells for the view and buckets
// the given (already filtered) appointments into them. Empty cells are
// included so the caller can render the whole grid. It is a pure function:
// identical inputs always yield identical buckets, in a deterministic order
// (rows top-to-bottom, columns left-to-right).
//
// rooms lists the day-view columns in display order; an empty list collapses
// day view to a single flat per-slot column, which is how narrow viewports
// render it. Week and month views ignore rooms entirely, consistent with the
// "general" room sentinel their created appointments carry.
//
// Mode is a closed enumeration; an unknown mode is a programming error and
// panics.
func Materialize(appts []Appointment, view ViewContext, rooms []string) []CellBucket {
	switch view.Mode {
	case ViewDay:
		return materializeDay(appts, view.Anchor, rooms)
	case ViewWeek:
		return materializeWeek(appts, view.Anchor, view.VisibleDays)
	case ViewMonth:
		return materializeMonth(appts, view.Anchor)
	default:
		panic(fmt.Sprintf("scheduling: unknown view mode %q", view.Mode))
	}
}

func materializeDay(appts []Appointment, anchor Date, rooms []string) []CellBucket {
	byTime := make(map[string][]Appointment)
	for _, a := range appts {
		if a.Date == anchor {
			byTime[a.Time] = append(byTime[a.Time], a)
		}
	}

	slots := TimeSlots()
	if len(rooms) == 0 {
		cells := make([]CellBucket, 0, len(slots))
		for _, slot := range slots {
			cells = append(cells, CellBucket{Day: anchor, Slot: slot, Appointments: byTime[slot]})
		}
		return cells
	}

	cells := make([]CellBucket, 0, len(slots)*len(rooms))
	for _, slot := range slots {
		for _, room := range rooms {
			var items []Appointment
			for _, a := range byTime[slot] {
				if a.Room == room {
					items = append(items, a)
				}
			}
			cells = append(cells, CellBucket{Day: anchor, Slot: slot, Room: room, Appointments: items})
		}
	}
	return cells
}

func materializeWeek(appts []Appointment, anchor Date, visibleDays int) []CellBucket {
	if visibleDays <= 0 || visibleDays > 7 {
		visibleDays = 7
	}
	days := visibleWeekDays(anchor, visibleDays)

	byCell := make(map[Date]map[string][]Appointment)
	for _, a := range appts {
		if byCell[a.Date] == nil {
			byCell[a.Date] = make(map[string][]Appointment)
		}
		byCell[a.Date][a.Time] = append(byCell[a.Date][a.Time], a)
	}

	slots := TimeSlots()
	cells := make([]CellBucket, 0, len(slots)*len(days))
	for _, slot := range slots {
		for _, day := range days {
			cells = append(cells, CellBucket{Day: day, Slot: slot, Appointments: byCell[day][slot]})
		}
	}
	return cells
}

// visibleWeekDays returns the contiguous window of the anchor's week shown
// at the given width. The window always contains the anchor and is clamped
// so it never runs past the week's last day.
func visibleWeekDays(anchor Date, width int) []Date {
	start := WeekStart(anchor)
	anchorIdx := int(anchor.Weekday())
	maxStart := 7 - width
	startIdx := anchorIdx
	if startIdx > maxStart {
		startIdx = maxStart
	}
	days := make([]Date, width)
	for i := range days {
		days[i] = start.AddDays(startIdx + i)
	}
	return days
}

func materializeMonth(appts []Appointment, anchor Date) []CellBucket {
	byDay := make(map[Date][]Appointment)
	for _, a := range appts {
		byDay[a.Date] = append(byDay[a.Date], a)
	}

	start := MonthGridStart(anchor)
	cells := make([]CellBucket, 0, MonthGridDays)
	for i := 0; i < MonthGridDays; i++ {
		day := start.AddDays(i)
		items := byDay[day]
		overflow := 0
		if len(items) > MonthCellCap {
			overflow = len(items) - MonthCellCap
			items = items[:MonthCellCap]
		}
		cells = append(cells, CellBucket{
			Day:          day,
			Appointments: items,
			Overflow:     overflow,
			CurrentMonth: day.Month == anchor.Month && day.Year == anchor.Year,
		})
	}
	return cells
}

// WeekStart returns the Sunday opening the week containing d.
func WeekStart(d Date) Date {
	return d.AddDays(-int(d.Weekday()))
}

// MonthGridStart returns the first cell of d's month grid: the Sunday of the
// week containing the first of the month.
func MonthGridStart(d Date) Date {
	first := NewDate(d.Year, d.Month, 1)
	return WeekStart(first)
}
