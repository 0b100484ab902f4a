package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// Status is the closed set of appointment states. Any state is reachable
// from any other; a change always replaces the previous value outright.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusToCall    Status = "to_call"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var validStatuses = map[Status]bool{
	StatusPending: true, StatusConfirmed: true, StatusToCall: true,
	StatusCancelled: true, StatusCompleted: true,
}

// Valid reports whether s is one of the known appointment statuses.
func (s Status) Valid() bool { return validStatuses[s] }

// Statuses returns all valid statuses in display order.
func Statuses() []Status {
	return []Status{StatusConfirmed, StatusPending, StatusToCall, StatusCancelled, StatusCompleted}
}

const (
	// DefaultDurationMinutes is assumed when the wire payload carries no
	// usable duration.
	DefaultDurationMinutes = 30

	// RoomGeneral is the sentinel room id used by views that do not bind an
	// appointment to a physical room (week and month grids).
	RoomGeneral = "general"

	// RoomPlaceholder is the display label used when neither a room name nor
	// a room id could be resolved.
	RoomPlaceholder = "—"
)

// Date is a calendar date with no time component and no zone. The calendar
// operates purely on local wall-clock dates, so Date is comparable with ==
// and safe as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf extracts the calendar date of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses "2006-01-02". A trailing time component (as in
// "2025-01-10T00:00:00") is ignored.
func ParseDate(s string) (Date, error) {
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date. UTC keeps day arithmetic free of
// daylight-saving anomalies.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string { return d.Time().Format("2006-01-02") }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.Time().After(o.Time()) }

// MarshalJSON encodes the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "2006-01-02" with an optional time suffix. Empty and
// null decode to the zero Date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Appointment is the canonical, normalized representation of a scheduled
// visit, independent of the wire format it arrived in. Date, Time and Room
// together place it on the calendar grid; the triple is not required to be
// unique across the collection.
type Appointment struct {
	ID              string `json:"id"`
	PatientName     string `json:"patient_name"`
	Date            Date   `json:"date"`
	Time            string `json:"time"` // "HH:MM", quantized to the slot grid
	DurationMinutes int    `json:"duration_minutes"`
	Status          Status `json:"status"`

	Room     string `json:"room"`
	RoomName string `json:"room_name,omitempty"`

	Type        string `json:"type,omitempty"`
	Physician   string `json:"physician,omitempty"`
	PhysicianID string `json:"physician_id,omitempty"`

	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Insurance string `json:"insurance,omitempty"`
	Referral  string `json:"referral,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// RoomLabel returns the display label for the appointment's room.
func (a Appointment) RoomLabel() string {
	if a.RoomName != "" {
		return a.RoomName
	}
	if a.Room != "" {
		return a.Room
	}
	return RoomPlaceholder
}
