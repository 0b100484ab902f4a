package scheduling

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// The wire shape of an appointment is not stable: depending on the endpoint
// and the age of the client that wrote it, room/doctor/type arrive as bare
// ids, nested {id,name} objects, or assorted flat alias fields, with
// snake_case and camelCase coexisting. RawAppointment accepts all of them;
// Normalize is the single place that collapses them into the canonical
// Appointment. Nothing downstream of Normalize may look at raw fields.

// flexID decodes a JSON value that may be a string, a number, or null into
// its string form.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	// Numeric id: keep the integer text, dropping a fractional part if the
	// encoder produced one.
	s := string(b)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	*f = flexID(s)
	return nil
}

// reference decodes a field that may be a bare id, a nested {id,name}
// object, or null.
type reference struct {
	ID   string
	Name string
}

func (r *reference) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*r = reference{}
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			ID   flexID `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*r = reference{ID: string(obj.ID), Name: obj.Name}
		return nil
	}
	var id flexID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	*r = reference{ID: string(id)}
	return nil
}

// flexInt decodes a JSON value that may be a number, a numeric string, or
// null. OK is false when no usable number was present.
type flexInt struct {
	Value int
	OK    bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = flexInt{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = flexInt{}
		return nil
	}
	*f = flexInt{Value: int(v), OK: true}
	return nil
}

// RawAppointment is the loosely-typed appointment record as it appears on
// the wire. Unknown fields are ignored; every known field is optional.
type RawAppointment struct {
	ID flexID `json:"id"`

	PatientName string `json:"patient_name"`
	Patient     string `json:"patient"` // legacy payloads carry the name here

	Date string `json:"date"`
	Time string `json:"time"`

	DurationMinutes flexInt `json:"duration_minutes"`
	Duration        flexInt `json:"duration"`

	Status string `json:"status"`

	Room           reference `json:"room"`
	RoomID         flexID    `json:"room_id"`
	RoomIDCamel    flexID    `json:"roomId"`
	RoomLabel      string    `json:"room_label"`
	RoomTranslated string    `json:"room_translated"`
	RoomName       string    `json:"room_name"`

	Type     reference `json:"type"`
	TypeName string    `json:"type_name"`

	Physician       string    `json:"physician"`
	PhysicianID     flexID    `json:"physician_id"`
	Doctor          reference `json:"doctor"`
	DoctorID        flexID    `json:"doctor_id"`
	DoctorIDCamel   flexID    `json:"doctorId"`
	DoctorFullName  string    `json:"doctor_full_name"`
	DoctorFirstName string    `json:"doctor_first_name"`
	DoctorLastName  string    `json:"doctor_last_name"`
	DoctorName      string    `json:"doctor_name"`

	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
	Reason    string `json:"reason"`
	Insurance string `json:"insurance"`
	Referral  flexID `json:"referral"`
}

// Normalize collapses a raw wire record into the canonical Appointment.
// Every field resolution degrades to an empty value rather than failing, so
// Normalize never returns an error. It is pure and idempotent: feeding its
// own output back through (in canonical field names) yields the same record.
func Normalize(raw RawAppointment) Appointment {
	a := Appointment{
		ID:              string(raw.ID),
		PatientName:     firstNonEmpty(raw.PatientName, raw.Patient),
		Time:            normalizeClock(raw.Time),
		DurationMinutes: normalizeDuration(raw.DurationMinutes, raw.Duration),
		Status:          normalizeStatus(raw.Status),
		Phone:           raw.Phone,
		Email:           raw.Email,
		Notes:           firstNonEmpty(raw.Notes, raw.Reason),
		Insurance:       raw.Insurance,
		Referral:        string(raw.Referral),
	}

	if d, err := ParseDate(raw.Date); err == nil {
		a.Date = d
	}

	// Room id: explicit flat id fields win over whatever the room field
	// itself carries (nested object id or bare scalar).
	a.Room = firstNonEmpty(string(raw.RoomID), string(raw.RoomIDCamel), raw.Room.ID)

	// Room label resolves independently of the id; the em-dash placeholder is
	// applied at display time by RoomLabel, never stored.
	a.RoomName = firstNonEmpty(raw.RoomLabel, raw.RoomTranslated, raw.RoomName, raw.Room.Name)

	a.Type = firstNonEmpty(raw.TypeName, raw.Type.Name, raw.Type.ID)

	combined := strings.TrimSpace(strings.TrimSpace(raw.DoctorFirstName) + " " + strings.TrimSpace(raw.DoctorLastName))
	a.Physician = firstNonEmpty(raw.Physician, raw.DoctorFullName, combined, raw.DoctorName, raw.Doctor.Name)

	a.PhysicianID = firstNonEmpty(string(raw.PhysicianID), string(raw.DoctorID), string(raw.DoctorIDCamel), raw.Doctor.ID)

	return a
}

// NormalizeAll maps Normalize over a list, preserving order.
func NormalizeAll(raws []RawAppointment) []Appointment {
	out := make([]Appointment, len(raws))
	for i, r := range raws {
		out[i] = Normalize(r)
	}
	return out
}

// normalizeClock truncates a time-of-day string to "HH:MM". Anything that
// does not start with a parseable HH:MM becomes "00:00".
func normalizeClock(s string) string {
	if len(s) < 5 {
		return "00:00"
	}
	s = s[:5]
	if _, err := time.Parse("15:04", s); err != nil {
		return "00:00"
	}
	return s
}

func normalizeDuration(candidates ...flexInt) int {
	for _, c := range candidates {
		if c.OK && c.Value > 0 {
			return c.Value
		}
	}
	return DefaultDurationMinutes
}

// normalizeStatus maps wire statuses onto the closed Status set. The legacy
// backend wrote "canceled" where newer clients write "cancelled"; anything
// unrecognized degrades to pending, the collection's default state.
func normalizeStatus(s string) Status {
	if s == "canceled" {
		return StatusCancelled
	}
	if st := Status(s); st.Valid() {
		return st
	}
	return StatusPending
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
