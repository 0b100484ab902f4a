package scheduling

import "strings"

// Criteria is a compound appointment filter. An empty slice places no
// restriction on its field; a non-empty slice requires membership. All
// criteria combine with AND. Criteria is consumed read-only, so the zero
// value matches everything.
type Criteria struct {
	Rooms      []string
	Physicians []string // matched against PhysicianID
	Statuses   []Status
	Types      []string

	// Query is a case-insensitive free-text search over patient name,
	// physician, type and phone. Used by the table views, not the grid.
	Query string

	// From/To bound the appointment date, inclusive. A zero Date leaves the
	// bound open.
	From Date
	To   Date
}

// Empty reports whether the criteria place no restriction at all.
func (c Criteria) Empty() bool {
	return len(c.Rooms) == 0 && len(c.Physicians) == 0 && len(c.Statuses) == 0 &&
		len(c.Types) == 0 && c.Query == "" && c.From.IsZero() && c.To.IsZero()
}

// Matches reports whether a single appointment passes the criteria. An
// appointment whose field is unset fails any non-empty criterion on that
// field, since the empty value is never a member of the option list.
func (c Criteria) Matches(a Appointment) bool {
	if len(c.Rooms) > 0 && (a.Room == "" || !containsString(c.Rooms, a.Room)) {
		return false
	}
	if len(c.Physicians) > 0 && (a.PhysicianID == "" || !containsString(c.Physicians, a.PhysicianID)) {
		return false
	}
	if len(c.Statuses) > 0 && !containsStatus(c.Statuses, a.Status) {
		return false
	}
	if len(c.Types) > 0 && (a.Type == "" || !containsString(c.Types, a.Type)) {
		return false
	}
	if !c.From.IsZero() && a.Date.Before(c.From) {
		return false
	}
	if !c.To.IsZero() && a.Date.After(c.To) {
		return false
	}
	if c.Query != "" && !matchesQuery(a, c.Query) {
		return false
	}
	return true
}

// Filter returns the appointments visible under the criteria, preserving the
// relative input order. It never mutates its input.
func Filter(all []Appointment, c Criteria) []Appointment {
	if c.Empty() {
		out := make([]Appointment, len(all))
		copy(out, all)
		return out
	}
	out := make([]Appointment, 0, len(all))
	for _, a := range all {
		if c.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

func matchesQuery(a Appointment, query string) bool {
	haystack := strings.ToLower(a.PatientName + " " + a.Physician + " " + a.Type + " " + a.Phone)
	return strings.Contains(haystack, strings.ToLower(query))
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsStatus(set []Status, v Status) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
