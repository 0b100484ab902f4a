// Package lookup serves the clinic's reference data: the rooms, physicians
// and appointment types the calendar is built from.
package lookup

import "time"

// Room is a bookable clinic room, one column of the desktop day grid.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Physician is a practitioner appointments can be filtered by.
type Physician struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Specialty string    `json:"specialty,omitempty"`
	Color     string    `json:"color,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentType labels a visit kind and carries its default length.
type AppointmentType struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	Color           string    `json:"color,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
