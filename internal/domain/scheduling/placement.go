package scheduling

import "fmt"

// Target is where a dragged appointment was dropped. Room and Day are
// pointers because not every grid supplies them: week view drops carry no
// room (the engine substitutes the "general" sentinel) and day view drops
// carry no day (the appointment keeps its current one).
type Target struct {
	Room *string
	Time string
	Day  *Date
}

// Reschedule returns a copy of a moved to the target. The three placement
// components (date, time, room) are replaced together in one step; any
// component the target omits falls back to the appointment's current value,
// so a partial drop never produces a half-moved appointment.
//
// The original appointment is never mutated.
func Reschedule(a Appointment, t Target) (Appointment, error) {
	if t.Time == "" {
		return Appointment{}, fmt.Errorf("reschedule appointment %s: target has no time slot", a.ID)
	}

	moved := a
	moved.Time = normalizeClock(t.Time)
	if t.Day != nil {
		moved.Date = *t.Day
	}
	if t.Room != nil {
		moved.Room = *t.Room
	} else if moved.Room == "" {
		moved.Room = RoomGeneral
	}
	// Only the placement triple moves. RoomName may lag the new room until
	// the next normalize pass resolves it; every other field is untouched.
	return moved, nil
}

// RescheduleChanged reports whether applying t to a would actually move it.
// Dropping an appointment back on its own cell is a no-op the coordinator
// can skip instead of issuing a mutation.
func RescheduleChanged(a Appointment, t Target) bool {
	moved, err := Reschedule(a, t)
	if err != nil {
		return false
	}
	return moved.Date != a.Date || moved.Time != a.Time || moved.Room != a.Room
}
