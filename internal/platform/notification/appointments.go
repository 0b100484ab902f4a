package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/domain/scheduling"
)

// AppointmentNotifier bridges scheduling events to outbound notifications.
// Sends are best-effort: a delivery failure is logged and never surfaces to
// the booking flow.
type AppointmentNotifier struct {
	mgr *Manager
	log zerolog.Logger
}

func NewAppointmentNotifier(mgr *Manager, log zerolog.Logger) *AppointmentNotifier {
	return &AppointmentNotifier{
		mgr: mgr,
		log: log.With().Str("component", "notification.appointments").Logger(),
	}
}

func (n *AppointmentNotifier) AppointmentBooked(ctx context.Context, a scheduling.Appointment) {
	n.send(ctx, "appointment-confirmed", a)
}

func (n *AppointmentNotifier) AppointmentRescheduled(ctx context.Context, a scheduling.Appointment) {
	n.send(ctx, "appointment-rescheduled", a)
}

func (n *AppointmentNotifier) AppointmentCancelled(ctx context.Context, a scheduling.Appointment) {
	n.send(ctx, "appointment-cancelled", a)
}

func (n *AppointmentNotifier) send(ctx context.Context, templateID string, a scheduling.Appointment) {
	if a.Email == "" {
		return
	}
	data := map[string]string{
		"patient_name": a.PatientName,
		"date":         a.Date.String(),
		"time":         a.Time,
		"physician":    a.Physician,
		"room":         a.RoomLabel(),
	}
	if _, err := n.mgr.SendFromTemplate(ctx, templateID, data, a.Email); err != nil {
		n.log.Warn().Err(err).
			Str("template", templateID).
			Str("appointment_id", a.ID).
			Msg("notification delivery failed")
	}
}
