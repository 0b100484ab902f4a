package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/domain/referral"
)

// ReferralNotifier tells patients when their referral moves forward.
// Best-effort like AppointmentNotifier.
type ReferralNotifier struct {
	mgr *Manager
	log zerolog.Logger
}

func NewReferralNotifier(mgr *Manager, log zerolog.Logger) *ReferralNotifier {
	return &ReferralNotifier{
		mgr: mgr,
		log: log.With().Str("component", "notification.referrals").Logger(),
	}
}

func (n *ReferralNotifier) ReferralStatusChanged(ctx context.Context, r referral.Referral) {
	if r.Email == "" {
		return
	}
	specialist := r.Physician
	if specialist == "" {
		specialist = r.TargetSpecialty
	}
	data := map[string]string{
		"patient_name": r.PatientName,
		"specialist":   specialist,
		"status":       string(r.Status),
	}
	if _, err := n.mgr.SendFromTemplate(ctx, "referral-update", data, r.Email); err != nil {
		n.log.Warn().Err(err).
			Str("referral_id", r.ID).
			Msg("notification delivery failed")
	}
}
