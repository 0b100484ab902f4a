package referral

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier is told when a referral changes status so the patient can be
// kept in the loop. Implementations must not block the caller.
type Notifier interface {
	ReferralStatusChanged(ctx context.Context, r Referral)
}

type Service struct {
	repo  Repo
	notif Notifier
	log   zerolog.Logger
}

func NewService(repo Repo, notif Notifier, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		notif: notif,
		log:   log.With().Str("component", "referral-service").Logger(),
	}
}

func (s *Service) List(ctx context.Context, c Criteria) ([]Referral, error) {
	return s.repo.List(ctx, c)
}

func (s *Service) Get(ctx context.Context, id string) (Referral, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, ref Referral) (Referral, error) {
	ref.PatientName = strings.TrimSpace(ref.PatientName)
	if ref.PatientName == "" {
		return Referral{}, errors.New("patient name is required")
	}
	if ref.ID == "" {
		ref.ID = uuid.NewString()
	}
	if ref.Status == "" {
		ref.Status = StatusNew
	}
	if !ref.Status.Valid() {
		return Referral{}, fmt.Errorf("invalid referral status %q", ref.Status)
	}
	if err := s.repo.Create(ctx, ref); err != nil {
		return Referral{}, err
	}
	s.log.Info().Str("referral_id", ref.ID).Str("status", string(ref.Status)).Msg("Referral created")
	return ref, nil
}

func (s *Service) Update(ctx context.Context, ref Referral) (Referral, error) {
	cur, err := s.repo.Get(ctx, ref.ID)
	if err != nil {
		return Referral{}, err
	}
	// Status moves through SetStatus only, so transitions stay checked.
	ref.Status = cur.Status
	ref.CreatedAt = cur.CreatedAt
	if strings.TrimSpace(ref.PatientName) == "" {
		return Referral{}, errors.New("patient name is required")
	}
	if err := s.repo.Update(ctx, ref); err != nil {
		return Referral{}, err
	}
	return ref, nil
}

// SetStatus advances a referral, enforcing the transition table. The
// patient is notified after the store accepts the change.
func (s *Service) SetStatus(ctx context.Context, id string, next Status) (Referral, error) {
	if !next.Valid() {
		return Referral{}, fmt.Errorf("invalid referral status %q", next)
	}
	ref, err := s.repo.Get(ctx, id)
	if err != nil {
		return Referral{}, err
	}
	if ref.Status == next {
		return ref, nil
	}
	if !ref.Status.CanTransition(next) {
		return Referral{}, fmt.Errorf("%w: %s to %s", ErrBadTransition, ref.Status, next)
	}
	ref.Status = next
	if err := s.repo.Update(ctx, ref); err != nil {
		return Referral{}, err
	}
	s.log.Info().Str("referral_id", ref.ID).Str("status", string(next)).Msg("Referral status changed")
	if s.notif != nil {
		s.notif.ReferralStatusChanged(ctx, ref)
	}
	return ref, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context, c Criteria) (Stats, error) {
	refs, err := s.repo.List(ctx, c)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(refs), nil
}
