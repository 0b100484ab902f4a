package referral

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("referral not found")
	ErrBadTransition = errors.New("invalid referral status transition")
)

type Repo interface {
	List(ctx context.Context, c Criteria) ([]Referral, error)
	Get(ctx context.Context, id string) (Referral, error)
	Create(ctx context.Context, r Referral) error
	Update(ctx context.Context, r Referral) error
	Delete(ctx context.Context, id string) error
}
