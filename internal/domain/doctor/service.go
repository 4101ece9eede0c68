package doctor

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrInvalid wraps every validation failure returned by CreateDoctor.
var ErrInvalid = errors.New("invalid doctor")

const (
	maxNameLength    = 100
	maxSummaryLength = 300
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if utf8.RuneCountInString(d.Name) > maxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalid, maxNameLength)
	}
	if d.Summary != nil && utf8.RuneCountInString(*d.Summary) > maxSummaryLength {
		return fmt.Errorf("%w: summary must be at most %d characters", ErrInvalid, maxSummaryLength)
	}
	if d.MaxSessionMinutes != nil && *d.MaxSessionMinutes <= 0 {
		return fmt.Errorf("%w: max_session_minutes must be positive", ErrInvalid)
	}
	if !d.AvailableTimeStart.IsValid() || !d.AvailableTimeEnd.IsValid() {
		return fmt.Errorf("%w: available time must be a valid clock time", ErrInvalid)
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.repo.List(ctx)
}
