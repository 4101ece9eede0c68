package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docsched/docsched/internal/domain/doctor"
	"github.com/docsched/docsched/pkg/calendar"
)

// Service creates appointment rules and answers availability queries.
type Service struct {
	repo        Repository
	doctors     DoctorReader
	tx          Transactor
	horizonDays int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewService returns a Service that schedules at most horizonDays ahead.
func NewService(repo Repository, doctors DoctorReader, tx Transactor, horizonDays int, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		doctors:     doctors,
		tx:          tx,
		horizonDays: horizonDays,
		now:         time.Now,
		logger:      logger.With().Str("component", "scheduling-service").Logger(),
	}
}

// Horizon is the latest instant an occurrence may be scheduled into.
func (s *Service) Horizon() time.Time {
	return s.now().UTC().AddDate(0, 0, s.horizonDays)
}

func (s *Service) loadDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if errors.Is(err, doctor.ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load doctor %s: %w", id, err)
	}
	return d, nil
}

// CreateAppointment validates req, expands it up to the horizon and stores the
// rule together with all of its occurrences, or nothing when any of them
// overlaps an existing booking of the doctor.
func (s *Service) CreateAppointment(ctx context.Context, req CreateRuleRequest) (*AppointmentRule, error) {
	rule, err := req.Rule()
	if err != nil {
		return nil, err
	}
	now := s.now()
	if earliest := calendar.Today(now).AddDays(-1); rule.Date.Before(earliest) {
		return nil, fmt.Errorf("%w: date must not be before %s", ErrInvalidRule, earliest)
	}

	doc, err := s.loadDoctor(ctx, rule.DoctorID)
	if err != nil {
		return nil, err
	}
	if limit, ok := doc.MaxSessionDuration(); ok && rule.Duration > limit {
		return nil, fmt.Errorf("%w: %s > %s", ErrSessionDurationExceeded, rule.Duration, limit)
	}

	occurrences, err := Expand(rule, s.Horizon())
	if err != nil {
		return nil, err
	}

	stored := storedRule(rule)
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		conflict, err := s.repo.LockAndCheckOverlap(ctx, rule.DoctorID, occurrences)
		if err != nil {
			return err
		}
		if conflict {
			return ErrScheduleNotAvailable
		}
		if err := s.repo.InsertRule(ctx, stored); err != nil {
			return fmt.Errorf("insert rule: %w", err)
		}
		appts, err := s.repo.InsertOccurrences(ctx, stored.ID, rule.DoctorID, occurrences)
		if err != nil {
			return fmt.Errorf("insert occurrences: %w", err)
		}
		stored.Appointments = appts
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrScheduleNotAvailable) {
			s.logger.Info().
				Str("doctor_id", rule.DoctorID.String()).
				Str("schedule_type", string(stored.ScheduleType)).
				Int("occurrences", len(occurrences)).
				Msg("appointment rule rejected: overlaps existing booking")
		}
		return nil, err
	}

	s.logger.Debug().
		Str("rule_id", stored.ID.String()).
		Str("doctor_id", stored.DoctorID.String()).
		Str("schedule_type", string(stored.ScheduleType)).
		Int("occurrences", len(stored.Appointments)).
		Msg("appointment rule created")
	return stored, nil
}

// GetFreeIntervals returns the free slots of the doctor for every date from
// since to until inclusive. The range is clamped to today and the horizon
// date; a zero since or until leaves that end at its clamp. A range that is
// empty after clamping yields an empty map.
func (s *Service) GetFreeIntervals(ctx context.Context, doctorID uuid.UUID, since, until civil.Date) (map[civil.Date][]Interval, error) {
	today := calendar.Today(s.now())
	last := civil.DateOf(s.Horizon())
	if since.IsZero() || since.Before(today) {
		since = today
	}
	if until.IsZero() || until.After(last) {
		until = last
	}

	result := make(map[civil.Date][]Interval)
	dates, err := calendar.IterateBetweenDates(since, until)
	if errors.Is(err, calendar.ErrInvalidRange) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	doc, err := s.loadDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	// A window that spans midnight can be blocked by a booking that starts on
	// the neighbouring day, so fetch one extra day either side.
	booked, err := s.repo.FetchOccurrencesOverlapping(ctx, doctorID,
		calendar.At(since.AddDays(-1), civil.Time{}),
		calendar.At(until.AddDays(2), civil.Time{}))
	if err != nil {
		return nil, fmt.Errorf("fetch occurrences: %w", err)
	}

	for d := range dates {
		var nearby []Interval
		nearby = append(nearby, booked[d.AddDays(-1)]...)
		nearby = append(nearby, booked[d]...)
		nearby = append(nearby, booked[d.AddDays(1)]...)
		result[d] = CarveSlots(d, doc.AvailableTimeStart, doc.AvailableTimeEnd, nearby)
	}
	return result, nil
}

// GetAppointment returns a stored rule with its occurrences.
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentRule, error) {
	rule, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	appts, err := s.repo.ListOccurrences(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}
	rule.Appointments = appts
	return rule, nil
}
