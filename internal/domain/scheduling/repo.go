package scheduling

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/docsched/docsched/internal/domain/doctor"
)

type Repository interface {
	// InsertRule stores r and sets its ID and timestamps.
	InsertRule(ctx context.Context, r *AppointmentRule) error
	InsertOccurrences(ctx context.Context, ruleID, doctorID uuid.UUID, occurrences []Interval) ([]ScheduledAppointment, error)
	// LockAndCheckOverlap locks the doctor for the rest of the transaction in
	// ctx and reports whether any stored occurrence overlaps occurrences.
	// It returns ErrDoctorNotFound when the doctor row does not exist.
	LockAndCheckOverlap(ctx context.Context, doctorID uuid.UUID, occurrences []Interval) (bool, error)
	// FetchOccurrencesOverlapping returns the doctor's stored occurrences that
	// intersect [from, to), grouped by the UTC date they start on.
	FetchOccurrencesOverlapping(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (map[civil.Date][]Interval, error)
	GetRule(ctx context.Context, id uuid.UUID) (*AppointmentRule, error)
	ListOccurrences(ctx context.Context, ruleID uuid.UUID) ([]ScheduledAppointment, error)
}

// DoctorReader loads the doctor a rule is booked against.
type DoctorReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

// Transactor runs fn in a single transaction carried by the context.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
