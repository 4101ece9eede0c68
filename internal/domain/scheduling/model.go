package scheduling

import (
	"fmt"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type ScheduleType string

const (
	ScheduleSole           ScheduleType = "sole"
	ScheduleWeekday        ScheduleType = "weekday"
	ScheduleMonthly        ScheduleType = "monthly"
	ScheduleMonthlyWeekday ScheduleType = "monthly_weekday"
)

// WeekDay numbers the days of the week from Monday (0) to Sunday (6).
type WeekDay int

const (
	Monday WeekDay = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (d WeekDay) Valid() bool { return d >= Monday && d <= Sunday }

// Weekday converts d to the time package's Sunday-first numbering.
func (d WeekDay) Weekday() time.Weekday { return time.Weekday((int(d) + 1) % 7) }

const (
	maxPatientNameLength = 100
	maxDuration          = 24 * time.Hour
)

// Recurrence is the schedule-type specific part of a rule. It is one of
// Sole, Weekly, Monthly or MonthlyWeekday.
type Recurrence interface {
	Type() ScheduleType
	isRecurrence()
}

// Sole is a single appointment on the rule's date.
type Sole struct{}

// Weekly repeats every seven days from the rule's date.
type Weekly struct{ day WeekDay }

// Monthly repeats on a fixed day of every month, clamped to the month's length.
type Monthly struct{ day int }

// MonthlyWeekday repeats on the n-th given weekday of every month.
type MonthlyWeekday struct {
	day  WeekDay
	week int
}

func NewWeekly(day WeekDay) (Weekly, error) {
	if !day.Valid() {
		return Weekly{}, fmt.Errorf("%w: day_of_week must be between 0 and 6", ErrInvalidRule)
	}
	return Weekly{day: day}, nil
}

func NewMonthly(day int) (Monthly, error) {
	if day < 1 || day > 31 {
		return Monthly{}, fmt.Errorf("%w: day_of_month must be between 1 and 31", ErrInvalidRule)
	}
	return Monthly{day: day}, nil
}

func NewMonthlyWeekday(day WeekDay, week int) (MonthlyWeekday, error) {
	if !day.Valid() {
		return MonthlyWeekday{}, fmt.Errorf("%w: day_of_week must be between 0 and 6", ErrInvalidRule)
	}
	if week < 1 || week > 4 {
		return MonthlyWeekday{}, fmt.Errorf("%w: week_number must be between 1 and 4", ErrInvalidRule)
	}
	return MonthlyWeekday{day: day, week: week}, nil
}

func (Sole) Type() ScheduleType           { return ScheduleSole }
func (Weekly) Type() ScheduleType         { return ScheduleWeekday }
func (Monthly) Type() ScheduleType        { return ScheduleMonthly }
func (MonthlyWeekday) Type() ScheduleType { return ScheduleMonthlyWeekday }

func (Sole) isRecurrence()           {}
func (Weekly) isRecurrence()         {}
func (Monthly) isRecurrence()        {}
func (MonthlyWeekday) isRecurrence() {}

func (w Weekly) DayOfWeek() WeekDay         { return w.day }
func (m Monthly) DayOfMonth() int           { return m.day }
func (m MonthlyWeekday) DayOfWeek() WeekDay { return m.day }
func (m MonthlyWeekday) WeekNumber() int    { return m.week }

// Rule is a validated appointment rule ready for expansion.
type Rule struct {
	DoctorID    uuid.UUID
	PatientName string
	Date        civil.Date
	StartAt     civil.Time
	Duration    time.Duration
	Recurrence  Recurrence
}

// CreateRuleRequest is the client payload for a new rule. Exactly the fields
// required by ScheduleType may be set.
type CreateRuleRequest struct {
	DoctorID        uuid.UUID    `json:"doctor_id"`
	PatientName     string       `json:"patient_name"`
	ScheduleType    ScheduleType `json:"schedule_type"`
	Date            civil.Date   `json:"date"`
	DayOfWeek       *int         `json:"day_of_week,omitempty"`
	DayOfMonth      *int         `json:"day_of_month,omitempty"`
	WeekNumber      *int         `json:"week_number,omitempty"`
	StartAt         civil.Time   `json:"start_at"`
	DurationMinutes int          `json:"duration_minutes"`
}

// Rule validates the request and builds the matching Recurrence variant.
func (r CreateRuleRequest) Rule() (Rule, error) {
	switch {
	case r.DoctorID == uuid.Nil:
		return Rule{}, fmt.Errorf("%w: doctor_id is required", ErrInvalidRule)
	case r.PatientName == "":
		return Rule{}, fmt.Errorf("%w: patient_name is required", ErrInvalidRule)
	case utf8.RuneCountInString(r.PatientName) > maxPatientNameLength:
		return Rule{}, fmt.Errorf("%w: patient_name must be at most %d characters", ErrInvalidRule, maxPatientNameLength)
	case !r.Date.IsValid():
		return Rule{}, fmt.Errorf("%w: date is required", ErrInvalidRule)
	case !r.StartAt.IsValid():
		return Rule{}, fmt.Errorf("%w: start_at is not a valid time", ErrInvalidRule)
	}
	duration := time.Duration(r.DurationMinutes) * time.Minute
	if duration <= 0 || duration > maxDuration {
		return Rule{}, fmt.Errorf("%w: duration_minutes must be between 1 and %d", ErrInvalidRule, int(maxDuration/time.Minute))
	}

	rec, err := r.recurrence()
	if err != nil {
		return Rule{}, err
	}
	return Rule{
		DoctorID:    r.DoctorID,
		PatientName: r.PatientName,
		Date:        r.Date,
		StartAt:     r.StartAt,
		Duration:    duration,
		Recurrence:  rec,
	}, nil
}

func (r CreateRuleRequest) recurrence() (Recurrence, error) {
	set := func(name string, v *int, want bool) error {
		switch {
		case want && v == nil:
			return fmt.Errorf("%w: %s is required for schedule_type %s", ErrInvalidRule, name, r.ScheduleType)
		case !want && v != nil:
			return fmt.Errorf("%w: %s is not allowed for schedule_type %s", ErrInvalidRule, name, r.ScheduleType)
		}
		return nil
	}
	check := func(dow, dom, week bool) error {
		if err := set("day_of_week", r.DayOfWeek, dow); err != nil {
			return err
		}
		if err := set("day_of_month", r.DayOfMonth, dom); err != nil {
			return err
		}
		return set("week_number", r.WeekNumber, week)
	}

	switch r.ScheduleType {
	case ScheduleSole:
		if err := check(false, false, false); err != nil {
			return nil, err
		}
		return Sole{}, nil
	case ScheduleWeekday:
		if err := check(true, false, false); err != nil {
			return nil, err
		}
		return NewWeekly(WeekDay(*r.DayOfWeek))
	case ScheduleMonthly:
		if err := check(false, true, false); err != nil {
			return nil, err
		}
		return NewMonthly(*r.DayOfMonth)
	case ScheduleMonthlyWeekday:
		if err := check(true, false, true); err != nil {
			return nil, err
		}
		return NewMonthlyWeekday(WeekDay(*r.DayOfWeek), *r.WeekNumber)
	default:
		return nil, fmt.Errorf("%w: unknown schedule_type %q", ErrInvalidRule, r.ScheduleType)
	}
}

// Interval is a time range in UTC. It describes both occurrences and free slots.
type Interval struct {
	Start time.Time `json:"start_at"`
	End   time.Time `json:"end_at"`
}

// ScheduledAppointment is one stored occurrence of a rule.
type ScheduledAppointment struct {
	ID       uuid.UUID `json:"id"`
	RuleID   uuid.UUID `json:"appointment_rule_id"`
	DoctorID uuid.UUID `json:"doctor_id"`
	StartAt  time.Time `json:"start_at"`
	EndAt    time.Time `json:"end_at"`
}

// AppointmentRule maps to the appointment_rules table and is the API
// representation of a stored rule.
type AppointmentRule struct {
	ID              uuid.UUID              `json:"id"`
	DoctorID        uuid.UUID              `json:"doctor_id"`
	PatientName     string                 `json:"patient_name"`
	ScheduleType    ScheduleType           `json:"schedule_type"`
	Date            civil.Date             `json:"date"`
	DayOfWeek       *int                   `json:"day_of_week"`
	DayOfMonth      *int                   `json:"day_of_month"`
	WeekNumber      *int                   `json:"week_number"`
	StartAt         civil.Time             `json:"start_at"`
	DurationMinutes int                    `json:"duration_minutes"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Appointments    []ScheduledAppointment `json:"appointments,omitempty"`
}

func (r *AppointmentRule) Duration() time.Duration {
	return time.Duration(r.DurationMinutes) * time.Minute
}

// storedRule flattens a validated rule into its persisted form.
func storedRule(r Rule) *AppointmentRule {
	out := &AppointmentRule{
		DoctorID:        r.DoctorID,
		PatientName:     r.PatientName,
		ScheduleType:    r.Recurrence.Type(),
		Date:            r.Date,
		StartAt:         r.StartAt,
		DurationMinutes: int(r.Duration / time.Minute),
	}
	switch rec := r.Recurrence.(type) {
	case Weekly:
		out.DayOfWeek = intPtr(int(rec.day))
	case Monthly:
		out.DayOfMonth = intPtr(rec.day)
	case MonthlyWeekday:
		out.DayOfWeek = intPtr(int(rec.day))
		out.WeekNumber = intPtr(rec.week)
	}
	return out
}

func intPtr(v int) *int { return &v }
