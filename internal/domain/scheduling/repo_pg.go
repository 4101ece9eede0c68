package scheduling

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docsched/docsched/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.QuerierFromContext(ctx, r.pool)
}

const ruleCols = `id, doctor_id, patient_name, schedule_type, date, day_of_week,
	day_of_month, week_number, start_at, duration, created_at, updated_at`

// ruleRow is the storage shape of appointment_rules.
type ruleRow struct {
	ID           uuid.UUID
	DoctorID     uuid.UUID
	PatientName  string
	ScheduleType string
	Date         pgtype.Date
	DayOfWeek    *int16
	DayOfMonth   *int16
	WeekNumber   *int16
	StartAt      pgtype.Time
	Duration     pgtype.Interval
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (row ruleRow) toRule() *AppointmentRule {
	return &AppointmentRule{
		ID:              row.ID,
		DoctorID:        row.DoctorID,
		PatientName:     row.PatientName,
		ScheduleType:    ScheduleType(row.ScheduleType),
		Date:            db.DateFromPG(row.Date),
		DayOfWeek:       fromInt2(row.DayOfWeek),
		DayOfMonth:      fromInt2(row.DayOfMonth),
		WeekNumber:      fromInt2(row.WeekNumber),
		StartAt:         db.TimeFromPG(row.StartAt),
		DurationMinutes: int(db.IntervalFromPG(row.Duration) / time.Minute),
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
}

func fromInt2(v *int16) *int {
	if v == nil {
		return nil
	}
	return intPtr(int(*v))
}

func toInt2(v *int) *int16 {
	if v == nil {
		return nil
	}
	i := int16(*v)
	return &i
}

func (r *repoPG) InsertRule(ctx context.Context, rule *AppointmentRule) error {
	rule.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment_rules (id, doctor_id, patient_name, schedule_type, date,
			day_of_week, day_of_month, week_number, start_at, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		rule.ID, rule.DoctorID, rule.PatientName, string(rule.ScheduleType), db.DateToPG(rule.Date),
		toInt2(rule.DayOfWeek), toInt2(rule.DayOfMonth), toInt2(rule.WeekNumber),
		db.TimeToPG(rule.StartAt), db.IntervalToPG(rule.Duration()),
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return err
	}
	rule.CreatedAt, rule.UpdatedAt = rule.CreatedAt.UTC(), rule.UpdatedAt.UTC()
	return nil
}

func (r *repoPG) InsertOccurrences(ctx context.Context, ruleID, doctorID uuid.UUID, occurrences []Interval) ([]ScheduledAppointment, error) {
	stored := make([]ScheduledAppointment, len(occurrences))
	for i, occ := range occurrences {
		stored[i] = ScheduledAppointment{
			ID:       uuid.New(),
			RuleID:   ruleID,
			DoctorID: doctorID,
			StartAt:  occ.Start.UTC(),
			EndAt:    occ.End.UTC(),
		}
	}
	_, err := r.conn(ctx).CopyFrom(ctx,
		pgx.Identifier{"appointments"},
		[]string{"id", "appointment_rule_id", "doctor_id", "start_at", "end_at"},
		pgx.CopyFromSlice(len(stored), func(i int) ([]any, error) {
			s := stored[i]
			return []any{s.ID, s.RuleID, s.DoctorID, s.StartAt, s.EndAt}, nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *repoPG) LockAndCheckOverlap(ctx context.Context, doctorID uuid.UUID, occurrences []Interval) (bool, error) {
	q := r.conn(ctx)

	var locked uuid.UUID
	err := q.QueryRow(ctx, `SELECT id FROM doctors WHERE id = $1 FOR UPDATE`, doctorID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrDoctorNotFound
	}
	if err != nil {
		return false, err
	}
	if len(occurrences) == 0 {
		return false, nil
	}

	starts := make([]time.Time, len(occurrences))
	ends := make([]time.Time, len(occurrences))
	for i, occ := range occurrences {
		starts[i], ends[i] = occ.Start.UTC(), occ.End.UTC()
	}

	var exists bool
	err = q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM appointments a
			JOIN unnest($2::timestamptz[], $3::timestamptz[]) AS c(start_at, end_at)
				ON a.start_at <= c.end_at AND a.end_at >= c.start_at
			WHERE a.doctor_id = $1
		)`, doctorID, starts, ends).Scan(&exists)
	return exists, err
}

func (r *repoPG) FetchOccurrencesOverlapping(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (map[civil.Date][]Interval, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT start_at, end_at FROM appointments
		WHERE doctor_id = $1 AND start_at < $3 AND end_at > $2
		ORDER BY start_at`, doctorID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDate := make(map[civil.Date][]Interval)
	for rows.Next() {
		var iv Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, err
		}
		iv.Start, iv.End = iv.Start.UTC(), iv.End.UTC()
		d := civil.DateOf(iv.Start)
		byDate[d] = append(byDate[d], iv)
	}
	return byDate, rows.Err()
}

func (r *repoPG) GetRule(ctx context.Context, id uuid.UUID) (*AppointmentRule, error) {
	var row ruleRow
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+ruleCols+` FROM appointment_rules WHERE id = $1`, id).Scan(
		&row.ID, &row.DoctorID, &row.PatientName, &row.ScheduleType, &row.Date, &row.DayOfWeek,
		&row.DayOfMonth, &row.WeekNumber, &row.StartAt, &row.Duration, &row.CreatedAt, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toRule(), nil
}

func (r *repoPG) ListOccurrences(ctx context.Context, ruleID uuid.UUID) ([]ScheduledAppointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, appointment_rule_id, doctor_id, start_at, end_at
		FROM appointments WHERE appointment_rule_id = $1
		ORDER BY start_at`, ruleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []ScheduledAppointment{}
	for rows.Next() {
		var a ScheduledAppointment
		if err := rows.Scan(&a.ID, &a.RuleID, &a.DoctorID, &a.StartAt, &a.EndAt); err != nil {
			return nil, err
		}
		a.StartAt, a.EndAt = a.StartAt.UTC(), a.EndAt.UTC()
		items = append(items, a)
	}
	return items, rows.Err()
}
