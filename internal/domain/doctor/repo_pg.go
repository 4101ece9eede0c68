package doctor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docsched/docsched/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const doctorCols = `id, name, summary, max_session_duration,
	available_time_start, available_time_end, created_at, updated_at`

// doctorRow is the storage shape of a doctor; toDoctor maps it to the domain value.
type doctorRow struct {
	ID         uuid.UUID
	Name       string
	Summary    *string
	MaxSession pgtype.Interval
	Start      pgtype.Time
	End        pgtype.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r doctorRow) toDoctor() *Doctor {
	d := &Doctor{
		ID:                 r.ID,
		Name:               r.Name,
		Summary:            r.Summary,
		AvailableTimeStart: db.TimeFromPG(r.Start),
		AvailableTimeEnd:   db.TimeFromPG(r.End),
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
	}
	if r.MaxSession.Valid {
		minutes := int(db.IntervalFromPG(r.MaxSession) / time.Minute)
		d.MaxSessionMinutes = &minutes
	}
	return d
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var r doctorRow
	if err := row.Scan(&r.ID, &r.Name, &r.Summary, &r.MaxSession,
		&r.Start, &r.End, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return r.toDoctor(), nil
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	var maxSession pgtype.Interval
	if limit, ok := d.MaxSessionDuration(); ok {
		maxSession = db.IntervalToPG(limit)
	}
	row := db.QuerierFromContext(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO doctors (id, name, summary, max_session_duration, available_time_start, available_time_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Summary, maxSession,
		db.TimeToPG(d.AvailableTimeStart), db.TimeToPG(d.AvailableTimeEnd))
	if err := row.Scan(&d.CreatedAt, &d.UpdatedAt); err != nil {
		return err
	}
	d.CreatedAt, d.UpdatedAt = d.CreatedAt.UTC(), d.UpdatedAt.UTC()
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := scanDoctor(db.QuerierFromContext(ctx, r.pool).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func (r *repoPG) List(ctx context.Context) ([]*Doctor, error) {
	rows, err := db.QuerierFromContext(ctx, r.pool).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
