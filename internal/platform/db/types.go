package db

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgtype"
)

// Mapping helpers between civil/time values and the pgtype representations of
// DATE, TIME and INTERVAL columns.

func DateToPG(d civil.Date) pgtype.Date {
	return pgtype.Date{Time: d.In(time.UTC), Valid: true}
}

func DateFromPG(d pgtype.Date) civil.Date {
	if !d.Valid {
		return civil.Date{}
	}
	return civil.DateOf(d.Time.UTC())
}

func TimeToPG(t civil.Time) pgtype.Time {
	micros := int64(t.Hour)*3600e6 + int64(t.Minute)*60e6 + int64(t.Second)*1e6 + int64(t.Nanosecond)/1e3
	return pgtype.Time{Microseconds: micros, Valid: true}
}

func TimeFromPG(t pgtype.Time) civil.Time {
	if !t.Valid {
		return civil.Time{}
	}
	us := t.Microseconds
	return civil.Time{
		Hour:       int(us / 3600e6),
		Minute:     int(us / 60e6 % 60),
		Second:     int(us / 1e6 % 60),
		Nanosecond: int(us%1e6) * 1000,
	}
}

func IntervalToPG(d time.Duration) pgtype.Interval {
	return pgtype.Interval{Microseconds: d.Microseconds(), Valid: true}
}

// IntervalFromPG flattens an interval into a duration; days count as 24h and
// months as 30 days, matching PostgreSQL's own justification rules.
func IntervalFromPG(i pgtype.Interval) time.Duration {
	if !i.Valid {
		return 0
	}
	days := int64(i.Days) + int64(i.Months)*30
	return time.Duration(i.Microseconds)*time.Microsecond + time.Duration(days)*24*time.Hour
}
