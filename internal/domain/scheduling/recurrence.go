package scheduling

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/docsched/docsched/pkg/calendar"
)

// Expand enumerates the occurrences of rule that fall within horizon, in
// ascending order. A rule with no occurrence before the horizon fails with
// ErrDateExceedsHorizon.
func Expand(rule Rule, horizon time.Time) ([]Interval, error) {
	if calendar.At(rule.Date, civil.Time{}).After(horizon) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrDateExceedsHorizon, rule.Date, horizon.Format(time.RFC3339))
	}

	var (
		out []Interval
		err error
	)
	switch rec := rule.Recurrence.(type) {
	case Sole:
		out = expandSole(rule, horizon)
	case Weekly:
		out = expandWeekly(rule, horizon)
	case Monthly:
		out, err = expandMonthly(rule, rec.day, horizon)
	case MonthlyWeekday:
		out, err = expandMonthlyWeekday(rule, rec.day, rec.week, horizon)
	default:
		return nil, fmt.Errorf("%w: missing recurrence", ErrInvalidRule)
	}
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no occurrence before %s", ErrDateExceedsHorizon, horizon.Format(time.RFC3339))
	}
	return out, nil
}

func occurrenceOn(rule Rule, d civil.Date) Interval {
	start := calendar.At(d, rule.StartAt)
	return Interval{Start: start, End: start.Add(rule.Duration)}
}

func expandSole(rule Rule, horizon time.Time) []Interval {
	occ := occurrenceOn(rule, rule.Date)
	if occ.End.After(horizon) {
		return nil
	}
	return []Interval{occ}
}

// expandWeekly steps seven days at a time from the anchor date; the anchor
// date, not the stored day of week, decides the weekday.
func expandWeekly(rule Rule, horizon time.Time) []Interval {
	var out []Interval
	for d := rule.Date; ; d = d.AddDays(7) {
		occ := occurrenceOn(rule, d)
		if occ.End.After(horizon) {
			return out
		}
		out = append(out, occ)
	}
}

func expandMonthly(rule Rule, day int, horizon time.Time) ([]Interval, error) {
	year, month := rule.Date.Year, rule.Date.Month
	if calendar.ClampDayToMonth(year, month, day) < rule.Date.Day {
		year, month = calendar.NextMonth(year, month)
	}

	var out []Interval
	for {
		// Re-clamp from the requested day each month so a 31st never drifts.
		d := civil.Date{Year: year, Month: month, Day: calendar.ClampDayToMonth(year, month, day)}
		occ := occurrenceOn(rule, d)
		if occ.End.After(horizon) {
			if len(out) == 0 {
				return nil, fmt.Errorf("%w: first occurrence %s ends after the horizon", ErrDateExceedsHorizon, d)
			}
			return out, nil
		}
		out = append(out, occ)
		year, month = calendar.NextMonth(year, month)
	}
}

func expandMonthlyWeekday(rule Rule, day WeekDay, week int, horizon time.Time) ([]Interval, error) {
	if calendar.At(rule.Date, rule.StartAt).After(horizon) {
		return nil, fmt.Errorf("%w: %s %s is after the horizon", ErrDateExceedsHorizon, rule.Date, rule.StartAt)
	}

	var out []Interval
	year, month := rule.Date.Year, rule.Date.Month
	for {
		if calendar.At(civil.Date{Year: year, Month: month, Day: 1}, civil.Time{}).After(horizon) {
			return out, nil
		}
		d, ok := calendar.NthWeekdayInMonth(year, month, day.Weekday(), week)
		if ok && !d.Before(rule.Date) {
			occ := occurrenceOn(rule, d)
			if occ.Start.After(horizon) {
				return out, nil
			}
			out = append(out, occ)
		}
		year, month = calendar.NextMonth(year, month)
	}
}
