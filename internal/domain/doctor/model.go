package doctor

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/docsched/docsched/pkg/calendar"
)

// Doctor maps to the doctors table. The available window is a wall-clock
// range in UTC; an end at or before the start means the window runs past
// midnight into the next day.
type Doctor struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Summary            *string    `json:"summary,omitempty"`
	MaxSessionMinutes  *int       `json:"max_session_minutes,omitempty"`
	AvailableTimeStart civil.Time `json:"available_time_start"`
	AvailableTimeEnd   civil.Time `json:"available_time_end"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// MaxSessionDuration reports the longest bookable session, if capped.
func (d *Doctor) MaxSessionDuration() (time.Duration, bool) {
	if d.MaxSessionMinutes == nil {
		return 0, false
	}
	return time.Duration(*d.MaxSessionMinutes) * time.Minute, true
}

// SpansMidnight reports whether the daily window ends on the following day.
func (d *Doctor) SpansMidnight() bool {
	return calendar.SinceMidnight(d.AvailableTimeEnd) <= calendar.SinceMidnight(d.AvailableTimeStart)
}
