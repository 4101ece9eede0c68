package scheduling

import "errors"

var (
	ErrDoctorNotFound          = errors.New("doctor not found")
	ErrRuleNotFound            = errors.New("appointment rule not found")
	ErrSessionDurationExceeded = errors.New("duration exceeds the doctor's maximum session")
	ErrDateExceedsHorizon      = errors.New("date exceeds the scheduling horizon")
	ErrScheduleNotAvailable    = errors.New("schedule is not available")
	ErrInvalidRule             = errors.New("invalid appointment rule")
)
