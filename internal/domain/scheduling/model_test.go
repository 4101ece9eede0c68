package scheduling

import (
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

func validRequest(st ScheduleType) CreateRuleRequest {
	return CreateRuleRequest{
		DoctorID:        uuid.New(),
		PatientName:     "Jane Roe",
		ScheduleType:    st,
		Date:            date(2024, 1, 10),
		StartAt:         civil.Time{Hour: 10},
		DurationMinutes: 30,
	}
}

func TestWeekDay_Weekday(t *testing.T) {
	want := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
	for d := Monday; d <= Sunday; d++ {
		if got := d.Weekday(); got != want[d] {
			t.Errorf("WeekDay(%d).Weekday() = %s, want %s", d, got, want[d])
		}
	}
	if WeekDay(7).Valid() || WeekDay(-1).Valid() {
		t.Error("expected out of range days to be invalid")
	}
}

func TestCreateRuleRequest_Variants(t *testing.T) {
	sole := validRequest(ScheduleSole)

	weekly := validRequest(ScheduleWeekday)
	weekly.DayOfWeek = intPtr(2)

	monthly := validRequest(ScheduleMonthly)
	monthly.DayOfMonth = intPtr(31)

	nth := validRequest(ScheduleMonthlyWeekday)
	nth.DayOfWeek = intPtr(0)
	nth.WeekNumber = intPtr(4)

	tests := []struct {
		req  CreateRuleRequest
		want Recurrence
	}{
		{sole, Sole{}},
		{weekly, Weekly{day: Wednesday}},
		{monthly, Monthly{day: 31}},
		{nth, MonthlyWeekday{day: Monday, week: 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.req.ScheduleType), func(t *testing.T) {
			rule, err := tt.req.Rule()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rule.Recurrence != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, rule.Recurrence)
			}
			if rule.Duration != 30*time.Minute {
				t.Errorf("expected 30m, got %v", rule.Duration)
			}
		})
	}
}

func TestCreateRuleRequest_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateRuleRequest)
	}{
		{"missing doctor", func(r *CreateRuleRequest) { r.DoctorID = uuid.Nil }},
		{"missing patient", func(r *CreateRuleRequest) { r.PatientName = "" }},
		{"patient too long", func(r *CreateRuleRequest) { r.PatientName = strings.Repeat("p", 101) }},
		{"missing date", func(r *CreateRuleRequest) { r.Date = civil.Date{} }},
		{"zero duration", func(r *CreateRuleRequest) { r.DurationMinutes = 0 }},
		{"duration over a day", func(r *CreateRuleRequest) { r.DurationMinutes = 24*60 + 1 }},
		{"unknown type", func(r *CreateRuleRequest) { r.ScheduleType = "yearly" }},
		{"weekday without day", func(r *CreateRuleRequest) { r.ScheduleType = ScheduleWeekday }},
		{"weekday out of range", func(r *CreateRuleRequest) {
			r.ScheduleType = ScheduleWeekday
			r.DayOfWeek = intPtr(7)
		}},
		{"monthly day out of range", func(r *CreateRuleRequest) {
			r.ScheduleType = ScheduleMonthly
			r.DayOfMonth = intPtr(32)
		}},
		{"monthly weekday fifth week", func(r *CreateRuleRequest) {
			r.ScheduleType = ScheduleMonthlyWeekday
			r.DayOfWeek = intPtr(0)
			r.WeekNumber = intPtr(5)
		}},
		{"monthly weekday without week", func(r *CreateRuleRequest) {
			r.ScheduleType = ScheduleMonthlyWeekday
			r.DayOfWeek = intPtr(0)
		}},
		{"sole with day of month", func(r *CreateRuleRequest) { r.DayOfMonth = intPtr(3) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(ScheduleSole)
			tt.mutate(&req)
			if _, err := req.Rule(); !errors.Is(err, ErrInvalidRule) {
				t.Errorf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
}

func TestStoredRule(t *testing.T) {
	rec, err := NewMonthlyWeekday(Friday, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rule := testRule(date(2024, 1, 10), rec)
	stored := storedRule(rule)

	if stored.ScheduleType != ScheduleMonthlyWeekday {
		t.Errorf("expected monthly_weekday, got %s", stored.ScheduleType)
	}
	if stored.DayOfWeek == nil || *stored.DayOfWeek != 4 {
		t.Errorf("expected day_of_week 4, got %v", stored.DayOfWeek)
	}
	if stored.WeekNumber == nil || *stored.WeekNumber != 3 {
		t.Errorf("expected week_number 3, got %v", stored.WeekNumber)
	}
	if stored.DayOfMonth != nil {
		t.Errorf("expected no day_of_month, got %d", *stored.DayOfMonth)
	}
	if stored.DurationMinutes != 30 || stored.Duration() != 30*time.Minute {
		t.Errorf("expected 30 minutes, got %d", stored.DurationMinutes)
	}
}
