package scheduling

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func clock(h, m int) civil.Time { return civil.Time{Hour: h, Minute: m} }

func containsSlot(slots []Interval, start time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}

func TestCarveSlots_FullWindow(t *testing.T) {
	slots := CarveSlots(date(2024, 1, 10), clock(9, 0), clock(17, 0), nil)
	if len(slots) != 32 {
		t.Fatalf("expected 32 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(utc(2024, 1, 10, 9, 0)) || !slots[0].End.Equal(utc(2024, 1, 10, 9, 15)) {
		t.Errorf("unexpected first slot %v", slots[0])
	}
	last := slots[len(slots)-1]
	if !last.Start.Equal(utc(2024, 1, 10, 16, 45)) || !last.End.Equal(utc(2024, 1, 10, 17, 0)) {
		t.Errorf("unexpected last slot %v", last)
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].Start.Equal(slots[i-1].End) {
			t.Errorf("slot %d does not follow slot %d", i, i-1)
		}
	}
}

func TestCarveSlots_PartialSliceDropped(t *testing.T) {
	slots := CarveSlots(date(2024, 1, 10), clock(9, 0), clock(9, 20), nil)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
}

func TestCarveSlots_Bookings(t *testing.T) {
	d := date(2024, 1, 10)
	tests := []struct {
		name    string
		booked  Interval
		blocked []time.Time
		free    []time.Time
	}{
		{
			name:    "aligned booking",
			booked:  Interval{Start: utc(2024, 1, 10, 10, 0), End: utc(2024, 1, 10, 10, 30)},
			blocked: []time.Time{utc(2024, 1, 10, 10, 0), utc(2024, 1, 10, 10, 15)},
			free:    []time.Time{utc(2024, 1, 10, 9, 45), utc(2024, 1, 10, 10, 30)},
		},
		{
			name:    "booking inside one slice",
			booked:  Interval{Start: utc(2024, 1, 10, 10, 5), End: utc(2024, 1, 10, 10, 10)},
			blocked: []time.Time{utc(2024, 1, 10, 10, 0)},
			free:    []time.Time{utc(2024, 1, 10, 9, 45), utc(2024, 1, 10, 10, 15)},
		},
		{
			name:    "unaligned booking",
			booked:  Interval{Start: utc(2024, 1, 10, 10, 10), End: utc(2024, 1, 10, 10, 20)},
			blocked: []time.Time{utc(2024, 1, 10, 10, 0), utc(2024, 1, 10, 10, 15)},
			free:    []time.Time{utc(2024, 1, 10, 10, 30)},
		},
		{
			name:    "zero width booking at slice end",
			booked:  Interval{Start: utc(2024, 1, 10, 10, 15), End: utc(2024, 1, 10, 10, 15)},
			blocked: []time.Time{utc(2024, 1, 10, 10, 0)},
			free:    []time.Time{utc(2024, 1, 10, 10, 15)},
		},
		{
			name:    "booking covering the window start",
			booked:  Interval{Start: utc(2024, 1, 10, 8, 0), End: utc(2024, 1, 10, 9, 30)},
			blocked: []time.Time{utc(2024, 1, 10, 9, 0), utc(2024, 1, 10, 9, 15)},
			free:    []time.Time{utc(2024, 1, 10, 9, 30)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := CarveSlots(d, clock(9, 0), clock(17, 0), []Interval{tt.booked})
			for _, s := range tt.blocked {
				if containsSlot(slots, s) {
					t.Errorf("slot at %s should be blocked", s.Format("15:04"))
				}
			}
			for _, s := range tt.free {
				if !containsSlot(slots, s) {
					t.Errorf("slot at %s should be free", s.Format("15:04"))
				}
			}
		})
	}
}

func TestCarveSlots_UnsortedInputUntouched(t *testing.T) {
	booked := []Interval{
		{Start: utc(2024, 1, 10, 15, 0), End: utc(2024, 1, 10, 16, 0)},
		{Start: utc(2024, 1, 10, 9, 0), End: utc(2024, 1, 10, 9, 30)},
		{Start: utc(2024, 1, 10, 12, 0), End: utc(2024, 1, 10, 12, 15)},
	}
	first := booked[0]

	slots := CarveSlots(date(2024, 1, 10), clock(9, 0), clock(17, 0), booked)
	if len(slots) != 32-2-1-4 {
		t.Errorf("expected %d slots, got %d", 32-2-1-4, len(slots))
	}
	if booked[0] != first {
		t.Error("input slice was reordered")
	}

	again := CarveSlots(date(2024, 1, 10), clock(9, 0), clock(17, 0), booked)
	if len(again) != len(slots) {
		t.Fatalf("expected identical result, got %d vs %d slots", len(again), len(slots))
	}
	for i := range slots {
		if slots[i] != again[i] {
			t.Errorf("slot %d differs between runs", i)
		}
	}
}

func TestCarveSlots_OverlappingBookings(t *testing.T) {
	booked := []Interval{
		{Start: utc(2024, 1, 10, 9, 0), End: utc(2024, 1, 10, 12, 0)},
		{Start: utc(2024, 1, 10, 9, 30), End: utc(2024, 1, 10, 9, 45)},
		{Start: utc(2024, 1, 10, 12, 30), End: utc(2024, 1, 10, 12, 45)},
	}
	slots := CarveSlots(date(2024, 1, 10), clock(9, 0), clock(13, 0), booked)
	// 12:00, 12:15 and 12:45 remain.
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d: %v", len(slots), slots)
	}
	if !slots[0].Start.Equal(utc(2024, 1, 10, 12, 0)) || !slots[2].Start.Equal(utc(2024, 1, 10, 12, 45)) {
		t.Errorf("unexpected slots %v", slots)
	}
}

func TestCarveSlots_WindowSpansMidnight(t *testing.T) {
	slots := CarveSlots(date(2024, 1, 10), clock(22, 0), clock(2, 0), nil)
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(utc(2024, 1, 10, 22, 0)) {
		t.Errorf("unexpected first slot %v", slots[0])
	}
	if last := slots[len(slots)-1]; !last.End.Equal(utc(2024, 1, 11, 2, 0)) {
		t.Errorf("expected last slot to end 2024-01-11 02:00, got %v", last.End)
	}
	if !containsSlot(slots, utc(2024, 1, 11, 0, 0)) {
		t.Error("expected a slot starting at midnight")
	}
}

func TestCarveSlots_WindowSpansMidnightWithNextDayBooking(t *testing.T) {
	booked := []Interval{{Start: utc(2024, 1, 11, 1, 0), End: utc(2024, 1, 11, 1, 30)}}
	slots := CarveSlots(date(2024, 1, 10), clock(22, 0), clock(2, 0), booked)
	if len(slots) != 14 {
		t.Fatalf("expected 14 slots, got %d", len(slots))
	}
	if containsSlot(slots, utc(2024, 1, 11, 1, 0)) || containsSlot(slots, utc(2024, 1, 11, 1, 15)) {
		t.Error("booked slots after midnight should be excluded")
	}
}

func TestCarveSlots_EqualStartAndEnd(t *testing.T) {
	// A window ending where it starts covers the whole day.
	slots := CarveSlots(date(2024, 1, 10), clock(0, 0), clock(0, 0), nil)
	if len(slots) != 96 {
		t.Errorf("expected 96 slots, got %d", len(slots))
	}
}
