package scheduling

import (
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"github.com/docsched/docsched/pkg/calendar"
)

// SlotLength is the size of every free slot.
const SlotLength = 15 * time.Minute

// CarveSlots splits the working window starting on date into SlotLength slices
// and returns those not blocked by any booking. A window whose end is at or
// before its start finishes on the following day. booked need not be sorted
// and is not modified.
func CarveSlots(date civil.Date, start, end civil.Time, booked []Interval) []Interval {
	windowStart := calendar.At(date, start)
	windowEnd := calendar.At(date, end)
	if !windowEnd.After(windowStart) {
		windowEnd = calendar.At(date.AddDays(1), end)
	}

	sorted := slices.Clone(booked)
	slices.SortFunc(sorted, func(a, b Interval) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.End.Compare(b.End)
	})

	slots := []Interval{}
	cursor := 0
	for sliceStart := windowStart; !sliceStart.Add(SlotLength).After(windowEnd); sliceStart = sliceStart.Add(SlotLength) {
		sliceEnd := sliceStart.Add(SlotLength)
		for cursor < len(sorted) && !sorted[cursor].End.After(sliceStart) {
			cursor++
		}
		if cursor < len(sorted) && blocks(sorted[cursor], sliceStart, sliceEnd) {
			continue
		}
		slots = append(slots, Interval{Start: sliceStart, End: sliceEnd})
	}
	return slots
}

// blocks reports whether booking b rules out the slice [s, e). Bookings are
// half-open except that a zero-width booking at e still takes the slice.
func blocks(b Interval, s, e time.Time) bool {
	if b.Start.Before(e) && b.End.After(s) {
		return true
	}
	return b.Start.Equal(e) && b.End.Equal(e)
}
