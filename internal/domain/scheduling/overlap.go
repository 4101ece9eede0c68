package scheduling

// Overlaps reports whether a and b share at least one instant. Touching
// intervals overlap.
func Overlaps(a, b Interval) bool {
	return !a.Start.After(b.End) && !a.End.Before(b.Start)
}

// Conflicts reports whether any candidate overlaps any existing interval.
func Conflicts(existing, candidates []Interval) bool {
	for _, c := range candidates {
		for _, e := range existing {
			if Overlaps(e, c) {
				return true
			}
		}
	}
	return false
}
