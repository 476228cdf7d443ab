package spacedrep

// LeechWeight returns the accumulated failure weight of an item.
// A forgot lapse weighs 1 and a dont_know lapse weighs 2; HardLapses counts
// the dont_know subset of Lapses, so it contributes the extra unit.
func LeechWeight(it Item) int {
	return it.Lapses + it.HardLapses
}

// IsLeech reports whether the learner keeps failing the item.
// It is derived from persisted counters only and is never stored.
func (p Policy) IsLeech(it Item) bool {
	threshold := p.LeechThreshold
	if threshold <= 0 {
		threshold = DefaultLeechThreshold
	}
	return LeechWeight(it) >= threshold
}

// Leeches filters items down to the leeches, preserving order.
func (p Policy) Leeches(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if p.IsLeech(it) {
			out = append(out, it)
		}
	}
	return out
}
