package services

import (
	"fmt"
	"sort"
	"time"
)

// MAX_SLOT_WINDOW caps a single free-slot query; multi-day ranges are issued
// as one call per day by the caller.
const MAX_SLOT_WINDOW = 24 * time.Hour

type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotParams struct {
	WindowStart  time.Time
	WindowEnd    time.Time
	SlotDuration time.Duration
	// ClampPast moves the effective window start up to Now so slots are never
	// offered for a time already passed.
	ClampPast bool
	Now       time.Time
}

// FreeSlots computes the ordered bookable slots of a window given the busy
// intervals on a resource. Pure function, no I/O. Busy intervals are treated
// as half-open [start, end): an interval ending exactly where another begins
// leaves no gap and no conflict.
func FreeSlots(params SlotParams, busy []Interval) ([]Interval, error) {
	if params.WindowStart.IsZero() || params.WindowEnd.IsZero() {
		return nil, fmt.Errorf("%w: window bounds must be set", ErrValidation)
	}
	if !params.WindowEnd.After(params.WindowStart) {
		return nil, fmt.Errorf("%w: window end must be after window start", ErrValidation)
	}
	if params.SlotDuration <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive", ErrValidation)
	}
	if params.WindowEnd.Sub(params.WindowStart) > MAX_SLOT_WINDOW {
		return nil, fmt.Errorf("%w: window longer than %s", ErrValidation, MAX_SLOT_WINDOW)
	}

	windowStart := params.WindowStart
	windowEnd := params.WindowEnd
	if params.ClampPast {
		now := params.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		if now.After(windowStart) {
			windowStart = now
		}
		if !windowEnd.After(windowStart) {
			return []Interval{}, nil
		}
	}

	merged := mergeIntervals(clipIntervals(busy, windowStart, windowEnd))

	// Complement: gaps between window bounds and merged busy intervals.
	free := make([]Interval, 0)
	cursor := windowStart
	for _, b := range merged {
		if cursor.Before(b.Start) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(windowEnd) {
		free = append(free, Interval{Start: cursor, End: windowEnd})
	}

	// Split each gap into slot-sized chunks; the trailing remainder shorter
	// than a slot is dropped, not emitted.
	slots := make([]Interval, 0)
	for _, f := range free {
		for t := f.Start; !t.Add(params.SlotDuration).After(f.End); t = t.Add(params.SlotDuration) {
			slots = append(slots, Interval{Start: t, End: t.Add(params.SlotDuration)})
		}
	}
	return slots, nil
}

func clipIntervals(intervals []Interval, start, end time.Time) []Interval {
	clipped := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.Start.Before(end) || !iv.End.After(start) {
			continue
		}
		c := iv
		if c.Start.Before(start) {
			c.Start = start
		}
		if c.End.After(end) {
			c.End = end
		}
		clipped = append(clipped, c)
	}
	return clipped
}

// mergeIntervals coalesces sorted intervals; closed-open adjacency merges too,
// since equal endpoints mean no gap.
func mergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return intervals
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
