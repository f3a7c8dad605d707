package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 10, hour, min, 0, 0, time.UTC)
}

func TestFreeSlotsAroundSingleBooking(t *testing.T) {
	// Window 09:00-12:00, busy 10:00-11:00, 30m slots.
	slots, err := FreeSlots(SlotParams{
		WindowStart:  at(9, 0),
		WindowEnd:    at(12, 0),
		SlotDuration: 30 * time.Minute,
	}, []Interval{{Start: at(10, 0), End: at(11, 0)}})

	assert.Nil(t, err)
	assert.Equal(t, []Interval{
		{Start: at(9, 0), End: at(9, 30)},
		{Start: at(9, 30), End: at(10, 0)},
		{Start: at(11, 0), End: at(11, 30)},
		{Start: at(11, 30), End: at(12, 0)},
	}, slots)
}

func TestFreeSlotsEmptyWindowWhenFullyBusy(t *testing.T) {
	slots, err := FreeSlots(SlotParams{
		WindowStart:  at(9, 0),
		WindowEnd:    at(12, 0),
		SlotDuration: 30 * time.Minute,
	}, []Interval{{Start: at(8, 0), End: at(13, 0)}})

	assert.Nil(t, err)
	assert.Empty(t, slots)
}

func TestFreeSlotsBackToBackBusyMerges(t *testing.T) {
	// Adjacent busy intervals leave no phantom gap at the shared endpoint.
	slots, err := FreeSlots(SlotParams{
		WindowStart:  at(9, 0),
		WindowEnd:    at(13, 0),
		SlotDuration: time.Hour,
	}, []Interval{
		{Start: at(10, 0), End: at(11, 0)},
		{Start: at(11, 0), End: at(12, 0)},
	})

	assert.Nil(t, err)
	assert.Equal(t, []Interval{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(12, 0), End: at(13, 0)},
	}, slots)
}

func TestFreeSlotsOverlappingBusyMerges(t *testing.T) {
	slots := freeSlotsHourly(t, []Interval{
		{Start: at(10, 30), End: at(11, 30)},
		{Start: at(10, 0), End: at(11, 0)},
	})
	assert.Equal(t, []Interval{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(11, 30), End: at(12, 30)},
	}, slots)
}

// freeSlotsHourly runs merge cases over a 09:00-13:00 window with hourly slots.
func freeSlotsHourly(t *testing.T, busy []Interval) []Interval {
	t.Helper()
	slots, err := FreeSlots(SlotParams{
		WindowStart:  at(9, 0),
		WindowEnd:    at(13, 0),
		SlotDuration: time.Hour,
	}, busy)
	assert.Nil(t, err)
	return slots
}

func TestFreeSlotsDropsTrailingRemainder(t *testing.T) {
	// 45 minutes free, 30m slots: one slot, 15m remainder dropped.
	slots, err := FreeSlots(SlotParams{
		WindowStart:  at(9, 0),
		WindowEnd:    at(9, 45),
		SlotDuration: 30 * time.Minute,
	}, nil)

	assert.Nil(t, err)
	assert.Equal(t, []Interval{{Start: at(9, 0), End: at(9, 30)}}, slots)
}

func TestFreeSlotsPartitionProperty(t *testing.T) {
	busy := []Interval{
		{Start: at(9, 30), End: at(10, 0)},
		{Start: at(11, 0), End: at(11, 30)},
	}
	slots, err := FreeSlots(SlotParams{
		WindowStart:  at(9, 0),
		WindowEnd:    at(12, 0),
		SlotDuration: 30 * time.Minute,
	}, busy)
	assert.Nil(t, err)

	// Free slots never intersect busy intervals...
	for _, s := range slots {
		for _, b := range busy {
			intersects := s.Start.Before(b.End) && s.End.After(b.Start)
			assert.Falsef(t, intersects, "slot %v intersects busy %v", s, b)
		}
	}
	// ...and free plus busy time reconstructs the whole window.
	var total time.Duration
	for _, s := range slots {
		total += s.End.Sub(s.Start)
	}
	for _, b := range busy {
		total += b.End.Sub(b.Start)
	}
	assert.Equal(t, 3*time.Hour, total)
}

func TestFreeSlotsBoundaryTouchIsNotBusy(t *testing.T) {
	// Busy [10:00,11:00); querying [11:00,12:00) sees a fully free window.
	slots, err := FreeSlots(SlotParams{
		WindowStart:  at(11, 0),
		WindowEnd:    at(12, 0),
		SlotDuration: time.Hour,
	}, []Interval{{Start: at(10, 0), End: at(11, 0)}})

	assert.Nil(t, err)
	assert.Equal(t, []Interval{{Start: at(11, 0), End: at(12, 0)}}, slots)
}

func TestFreeSlotsClampPast(t *testing.T) {
	slots, err := FreeSlots(SlotParams{
		WindowStart:  at(9, 0),
		WindowEnd:    at(11, 0),
		SlotDuration: time.Hour,
		ClampPast:    true,
		Now:          at(10, 0),
	}, nil)

	assert.Nil(t, err)
	assert.Equal(t, []Interval{{Start: at(10, 0), End: at(11, 0)}}, slots)
}

func TestFreeSlotsValidation(t *testing.T) {
	cases := []struct {
		name   string
		params SlotParams
	}{
		{"end before start", SlotParams{WindowStart: at(12, 0), WindowEnd: at(9, 0), SlotDuration: time.Hour}},
		{"zero slot", SlotParams{WindowStart: at(9, 0), WindowEnd: at(12, 0)}},
		{"negative slot", SlotParams{WindowStart: at(9, 0), WindowEnd: at(12, 0), SlotDuration: -time.Hour}},
		{"zero bounds", SlotParams{SlotDuration: time.Hour}},
		{"window too long", SlotParams{WindowStart: at(0, 0), WindowEnd: at(0, 0).Add(25 * time.Hour), SlotDuration: time.Hour}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			slots, err := FreeSlots(c.params, nil)
			assert.Nil(t, slots)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}
