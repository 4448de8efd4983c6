package schedule

import (
	"sort"
	"time"

	"github.com/samber/mo"
	"github.com/tmajkech/libsched/schedule/storage"
)

// TimeSlot is a contiguous free interval within working hours. Slots are
// ephemeral: they are computed, rendered and forgotten, never persisted.
type TimeSlot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// SlotOptions configures free/busy computation.
type SlotOptions struct {
	// StartDate and EndDate bound the walk, inclusive on both ends.
	StartDate time.Time
	EndDate   time.Time
	// Working hours, as hours of the day. Zero values take the defaults
	// (9 and 18).
	WorkStartHour int
	WorkEndHour   int
	// MinDurationMinutes drops gaps shorter than this. Zero takes the
	// default (30).
	MinDurationMinutes int
	// IncludeWeekends keeps Saturday and Sunday in the walk; by default
	// they are skipped.
	IncludeWeekends bool
}

// DefaultSlotOptions mirrors a standard 9-to-18 working day.
var DefaultSlotOptions = SlotOptions{
	WorkStartHour:      9,
	WorkEndHour:        18,
	MinDurationMinutes: 30,
}

func (o SlotOptions) normalized() SlotOptions {
	if o.WorkStartHour <= 0 {
		o.WorkStartHour = DefaultSlotOptions.WorkStartHour
	}
	if o.WorkEndHour <= 0 {
		o.WorkEndHour = DefaultSlotOptions.WorkEndHour
	}
	if o.MinDurationMinutes <= 0 {
		o.MinDurationMinutes = DefaultSlotOptions.MinDurationMinutes
	}
	return o
}

// FindAvailableSlots walks the days of the range and returns every free gap
// of at least the minimum duration within working hours. Each event's busy
// window is widened by its own buffers before comparison. Degenerate input
// (no days, inverted range) yields an empty result, never an error.
func FindAvailableSlots(events []storage.Item, opts SlotOptions) []TimeSlot {
	opts = opts.normalized()
	if opts.EndDate.Before(opts.StartDate) {
		return nil
	}

	type window struct{ start, end time.Time }
	var busy []window
	for i := range events {
		if !events[i].IsTimeBound() {
			continue
		}
		start, end := events[i].EffectiveWindow()
		busy = append(busy, window{start, end})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].start.Before(busy[j].start) })

	minGap := time.Duration(opts.MinDurationMinutes) * time.Minute
	lastDay := midnightUTC(opts.EndDate)

	var slots []TimeSlot
	for day := midnightUTC(opts.StartDate); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if !opts.IncludeWeekends && isWeekend(day) {
			continue
		}

		dayStart := day.Add(time.Duration(opts.WorkStartHour) * time.Hour)
		dayEnd := day.Add(time.Duration(opts.WorkEndHour) * time.Hour)
		if !dayEnd.After(dayStart) {
			continue
		}

		cursor := dayStart
		for _, w := range busy {
			if !w.start.Before(dayEnd) || !w.end.After(dayStart) {
				continue
			}
			if w.start.Sub(cursor) >= minGap {
				slots = append(slots, newSlot(cursor, w.start))
			}
			if w.end.After(cursor) {
				cursor = w.end
			}
		}
		if dayEnd.Sub(cursor) >= minGap {
			slots = append(slots, newSlot(cursor, dayEnd))
		}
	}
	return slots
}

// FindBestSlotForDuration returns the first free slot that can hold the
// requested number of minutes, or None when the range has no such slot.
func FindBestSlotForDuration(events []storage.Item, durationMinutes int, opts SlotOptions) mo.Option[TimeSlot] {
	opts.MinDurationMinutes = durationMinutes
	for _, slot := range FindAvailableSlots(events, opts) {
		if slot.DurationMinutes >= durationMinutes {
			return mo.Some(slot)
		}
	}
	return mo.None[TimeSlot]()
}

func newSlot(start, end time.Time) TimeSlot {
	return TimeSlot{
		Start:           start,
		End:             end,
		DurationMinutes: int(end.Sub(start).Minutes()),
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
