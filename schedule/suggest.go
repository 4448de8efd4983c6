package schedule

import (
	"time"

	"github.com/tmajkech/libsched/schedule/storage"
)

const (
	// defaultTaskMinutes is assumed for tasks without an estimate.
	defaultTaskMinutes = 30
	// candidateStep is the granularity at which block start times are tried.
	candidateStep = 30 * time.Minute
)

// TaskBlock is a proposed working block for an unscheduled task.
type TaskBlock struct {
	TaskID          string
	Title           string
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// SuggestOptions configures greedy task placement.
type SuggestOptions struct {
	// Days is the size of the placement window, starting today. Zero
	// takes the default (5).
	Days int
	// Working hours, as hours of the day. Zero values take the defaults
	// (9 and 18).
	WorkStartHour int
	WorkEndHour   int
	// Now is injectable for testing; defaults to time.Now.
	Now func() time.Time
}

// DefaultSuggestOptions places tasks over the next five working days.
var DefaultSuggestOptions = SuggestOptions{
	Days:          5,
	WorkStartHour: 9,
	WorkEndHour:   18,
}

func (o SuggestOptions) normalized() SuggestOptions {
	if o.Days <= 0 {
		o.Days = DefaultSuggestOptions.Days
	}
	if o.WorkStartHour <= 0 {
		o.WorkStartHour = DefaultSuggestOptions.WorkStartHour
	}
	if o.WorkEndHour <= 0 {
		o.WorkEndHour = DefaultSuggestOptions.WorkEndHour
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// SuggestTaskBlocks greedily places each task into the first free gap of the
// window, trying start times in 30-minute steps within working hours. Busy
// events are compared on their raw bounds; buffers are deliberately ignored
// here. An accepted block is reserved against the remaining tasks of the
// batch, so no two suggestions share a window. Tasks that fit nowhere are
// silently omitted from the result.
func SuggestTaskBlocks(tasks, events []storage.Item, opts SuggestOptions) []TaskBlock {
	opts = opts.normalized()
	firstDay := midnightUTC(opts.Now())

	type window struct{ start, end time.Time }
	var busy []window
	for i := range events {
		if events[i].IsTimeBound() {
			busy = append(busy, window{*events[i].StartAt, *events[i].EndAt})
		}
	}

	collides := func(start, end time.Time) bool {
		for _, w := range busy {
			if overlaps(w.start, w.end, start, end) {
				return true
			}
		}
		return false
	}

	var blocks []TaskBlock
	for _, task := range tasks {
		minutes := task.EstimatedMinutes
		if minutes <= 0 {
			minutes = defaultTaskMinutes
		}
		duration := time.Duration(minutes) * time.Minute

		placed := false
		for d := 0; d < opts.Days && !placed; d++ {
			day := firstDay.AddDate(0, 0, d)
			dayStart := day.Add(time.Duration(opts.WorkStartHour) * time.Hour)
			dayEnd := day.Add(time.Duration(opts.WorkEndHour) * time.Hour)

			for start := dayStart; !start.Add(duration).After(dayEnd); start = start.Add(candidateStep) {
				end := start.Add(duration)
				if collides(start, end) {
					continue
				}

				blocks = append(blocks, TaskBlock{
					TaskID:          task.ID,
					Title:           task.Title,
					Start:           start,
					End:             end,
					DurationMinutes: minutes,
				})
				busy = append(busy, window{start, end})
				placed = true
				break
			}
		}
	}
	return blocks
}
