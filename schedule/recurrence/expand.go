package recurrence

import (
	"fmt"
	"sort"
	"time"

	"github.com/tmajkech/libsched/schedule/storage"
)

// ExpandedItem is a virtual, display-only occurrence. For instances of a
// template the ID is synthetic ("<templateID>-<YYYY-MM-DD>") and must never
// be written to storage.
type ExpandedItem struct {
	storage.Item
	IsInstance   bool
	InstanceDate string
	OriginalID   string
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Expand returns the occurrences of items inside the window. Non-recurring
// items whose start or due date falls inside pass through as a single
// non-instance entry; templates are stepped through the shared stepper, with
// each retained occurrence keeping the template's time-of-day on the
// occurrence date. now anchors templates that carry neither a start nor a
// creation date. Storage is never touched.
func Expand(items []storage.Item, window Window, now time.Time) []ExpandedItem {
	var out []ExpandedItem
	for i := range items {
		item := items[i]
		if !item.IsTemplate() {
			if anchorInWindow(&item, window) {
				out = append(out, ExpandedItem{Item: item})
			}
			continue
		}
		out = append(out, expandTemplate(&item, window, now)...)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return sortKey(&out[a]) < sortKey(&out[b])
	})
	return out
}

func anchorInWindow(item *storage.Item, w Window) bool {
	at := item.StartAt
	if at == nil {
		at = item.DueAt
	}
	if at == nil {
		return false
	}
	return !at.Before(w.Start) && !at.After(w.End)
}

func expandTemplate(tmpl *storage.Item, w Window, now time.Time) []ExpandedItem {
	base := now
	switch {
	case tmpl.StartAt != nil:
		base = *tmpl.StartAt
	case !tmpl.CreatedAt.IsZero():
		base = tmpl.CreatedAt
	}
	base = midnightUTC(base)

	end := w.End
	if tmpl.RecurrenceEnd != nil && tmpl.RecurrenceEnd.Before(end) {
		end = *tmpl.RecurrenceEnd
	}

	stepper, err := NewStepper(ParseRule(tmpl.RecurrenceRule), base, end)
	if err != nil {
		return nil
	}

	var out []ExpandedItem
	for {
		occ, ok := stepper.Next()
		if !ok {
			break
		}
		if occ.After(end) {
			break
		}
		if occ.Before(w.Start) {
			continue
		}
		out = append(out, newInstance(tmpl, occ))
	}
	return out
}

func newInstance(tmpl *storage.Item, day time.Time) ExpandedItem {
	date := day.Format("2006-01-02")

	inst := *tmpl
	inst.ID = fmt.Sprintf("%s-%s", tmpl.ID, date)
	inst.RecurrenceRule = ""
	inst.RecurrenceEnd = nil
	if tmpl.StartAt != nil {
		t := onDay(day, *tmpl.StartAt)
		inst.StartAt = &t
	}
	if tmpl.EndAt != nil {
		t := onDay(day, *tmpl.EndAt)
		inst.EndAt = &t
	}
	if tmpl.DueAt != nil {
		t := onDay(day, *tmpl.DueAt)
		inst.DueAt = &t
	}

	return ExpandedItem{
		Item:         inst,
		IsInstance:   true,
		InstanceDate: date,
		OriginalID:   tmpl.ID,
	}
}

// onDay shifts t onto day's calendar date while preserving its time-of-day.
func onDay(day, t time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sortKey orders expanded items by startAt, else dueAt, else the instance
// date; ISO-8601 strings sort lexically.
func sortKey(e *ExpandedItem) string {
	if e.StartAt != nil {
		return e.StartAt.UTC().Format(time.RFC3339)
	}
	if e.DueAt != nil {
		return e.DueAt.UTC().Format(time.RFC3339)
	}
	return e.InstanceDate
}
