// Package ical bridges schedulable items and iCalendar data. VEVENT
// components map to meetings, VTODO components to tasks. The bridge is
// lossy on purpose: only the properties the engine understands survive a
// round trip.
package ical

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	goical "github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/tmajkech/libsched/schedule/recurrence"
	"github.com/tmajkech/libsched/schedule/storage"
)

const prodID = "-//libsched//Scheduling Engine//EN"

// FromCalendar converts the components of a parsed calendar into items.
// VEVENTs become meetings, VTODOs become tasks with a deadline. Components
// the engine cannot represent are skipped, not rejected.
func FromCalendar(cal *goical.Calendar) []storage.Item {
	now := time.Now().UTC()

	var items []storage.Item
	for _, comp := range cal.Children {
		switch comp.Name {
		case goical.CompEvent:
			item := storage.Item{
				ID:        componentUID(comp),
				Type:      storage.TypeMeeting,
				Status:    storage.StatusNotStarted,
				Title:     textProp(comp, goical.PropSummary),
				Details:   textProp(comp, goical.PropDescription),
				CreatedAt: now,
				UpdatedAt: now,
			}
			start, err := comp.Props.DateTime(goical.PropDateTimeStart, time.UTC)
			if err != nil {
				continue
			}
			end, err := comp.Props.DateTime(goical.PropDateTimeEnd, time.UTC)
			if err != nil {
				end = start.Add(time.Hour)
			}
			item.StartAt, item.EndAt = &start, &end
			item.RecurrenceRule = ruleFromComponent(comp)
			items = append(items, item)

		case goical.CompToDo:
			item := storage.Item{
				ID:        componentUID(comp),
				Type:      storage.TypeTask,
				Status:    storage.StatusNotStarted,
				Title:     textProp(comp, goical.PropSummary),
				Details:   textProp(comp, goical.PropDescription),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if due, err := comp.Props.DateTime(goical.PropDue, time.UTC); err == nil {
				item.DueAt = &due
			}
			item.RecurrenceRule = ruleFromComponent(comp)
			items = append(items, item)
		}
	}
	return items
}

// ToCalendar renders items as a calendar. Time-bound items become VEVENTs,
// deadline-only items become VTODOs; items with neither are skipped.
func ToCalendar(items []storage.Item) *goical.Calendar {
	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, prodID)

	now := time.Now().UTC()
	for i := range items {
		item := &items[i]

		var comp *goical.Component
		switch {
		case item.IsTimeBound():
			comp = goical.NewComponent(goical.CompEvent)
			comp.Props.SetDateTime(goical.PropDateTimeStart, item.StartAt.UTC())
			comp.Props.SetDateTime(goical.PropDateTimeEnd, item.EndAt.UTC())
		case item.DueAt != nil:
			comp = goical.NewComponent(goical.CompToDo)
			comp.Props.SetDateTime(goical.PropDue, item.DueAt.UTC())
		default:
			continue
		}

		uid := item.ID
		if uid == "" {
			uid = uuid.NewString()
		}
		comp.Props.SetText(goical.PropUID, uid)
		comp.Props.SetText(goical.PropSummary, item.Title)
		if item.Details != "" {
			comp.Props.SetText(goical.PropDescription, item.Details)
		}
		comp.Props.SetDateTime(goical.PropDateTimeStamp, now)

		if item.IsTemplate() {
			cfg := recurrence.ParseRule(item.RecurrenceRule)
			comp.Props.SetText(goical.PropRecurrenceRule, cfg.RRule())
		}

		cal.Children = append(cal.Children, comp)
	}
	return cal
}

// DecodeItems reads one iCalendar stream and returns its items.
func DecodeItems(r io.Reader) ([]storage.Item, error) {
	cal, err := goical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}
	return FromCalendar(cal), nil
}

// EncodeItems writes items to w as one iCalendar stream.
func EncodeItems(w io.Writer, items []storage.Item) error {
	if err := goical.NewEncoder(w).Encode(ToCalendar(items)); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func componentUID(comp *goical.Component) string {
	if uid := textProp(comp, goical.PropUID); uid != "" {
		return uid
	}
	return uuid.NewString()
}

func textProp(comp *goical.Component, name string) string {
	if p := comp.Props.Get(name); p != nil {
		return p.Value
	}
	return ""
}

// ruleFromComponent maps the simple RRULEs the engine understands back to
// their free-text form. BYDAY sets and anything beyond a plain FREQ plus
// INTERVAL are dropped.
func ruleFromComponent(comp *goical.Component) string {
	p := comp.Props.Get(goical.PropRecurrenceRule)
	if p == nil || p.Value == "" {
		return ""
	}

	freq, interval := "", 1
	for _, part := range strings.Split(p.Value, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(k) {
		case "FREQ":
			freq = strings.ToUpper(v)
		case "INTERVAL":
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				interval = n
			}
		}
	}

	var keyword, unit string
	switch freq {
	case "DAILY":
		keyword, unit = "daily", "day"
	case "WEEKLY":
		keyword, unit = "weekly", "week"
	case "MONTHLY":
		keyword, unit = "monthly", "month"
	case "YEARLY":
		keyword, unit = "yearly", "year"
	default:
		return ""
	}

	if interval == 1 {
		return keyword
	}
	if freq == "WEEKLY" && interval == 2 {
		return "biweekly"
	}
	return fmt.Sprintf("every %d %ss", interval, unit)
}
