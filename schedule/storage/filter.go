package storage

import "time"

// Filter narrows List results. The zero value matches every item.
type Filter struct {
	Types    []ItemType
	Statuses []Status
	// OriginalItemID selects the materialized occurrences of a template.
	OriginalItemID string
	// From/To restrict to items whose anchor time (dueAt, else startAt)
	// falls inside the range. Either bound may be nil.
	From *time.Time
	To   *time.Time
}

// Matches reports whether the item satisfies every set constraint.
func (f Filter) Matches(item *Item) bool {
	if len(f.Types) > 0 && !containsType(f.Types, item.Type) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, item.Status) {
		return false
	}
	if f.OriginalItemID != "" && item.OriginalItemID != f.OriginalItemID {
		return false
	}
	if f.From != nil || f.To != nil {
		at := item.Anchor()
		if at == nil {
			return false
		}
		if f.From != nil && at.Before(*f.From) {
			return false
		}
		if f.To != nil && at.After(*f.To) {
			return false
		}
	}
	return true
}

func containsType(types []ItemType, t ItemType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

func containsStatus(statuses []Status, s Status) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
