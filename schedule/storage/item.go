package storage

import "time"

// ItemType classifies a schedulable item.
type ItemType string

const (
	TypeTask    ItemType = "task"
	TypeMeeting ItemType = "meeting"
	TypeSchool  ItemType = "school"
)

// Status is the lifecycle state of an item.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

// Item is a schedulable entry: a task, meeting or school item with optional
// time bounds and/or a deadline. All timestamps are treated as
// already-normalized UTC instants; timezone conversion is the caller's job.
type Item struct {
	ID       string
	UserID   string
	Type     ItemType
	Status   Status
	Priority string
	Title    string
	Details  string
	Tags     []string

	// Time-bound window. Both bounds must be set for the item to take
	// part in conflict detection and free/busy computation.
	StartAt *time.Time
	EndAt   *time.Time

	// DueAt is a deadline, independent of the time-bound window.
	DueAt *time.Time

	EstimatedMinutes int

	// Guard minutes widening the window, honoured by the slot finder and
	// the scheduling advisor.
	BufferBefore int
	BufferAfter  int

	// RecurrenceRule marks the item as a template. A materialized
	// occurrence references its template via OriginalItemID and never
	// carries a rule of its own, which prevents recursive expansion.
	RecurrenceRule string
	RecurrenceEnd  *time.Time
	OriginalItemID string

	CourseID  string
	ProjectID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTimeBound reports whether the item occupies a concrete window.
func (i *Item) IsTimeBound() bool {
	return i.StartAt != nil && i.EndAt != nil
}

// IsTemplate reports whether the item is the source definition of a
// recurring series.
func (i *Item) IsTemplate() bool {
	return i.RecurrenceRule != ""
}

// DurationMinutes returns the length of the time-bound window, or 0 when
// the item has no window.
func (i *Item) DurationMinutes() int {
	if !i.IsTimeBound() {
		return 0
	}
	return int(i.EndAt.Sub(*i.StartAt).Minutes())
}

// EffectiveWindow returns the time-bound window widened by the item's
// buffers. Callers must check IsTimeBound first.
func (i *Item) EffectiveWindow() (start, end time.Time) {
	start = i.StartAt.Add(-time.Duration(i.BufferBefore) * time.Minute)
	end = i.EndAt.Add(time.Duration(i.BufferAfter) * time.Minute)
	return start, end
}

// Anchor returns the item's scheduling anchor: the deadline when present,
// otherwise the window start. Nil when the item has neither.
func (i *Item) Anchor() *time.Time {
	if i.DueAt != nil {
		return i.DueAt
	}
	return i.StartAt
}
