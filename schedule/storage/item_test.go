package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestItem_EffectiveWindow(t *testing.T) {
	start := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		before, after int
		wantStart     time.Time
		wantEnd       time.Time
	}{
		{
			name:      "no buffers",
			wantStart: start,
			wantEnd:   end,
		},
		{
			name:      "buffer after widens the end",
			after:     15,
			wantStart: start,
			wantEnd:   end.Add(15 * time.Minute),
		},
		{
			name:      "both buffers",
			before:    10,
			after:     5,
			wantStart: start.Add(-10 * time.Minute),
			wantEnd:   end.Add(5 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewTimedItem("i1", TypeMeeting, "standup", start, end)
			item.BufferBefore = tt.before
			item.BufferAfter = tt.after

			gotStart, gotEnd := item.EffectiveWindow()
			assert.True(t, gotStart.Equal(tt.wantStart))
			assert.True(t, gotEnd.Equal(tt.wantEnd))
		})
	}
}

func TestItem_DurationMinutes(t *testing.T) {
	start := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	item := NewTimedItem("i1", TypeMeeting, "standup", start, start.Add(90*time.Minute))
	assert.Equal(t, 90, item.DurationMinutes())

	due := NewDueItem("i2", TypeTask, "report", start)
	assert.Equal(t, 0, due.DurationMinutes())
	assert.False(t, due.IsTimeBound())
}

func TestFilter_Matches(t *testing.T) {
	start := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 6, 17, 0, 0, 0, time.UTC)

	meeting := NewTimedItem("m1", TypeMeeting, "standup", start, start.Add(time.Hour))
	task := NewDueItem("t1", TypeTask, "report", due)
	task.Status = StatusInProgress
	instance := NewDueItem("t2", TypeTask, "reading", due)
	instance.OriginalItemID = "tpl-1"

	assert.True(t, Filter{}.Matches(&meeting))
	assert.True(t, Filter{Types: []ItemType{TypeMeeting}}.Matches(&meeting))
	assert.False(t, Filter{Types: []ItemType{TypeSchool}}.Matches(&meeting))
	assert.True(t, Filter{Statuses: []Status{StatusInProgress}}.Matches(&task))
	assert.False(t, Filter{Statuses: []Status{StatusCompleted}}.Matches(&task))
	assert.True(t, Filter{OriginalItemID: "tpl-1"}.Matches(&instance))
	assert.False(t, Filter{OriginalItemID: "tpl-1"}.Matches(&task))

	from := due.Add(-time.Hour)
	to := due.Add(time.Hour)
	assert.True(t, Filter{From: &from, To: &to}.Matches(&task))
	assert.False(t, Filter{From: &to}.Matches(&task))
	// the meeting anchors on its start, which is before the range
	assert.False(t, Filter{From: &from, To: &to}.Matches(&meeting))
}
