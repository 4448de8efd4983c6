package recurrence

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmajkech/libsched/schedule/storage"
)

func TestExpand_WeeklyTemplateOverFourWeeks(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) // Monday
	end := start.Add(time.Hour)
	tmpl := storage.NewTimedItem("tpl-1", storage.TypeMeeting, "team sync", start, end)
	tmpl.RecurrenceRule = "weekly"

	window := Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
	}
	now := window.Start

	got := Expand([]storage.Item{tmpl}, window, now)

	require.Len(t, got, 4)
	var prev time.Time
	for i, inst := range got {
		assert.True(t, inst.IsInstance)
		assert.Equal(t, "tpl-1", inst.OriginalID)
		assert.Equal(t, fmt.Sprintf("tpl-1-%s", inst.InstanceDate), inst.ID)
		assert.Empty(t, inst.RecurrenceRule, "instances never carry a rule")

		require.NotNil(t, inst.StartAt)
		assert.Equal(t, 10, inst.StartAt.Hour(), "time-of-day is preserved")
		if i > 0 {
			assert.True(t, inst.StartAt.After(prev), "dates strictly ascend")
		}
		prev = *inst.StartAt
	}
	assert.Equal(t, "2024-01-22", got[3].InstanceDate)
}

func TestExpand_RespectsRecurrenceEnd(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tmpl := storage.NewTimedItem("tpl-1", storage.TypeMeeting, "team sync", start, start.Add(time.Hour))
	tmpl.RecurrenceRule = "weekly"
	recEnd := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	tmpl.RecurrenceEnd = &recEnd

	window := Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC),
	}

	got := Expand([]storage.Item{tmpl}, window, window.Start)
	require.Len(t, got, 3, "nothing past recurrenceEnd")
	assert.Equal(t, "2024-01-15", got[2].InstanceDate)
}

func TestExpand_NonRecurringPassThrough(t *testing.T) {
	window := Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	}

	inside := storage.NewTimedItem("m1", storage.TypeMeeting, "kickoff",
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))
	dueInside := storage.NewDueItem("t1", storage.TypeTask, "report",
		time.Date(2024, 1, 5, 17, 0, 0, 0, time.UTC))
	outside := storage.NewTimedItem("m2", storage.TypeMeeting, "next month",
		time.Date(2024, 2, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC))
	dateless := storage.Item{ID: "x1", Type: storage.TypeTask, Title: "someday"}

	got := Expand([]storage.Item{inside, dueInside, outside, dateless}, window, window.Start)

	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.False(t, got[0].IsInstance)
	assert.Equal(t, "t1", got[1].ID)
}

func TestExpand_SortsAcrossItems(t *testing.T) {
	window := Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
	}

	daily := storage.NewTimedItem("tpl-d", storage.TypeSchool, "reading",
		time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	daily.RecurrenceRule = "every 5 days"
	single := storage.NewTimedItem("m1", storage.TypeMeeting, "review",
		time.Date(2024, 1, 4, 13, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 4, 14, 0, 0, 0, time.UTC))

	got := Expand([]storage.Item{single, daily}, window, window.Start)

	require.Len(t, got, 4) // Jan 2, 7, 12 instances plus the meeting
	ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	assert.Equal(t, []string{"tpl-d-2024-01-02", "m1", "tpl-d-2024-01-07", "tpl-d-2024-01-12"}, ids)
}

func TestExpand_TemplateWithoutStartUsesCreatedAt(t *testing.T) {
	window := Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	due := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)
	tmpl := storage.NewDueItem("tpl-1", storage.TypeTask, "water plants", due)
	tmpl.RecurrenceRule = "daily"
	tmpl.CreatedAt = time.Date(2024, 1, 2, 11, 30, 0, 0, time.UTC)

	got := Expand([]storage.Item{tmpl}, window, window.Start)

	require.NotEmpty(t, got)
	assert.Equal(t, "2024-01-02", got[0].InstanceDate, "base is createdAt truncated to midnight")
	require.NotNil(t, got[0].DueAt)
	assert.Equal(t, 18, got[0].DueAt.Hour())
	assert.Len(t, got, 9)
}
