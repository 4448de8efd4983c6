package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmajkech/libsched/schedule/storage"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSuggestTaskBlocks(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	opts := SuggestOptions{Now: fixedNow(at(monday, 8, 0))}

	newTask := func(id string, minutes int) storage.Item {
		return storage.Item{
			ID:               id,
			Type:             storage.TypeTask,
			Status:           storage.StatusNotStarted,
			Title:            id,
			EstimatedMinutes: minutes,
		}
	}

	t.Run("accepted blocks are reserved", func(t *testing.T) {
		tasks := []storage.Item{newTask("t1", 60), newTask("t2", 30)}

		blocks := SuggestTaskBlocks(tasks, nil, opts)

		require.Len(t, blocks, 2)
		assert.Equal(t, at(monday, 9, 0), blocks[0].Start)
		assert.Equal(t, at(monday, 10, 0), blocks[0].End)
		assert.Equal(t, at(monday, 10, 0), blocks[1].Start)
		assert.Equal(t, at(monday, 10, 30), blocks[1].End)
	})

	t.Run("busy events push blocks later", func(t *testing.T) {
		events := []storage.Item{
			storage.NewTimedItem("m", storage.TypeMeeting, "morning", at(monday, 9, 0), at(monday, 11, 45)),
		}

		blocks := SuggestTaskBlocks([]storage.Item{newTask("t1", 60)}, events, opts)

		require.Len(t, blocks, 1)
		// 11:45 is not on the half-hour grid, so the first candidate
		// clear of the meeting is 12:00.
		assert.Equal(t, at(monday, 12, 0), blocks[0].Start)
	})

	t.Run("missing estimate defaults to half an hour", func(t *testing.T) {
		blocks := SuggestTaskBlocks([]storage.Item{newTask("t1", 0)}, nil, opts)

		require.Len(t, blocks, 1)
		assert.Equal(t, 30, blocks[0].DurationMinutes)
	})

	t.Run("unplaceable tasks are omitted", func(t *testing.T) {
		var events []storage.Item
		for d := 0; d < 5; d++ {
			day := monday.AddDate(0, 0, d)
			events = append(events, storage.NewTimedItem("busy", storage.TypeMeeting, "offsite",
				at(day, 9, 0), at(day, 18, 0)))
		}

		blocks := SuggestTaskBlocks([]storage.Item{newTask("t1", 60)}, events, opts)

		assert.Empty(t, blocks)
	})

	t.Run("oversized task spills to the full day", func(t *testing.T) {
		blocks := SuggestTaskBlocks([]storage.Item{newTask("t1", 540)}, nil, opts)

		require.Len(t, blocks, 1)
		assert.Equal(t, at(monday, 9, 0), blocks[0].Start)
		assert.Equal(t, at(monday, 18, 0), blocks[0].End)
	})
}
