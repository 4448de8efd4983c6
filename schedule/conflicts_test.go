package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmajkech/libsched/schedule/storage"
)

func at(day time.Time, hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func TestDetectConflicts(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("overlapping pair", func(t *testing.T) {
		items := []storage.Item{
			storage.NewTimedItem("a", storage.TypeMeeting, "standup", at(day, 10, 0), at(day, 11, 0)),
			storage.NewTimedItem("b", storage.TypeMeeting, "review", at(day, 10, 30), at(day, 11, 30)),
		}

		conflicts := DetectConflicts(items)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "a", conflicts[0].ItemA.ID)
		assert.Equal(t, "b", conflicts[0].ItemB.ID)
	})

	t.Run("touching endpoints do not conflict", func(t *testing.T) {
		items := []storage.Item{
			storage.NewTimedItem("a", storage.TypeMeeting, "standup", at(day, 10, 0), at(day, 11, 0)),
			storage.NewTimedItem("b", storage.TypeMeeting, "review", at(day, 11, 0), at(day, 12, 0)),
		}

		assert.Empty(t, DetectConflicts(items))
	})

	t.Run("items without both bounds are ignored", func(t *testing.T) {
		open := storage.NewDueItem("due", storage.TypeTask, "essay", at(day, 10, 30))
		items := []storage.Item{
			storage.NewTimedItem("a", storage.TypeMeeting, "standup", at(day, 10, 0), at(day, 11, 0)),
			open,
		}

		assert.Empty(t, DetectConflicts(items))
	})

	t.Run("one item overlapping several", func(t *testing.T) {
		items := []storage.Item{
			storage.NewTimedItem("late", storage.TypeMeeting, "sync", at(day, 10, 30), at(day, 11, 30)),
			storage.NewTimedItem("long", storage.TypeMeeting, "workshop", at(day, 9, 0), at(day, 13, 0)),
			storage.NewTimedItem("early", storage.TypeMeeting, "standup", at(day, 9, 30), at(day, 10, 0)),
		}

		conflicts := DetectConflicts(items)
		require.Len(t, conflicts, 2)
		// Pairs follow the start-sorted order of the input.
		assert.Equal(t, "long", conflicts[0].ItemA.ID)
		assert.Equal(t, "early", conflicts[0].ItemB.ID)
		assert.Equal(t, "long", conflicts[1].ItemA.ID)
		assert.Equal(t, "late", conflicts[1].ItemB.ID)
	})
}
