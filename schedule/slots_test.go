package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmajkech/libsched/schedule/storage"
)

func TestFindAvailableSlots(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("empty day is one full slot", func(t *testing.T) {
		slots := FindAvailableSlots(nil, SlotOptions{StartDate: monday, EndDate: monday})

		require.Len(t, slots, 1)
		assert.Equal(t, at(monday, 9, 0), slots[0].Start)
		assert.Equal(t, at(monday, 18, 0), slots[0].End)
		assert.Equal(t, 540, slots[0].DurationMinutes)
	})

	t.Run("buffers widen the busy window", func(t *testing.T) {
		ev := storage.NewTimedItem("m", storage.TypeMeeting, "sync", at(monday, 10, 0), at(monday, 11, 0))
		ev.BufferAfter = 15

		slots := FindAvailableSlots([]storage.Item{ev}, SlotOptions{StartDate: monday, EndDate: monday})

		require.Len(t, slots, 2)
		assert.Equal(t, at(monday, 9, 0), slots[0].Start)
		assert.Equal(t, at(monday, 10, 0), slots[0].End)
		assert.Equal(t, at(monday, 11, 15), slots[1].Start)
		assert.Equal(t, at(monday, 18, 0), slots[1].End)
	})

	t.Run("short gaps are dropped", func(t *testing.T) {
		events := []storage.Item{
			storage.NewTimedItem("a", storage.TypeMeeting, "a", at(monday, 9, 0), at(monday, 12, 0)),
			storage.NewTimedItem("b", storage.TypeMeeting, "b", at(monday, 12, 20), at(monday, 18, 0)),
		}

		slots := FindAvailableSlots(events, SlotOptions{
			StartDate:          monday,
			EndDate:            monday,
			MinDurationMinutes: 30,
		})

		assert.Empty(t, slots)
	})

	t.Run("weekends are skipped by default", func(t *testing.T) {
		friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
		nextMonday := friday.AddDate(0, 0, 3)

		slots := FindAvailableSlots(nil, SlotOptions{StartDate: friday, EndDate: nextMonday})

		require.Len(t, slots, 2)
		assert.Equal(t, at(friday, 9, 0), slots[0].Start)
		assert.Equal(t, at(nextMonday, 9, 0), slots[1].Start)
	})

	t.Run("weekends included on request", func(t *testing.T) {
		friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
		nextMonday := friday.AddDate(0, 0, 3)

		slots := FindAvailableSlots(nil, SlotOptions{
			StartDate:       friday,
			EndDate:         nextMonday,
			IncludeWeekends: true,
		})

		assert.Len(t, slots, 4)
	})

	t.Run("inverted range yields nothing", func(t *testing.T) {
		slots := FindAvailableSlots(nil, SlotOptions{StartDate: monday, EndDate: monday.AddDate(0, 0, -1)})
		assert.Empty(t, slots)
	})

	t.Run("events outside working hours leave the day intact", func(t *testing.T) {
		ev := storage.NewTimedItem("late", storage.TypeMeeting, "dinner", at(monday, 19, 0), at(monday, 21, 0))

		slots := FindAvailableSlots([]storage.Item{ev}, SlotOptions{StartDate: monday, EndDate: monday})

		require.Len(t, slots, 1)
		assert.Equal(t, 540, slots[0].DurationMinutes)
	})
}

func TestFindBestSlotForDuration(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("first fitting slot wins", func(t *testing.T) {
		events := []storage.Item{
			storage.NewTimedItem("a", storage.TypeMeeting, "a", at(monday, 9, 30), at(monday, 12, 0)),
		}

		best := FindBestSlotForDuration(events, 90, SlotOptions{StartDate: monday, EndDate: monday})

		require.True(t, best.IsPresent())
		slot := best.MustGet()
		assert.Equal(t, at(monday, 12, 0), slot.Start)
		assert.Equal(t, at(monday, 18, 0), slot.End)
	})

	t.Run("none when nothing fits", func(t *testing.T) {
		events := []storage.Item{
			storage.NewTimedItem("a", storage.TypeMeeting, "a", at(monday, 9, 0), at(monday, 17, 30)),
		}

		best := FindBestSlotForDuration(events, 60, SlotOptions{StartDate: monday, EndDate: monday})

		assert.True(t, best.IsAbsent())
	})
}
