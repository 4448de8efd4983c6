package schedule

import (
	"sort"
	"time"

	"github.com/tmajkech/libsched/schedule/storage"
)

// Conflict is an unordered pair of time-bound items whose windows strictly
// overlap.
type Conflict struct {
	ItemA storage.Item
	ItemB storage.Item
}

// DetectConflicts reports every pair of items whose windows strictly
// overlap; touching endpoints do not conflict. Items without both bounds
// are ignored. Pairs come back in discovery order over the start-sorted
// list. The scan is a full pairwise pass, O(n²) on the time-bound subset.
func DetectConflicts(items []storage.Item) []Conflict {
	timed := make([]storage.Item, 0, len(items))
	for _, item := range items {
		if item.IsTimeBound() {
			timed = append(timed, item)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].StartAt.Before(*timed[j].StartAt)
	})

	var conflicts []Conflict
	for i := 0; i < len(timed); i++ {
		for j := i + 1; j < len(timed); j++ {
			if overlaps(*timed[i].StartAt, *timed[i].EndAt, *timed[j].StartAt, *timed[j].EndAt) {
				conflicts = append(conflicts, Conflict{ItemA: timed[i], ItemB: timed[j]})
			}
		}
	}
	return conflicts
}

// overlaps reports strict interval overlap: bStart < aEnd && bEnd > aStart.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return bStart.Before(aEnd) && bEnd.After(aStart)
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
