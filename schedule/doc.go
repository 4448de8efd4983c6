/*
Package schedule provides the scheduling computations of the organizer:
conflict detection, free/busy slot finding, greedy task placement, study
plans, workload analysis and pre-booking checks.

Every function in this package is a pure computation over an in-memory
snapshot of items — callers fetch items from a storage.Store, pass them in,
and render the result. Nothing here blocks or writes back; persisting
recurring occurrences is the recurrence package's job.

# Basic Usage

	items, _ := store.List(ctx, userID, storage.Filter{})

	conflicts := schedule.DetectConflicts(items)

	slots := schedule.FindAvailableSlots(items, schedule.SlotOptions{
		StartDate: today,
		EndDate:   today.AddDate(0, 0, 7),
	})

	best := schedule.FindBestSlotForDuration(items, 90, schedule.SlotOptions{
		StartDate: today,
		EndDate:   today.AddDate(0, 0, 7),
	})
	if slot, ok := best.Get(); ok {
		// book it
	}

All timestamps are treated as already-normalized UTC instants; timezone
conversion happens before they reach this package.
*/
package schedule
