package schedule

import (
	"fmt"
	"time"

	"github.com/tmajkech/libsched/schedule/storage"
)

// Warning kinds produced by DetectSchedulingConflicts.
const (
	WarnOverlap        = "overlap"
	WarnBackToBack     = "back_to_back"
	WarnBufferConflict = "buffer_conflict"
	WarnBusyDay        = "overloaded_day"
	WarnDeadlineRisk   = "deadline_risk"
)

const (
	// backToBackGap is the spacing at or below which two meetings count
	// as back to back.
	backToBackGap = 5 * time.Minute
	// meetingMinutesLimit is the daily meeting load above which a day
	// is flagged.
	meetingMinutesLimit = 360
	// deadlineRiskThreshold is the number of same-day deadlines that
	// makes booking that day risky.
	deadlineRiskThreshold = 3
)

// SchedulingConflictWarning describes one problem with a proposed booking.
type SchedulingConflictWarning struct {
	Kind       string
	Severity   Severity
	Message    string
	ItemID     string
	ItemIDs    []string
	Suggestion string
}

// DetectSchedulingConflicts evaluates a candidate booking against the
// existing schedule before it is committed. Comparison is restricted to
// items sharing the candidate's calendar date. It reports hard overlaps,
// back-to-back spacing, buffer intrusions, heavy meeting days, and days
// crowded with deadlines. A candidate without both a start and an end
// yields no warnings.
func DetectSchedulingConflicts(candidate storage.Item, existing []storage.Item) []SchedulingConflictWarning {
	if !candidate.IsTimeBound() {
		return nil
	}
	cStart, cEnd := *candidate.StartAt, *candidate.EndAt
	cDay := midnightUTC(cStart)

	var warnings []SchedulingConflictWarning

	for i := range existing {
		e := &existing[i]
		if e.ID == candidate.ID || !e.IsTimeBound() {
			continue
		}
		if !midnightUTC(*e.StartAt).Equal(cDay) {
			continue
		}
		eStart, eEnd := *e.StartAt, *e.EndAt

		if overlaps(eStart, eEnd, cStart, cEnd) {
			warnings = append(warnings, SchedulingConflictWarning{
				Kind:       WarnOverlap,
				Severity:   SeverityHigh,
				Message:    fmt.Sprintf("overlaps with %q (%s-%s)", e.Title, eStart.Format("15:04"), eEnd.Format("15:04")),
				ItemID:     e.ID,
				Suggestion: fmt.Sprintf("move to after %s", eEnd.Format("15:04")),
			})
			continue
		}

		gap := cStart.Sub(eEnd)
		if gap < 0 {
			gap = eStart.Sub(cEnd)
		}
		if gap > 0 && gap <= backToBackGap {
			warnings = append(warnings, SchedulingConflictWarning{
				Kind:       WarnBackToBack,
				Severity:   SeverityLow,
				Message:    fmt.Sprintf("back to back with %q", e.Title),
				ItemID:     e.ID,
				Suggestion: "leave a short break between meetings",
			})
		}

		if before := time.Duration(e.BufferBefore) * time.Minute; before > 0 {
			if overlaps(eStart.Add(-before), eStart, cStart, cEnd) {
				warnings = append(warnings, SchedulingConflictWarning{
					Kind:       WarnBufferConflict,
					Severity:   SeverityMedium,
					Message:    fmt.Sprintf("cuts into the preparation time before %q", e.Title),
					ItemID:     e.ID,
					Suggestion: fmt.Sprintf("end by %s", eStart.Add(-before).Format("15:04")),
				})
			}
		}
		if after := time.Duration(e.BufferAfter) * time.Minute; after > 0 {
			if overlaps(eEnd, eEnd.Add(after), cStart, cEnd) {
				warnings = append(warnings, SchedulingConflictWarning{
					Kind:       WarnBufferConflict,
					Severity:   SeverityMedium,
					Message:    fmt.Sprintf("cuts into the wind-down time after %q", e.Title),
					ItemID:     e.ID,
					Suggestion: fmt.Sprintf("start after %s", eEnd.Add(after).Format("15:04")),
				})
			}
		}
	}

	meetingMinutes := candidate.DurationMinutes()
	var dayIDs []string
	for i := range existing {
		e := &existing[i]
		if e.ID == candidate.ID || e.Type != storage.TypeMeeting || !e.IsTimeBound() {
			continue
		}
		if midnightUTC(*e.StartAt).Equal(cDay) {
			meetingMinutes += e.DurationMinutes()
			dayIDs = append(dayIDs, e.ID)
		}
	}
	if meetingMinutes > meetingMinutesLimit {
		warnings = append(warnings, SchedulingConflictWarning{
			Kind:       WarnBusyDay,
			Severity:   SeverityMedium,
			Message:    fmt.Sprintf("this would bring the day to %d meeting minutes", meetingMinutes),
			ItemIDs:    dayIDs,
			Suggestion: "consider a lighter day",
		})
	}

	dueCount := 0
	for i := range existing {
		e := &existing[i]
		if e.Type != storage.TypeTask || e.Status == storage.StatusCompleted || e.DueAt == nil {
			continue
		}
		if midnightUTC(*e.DueAt).Equal(cDay) {
			dueCount++
		}
	}
	if dueCount >= deadlineRiskThreshold {
		warnings = append(warnings, SchedulingConflictWarning{
			Kind:       WarnDeadlineRisk,
			Severity:   SeverityMedium,
			Message:    fmt.Sprintf("%d deadlines already fall on this day", dueCount),
			Suggestion: "book a day with fewer deadlines",
		})
	}

	return warnings
}
