package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/tmajkech/libsched/schedule/storage"
)

// Severity grades a warning.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning kinds produced by AnalyzeWorkload.
const (
	WarnOverloaded      = "overloaded"
	WarnDeadlineCluster = "deadline_cluster"
	WarnConflict        = "conflict"
)

// WorkloadWarning flags a stretch of the upcoming schedule worth attention.
type WorkloadWarning struct {
	Kind       string
	Severity   Severity
	Message    string
	Dates      []string
	ItemIDs    []string
	Suggestion string
}

// WorkloadOptions configures AnalyzeWorkload.
type WorkloadOptions struct {
	// DaysAhead is the analysis horizon, starting today. Zero takes
	// the default (7).
	DaysAhead int
	// MaxItemsPerDay is the per-day load above which a day counts as
	// overloaded. Zero takes the default (5).
	MaxItemsPerDay int
	// Now is injectable for testing; defaults to time.Now.
	Now func() time.Time
}

// DefaultWorkloadOptions analyzes the next seven days with a cap of five
// items per day.
var DefaultWorkloadOptions = WorkloadOptions{
	DaysAhead:      7,
	MaxItemsPerDay: 5,
}

func (o WorkloadOptions) normalized() WorkloadOptions {
	if o.DaysAhead <= 0 {
		o.DaysAhead = DefaultWorkloadOptions.DaysAhead
	}
	if o.MaxItemsPerDay <= 0 {
		o.MaxItemsPerDay = DefaultWorkloadOptions.MaxItemsPerDay
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// AnalyzeWorkload inspects items falling inside the horizon and reports
// overloaded days, clusters of near-simultaneous deadlines, and hard time
// conflicts. Warnings are ordered overloaded days first, then clusters,
// then conflicts.
func AnalyzeWorkload(items []storage.Item, opts WorkloadOptions) []WorkloadWarning {
	opts = opts.normalized()
	today := midnightUTC(opts.Now())
	horizonEnd := today.AddDate(0, 0, opts.DaysAhead)

	byDay := map[string][]storage.Item{}
	for i := range items {
		anchor := items[i].Anchor()
		if anchor == nil {
			continue
		}
		day := midnightUTC(*anchor)
		if day.Before(today) || !day.Before(horizonEnd) {
			continue
		}
		key := day.Format("2006-01-02")
		byDay[key] = append(byDay[key], items[i])
	}

	var warnings []WorkloadWarning

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		dayItems := byDay[day]
		if len(dayItems) <= opts.MaxItemsPerDay {
			continue
		}
		severity := SeverityMedium
		if float64(len(dayItems)) > 1.5*float64(opts.MaxItemsPerDay) {
			severity = SeverityHigh
		}
		ids := make([]string, len(dayItems))
		for i := range dayItems {
			ids[i] = dayItems[i].ID
		}
		warnings = append(warnings, WorkloadWarning{
			Kind:       WarnOverloaded,
			Severity:   severity,
			Message:    fmt.Sprintf("%d items scheduled on %s (limit %d)", len(dayItems), day, opts.MaxItemsPerDay),
			Dates:      []string{day},
			ItemIDs:    ids,
			Suggestion: "move lower-priority items to a lighter day",
		})
	}

	warnings = append(warnings, deadlineClusters(items, today, horizonEnd)...)

	for _, c := range DetectConflicts(items) {
		warnings = append(warnings, WorkloadWarning{
			Kind:     WarnConflict,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("%q overlaps with %q", c.ItemA.Title, c.ItemB.Title),
			ItemIDs:  []string{c.ItemA.ID, c.ItemB.ID},
			Suggestion: fmt.Sprintf("reschedule %q to start after %s",
				c.ItemB.Title, c.ItemA.EndAt.Format("15:04")),
		})
	}

	return warnings
}

// deadlineClusters reports every run of three or more due dates packed into
// a 24-hour span. Runs starting at consecutive items may overlap; they are
// reported separately.
func deadlineClusters(items []storage.Item, today, horizonEnd time.Time) []WorkloadWarning {
	var due []storage.Item
	for i := range items {
		if items[i].DueAt == nil {
			continue
		}
		day := midnightUTC(*items[i].DueAt)
		if day.Before(today) || !day.Before(horizonEnd) {
			continue
		}
		due = append(due, items[i])
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DueAt.Before(*due[j].DueAt)
	})

	var warnings []WorkloadWarning
	for i := range due {
		j := i
		for j+1 < len(due) && due[j+1].DueAt.Sub(*due[i].DueAt) <= 24*time.Hour {
			j++
		}
		run := due[i : j+1]
		if len(run) < 3 {
			continue
		}
		ids := make([]string, len(run))
		dates := map[string]struct{}{}
		for k := range run {
			ids[k] = run[k].ID
			dates[run[k].DueAt.Format("2006-01-02")] = struct{}{}
		}
		dateList := make([]string, 0, len(dates))
		for d := range dates {
			dateList = append(dateList, d)
		}
		sort.Strings(dateList)
		warnings = append(warnings, WorkloadWarning{
			Kind:     WarnDeadlineCluster,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("%d deadlines fall within 24 hours of %s", len(run), due[i].DueAt.Format("Jan 2 15:04")),
			Dates:    dateList,
			ItemIDs:  ids,
			Suggestion: "start the earliest deadline ahead of time",
		})
	}
	return warnings
}
