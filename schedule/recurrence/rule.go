// Package recurrence turns free-text recurrence rules into normalized
// configs, expands recurring templates into dated occurrences, and
// materializes occurrences into storage. Virtual expansion and persisted
// materialization share one rrule-backed stepper so the two can never drift.
package recurrence

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Rule identifies a recurrence frequency.
type Rule string

const (
	RuleDaily    Rule = "daily"
	RuleWeekly   Rule = "weekly"
	RuleBiweekly Rule = "biweekly"
	RuleMonthly  Rule = "monthly"
	RuleYearly   Rule = "yearly"
)

// Config is the normalized form of a recurrence rule string. It is derived,
// never persisted.
type Config struct {
	Rule     Rule
	Interval int
	// DaysOfWeek restricts occurrences to the given weekdays. Only the
	// "weekdays" alias sets it (Mon-Fri).
	DaysOfWeek []time.Weekday
	// DayOfMonth pins monthly rules to a fixed day of month. Zero means
	// the base date's day.
	DayOfMonth int
	// EndDate and Count cap expansion when set.
	EndDate *time.Time
	Count   int
}

var everyPattern = regexp.MustCompile(`^every\s+(\d+)\s+(day|week|month|year)s?$`)

// ParseRule normalizes a free-text recurrence rule. It recognizes the exact
// keywords daily, weekly, biweekly, monthly, yearly and weekdays, plus the
// pattern "every <n> day|week|month|year(s)". Anything else silently falls
// back to weekly with interval 1; the function never fails.
func ParseRule(raw string) Config {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch s {
	case "daily":
		return Config{Rule: RuleDaily, Interval: 1}
	case "weekly":
		return Config{Rule: RuleWeekly, Interval: 1}
	case "biweekly":
		return Config{Rule: RuleBiweekly, Interval: 1}
	case "monthly":
		return Config{Rule: RuleMonthly, Interval: 1}
	case "yearly":
		return Config{Rule: RuleYearly, Interval: 1}
	case "weekdays":
		return Config{
			Rule:     RuleDaily,
			Interval: 1,
			DaysOfWeek: []time.Weekday{
				time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
			},
		}
	}

	if m := everyPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n < 1 {
			n = 1
		}
		var rule Rule
		switch m[2] {
		case "day":
			rule = RuleDaily
		case "week":
			rule = RuleWeekly
		case "month":
			rule = RuleMonthly
		case "year":
			rule = RuleYearly
		}
		return Config{Rule: rule, Interval: n}
	}

	return Config{Rule: RuleWeekly, Interval: 1}
}

// RRule renders the config as an RFC 5545 RRULE value, e.g. for iCalendar
// export.
func (c Config) RRule() string {
	var freq string
	interval := c.Interval
	switch c.Rule {
	case RuleDaily:
		freq = "DAILY"
	case RuleMonthly:
		freq = "MONTHLY"
	case RuleYearly:
		freq = "YEARLY"
	case RuleBiweekly:
		freq = "WEEKLY"
		interval = 2
	default:
		freq = "WEEKLY"
	}

	parts := []string{"FREQ=" + freq}
	if interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(interval))
	}
	if len(c.DaysOfWeek) > 0 {
		days := make([]string, len(c.DaysOfWeek))
		for i, wd := range c.DaysOfWeek {
			days[i] = rruleDayNames[wd]
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}
	if c.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(c.Count))
	}
	return strings.Join(parts, ";")
}

var rruleDayNames = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}
