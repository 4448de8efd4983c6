package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// maxInstances bounds every stepping loop so a malformed template can never
// expand forever.
const maxInstances = 365

// Stepper walks the occurrence dates of a recurrence config from a base
// date. Both virtual expansion and the persisting Materializer run on the
// same stepper.
type Stepper struct {
	next rrule.Next
}

// NewStepper builds a stepper for cfg starting at base (the base itself is
// the first occurrence). until, when non-zero, caps occurrences at that
// instant inclusive. Occurrence count is capped at min(cfg.Count, 365).
func NewStepper(cfg Config, base, until time.Time) (*Stepper, error) {
	opt := rrule.ROption{
		Dtstart:  base.UTC(),
		Interval: cfg.Interval,
	}
	if opt.Interval < 1 {
		opt.Interval = 1
	}

	switch cfg.Rule {
	case RuleDaily:
		opt.Freq = rrule.DAILY
	case RuleWeekly:
		opt.Freq = rrule.WEEKLY
	case RuleBiweekly:
		// Biweekly has always meant exactly 14 days, whatever interval
		// the config carries.
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
	case RuleMonthly:
		opt.Freq = rrule.MONTHLY
	case RuleYearly:
		opt.Freq = rrule.YEARLY
	default:
		opt.Freq = rrule.WEEKLY
	}

	for _, wd := range cfg.DaysOfWeek {
		opt.Byweekday = append(opt.Byweekday, rruleWeekday(wd))
	}

	if !until.IsZero() {
		opt.Until = until.UTC()
	}
	if cfg.EndDate != nil && (opt.Until.IsZero() || cfg.EndDate.Before(opt.Until)) {
		opt.Until = cfg.EndDate.UTC()
	}

	count := cfg.Count
	if count <= 0 || count > maxInstances {
		count = maxInstances
	}
	opt.Count = count

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build rrule for %q: %w", cfg.Rule, err)
	}
	return &Stepper{next: r.Iterator()}, nil
}

// Next returns the next occurrence, or false when the series is exhausted.
func (s *Stepper) Next() (time.Time, bool) {
	return s.next()
}

func rruleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
