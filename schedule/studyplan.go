package schedule

import (
	"math"
	"time"

	"github.com/tmajkech/libsched/schedule/storage"
)

// SessionKind distinguishes fresh study time from short review passes.
type SessionKind string

const (
	SessionStudy  SessionKind = "study"
	SessionReview SessionKind = "review"
)

// reviewWindow is how far ahead a due date still earns a review session.
const reviewWindow = 72 * time.Hour

// slotTailMinutes is the smallest leftover worth keeping a slot open for.
const slotTailMinutes = 30

// StudySession is one planned sitting for a school item.
type StudySession struct {
	ItemID          string
	Title           string
	Kind            SessionKind
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// StudyPlanOptions configures GenerateStudyPlan.
type StudyPlanOptions struct {
	// ExamDate bounds the plan. Zero means two weeks from now.
	ExamDate time.Time
	// TotalHours caps the planned study time; zero means no cap beyond
	// the per-day session limit.
	TotalHours int
	// SessionsPerDay scales the overall session cap: at most
	// daysUntilExam * SessionsPerDay sessions are planned. Zero takes
	// the default (2).
	SessionsPerDay int
	// SessionDurationMinutes is the length of a study sitting. Zero
	// takes the default (60).
	SessionDurationMinutes int
	// Preferred study hours. Zero values take the defaults (9 and 21).
	PreferredStartHour int
	PreferredEndHour   int
	// Now is injectable for testing; defaults to time.Now.
	Now func() time.Time
}

// DefaultStudyPlanOptions plans two one-hour sessions a day between 09:00
// and 21:00 up to the exam date.
var DefaultStudyPlanOptions = StudyPlanOptions{
	SessionsPerDay:         2,
	SessionDurationMinutes: 60,
	PreferredStartHour:     9,
	PreferredEndHour:       21,
}

func (o StudyPlanOptions) normalized(now time.Time) StudyPlanOptions {
	if o.ExamDate.IsZero() {
		o.ExamDate = now.AddDate(0, 0, 14)
	}
	if o.SessionsPerDay <= 0 {
		o.SessionsPerDay = DefaultStudyPlanOptions.SessionsPerDay
	}
	if o.SessionDurationMinutes <= 0 {
		o.SessionDurationMinutes = DefaultStudyPlanOptions.SessionDurationMinutes
	}
	if o.PreferredStartHour <= 0 {
		o.PreferredStartHour = DefaultStudyPlanOptions.PreferredStartHour
	}
	if o.PreferredEndHour <= 0 {
		o.PreferredEndHour = DefaultStudyPlanOptions.PreferredEndHour
	}
	return o
}

// GenerateStudyPlan distributes study sessions for incomplete school items
// over the free slots between now and the exam date. Items are visited once,
// in the order given; each gets one full session, plus a half-length review
// session when its due date falls within the next three days. A slot keeps
// accepting sessions until less than half an hour of it remains.
func GenerateStudyPlan(items, events []storage.Item, opts StudyPlanOptions) []StudySession {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	now := opts.Now()
	opts = opts.normalized(now)

	var school []storage.Item
	for i := range items {
		if items[i].Type == storage.TypeSchool && items[i].Status != storage.StatusCompleted {
			school = append(school, items[i])
		}
	}
	if len(school) == 0 {
		return nil
	}

	slots := FindAvailableSlots(events, SlotOptions{
		StartDate:          now,
		EndDate:            opts.ExamDate,
		WorkStartHour:      opts.PreferredStartHour,
		WorkEndHour:        opts.PreferredEndHour,
		MinDurationMinutes: opts.SessionDurationMinutes,
	})
	if len(slots) == 0 {
		return nil
	}

	daysUntilExam := int(math.Ceil(opts.ExamDate.Sub(now).Hours() / 24))
	if daysUntilExam < 1 {
		daysUntilExam = 1
	}
	maxSessions := daysUntilExam * opts.SessionsPerDay
	if opts.TotalHours > 0 {
		capByHours := opts.TotalHours * 60 / opts.SessionDurationMinutes
		if capByHours < maxSessions {
			maxSessions = capByHours
		}
	}

	sessionDur := time.Duration(opts.SessionDurationMinutes) * time.Minute
	reviewDur := sessionDur / 2

	slotIdx := 0
	cursor := slots[0].Start

	// place carves the next session out of the current slot, advancing
	// through the slot list as slots fill up or fall below the tail size.
	place := func(item storage.Item, kind SessionKind, dur time.Duration) (StudySession, bool) {
		for slotIdx < len(slots) {
			slot := slots[slotIdx]
			if cursor.Before(slot.Start) {
				cursor = slot.Start
			}
			end := cursor.Add(dur)
			if end.After(slot.End) {
				slotIdx++
				if slotIdx < len(slots) {
					cursor = slots[slotIdx].Start
				}
				continue
			}
			s := StudySession{
				ItemID:          item.ID,
				Title:           item.Title,
				Kind:            kind,
				Start:           cursor,
				End:             end,
				DurationMinutes: int(dur.Minutes()),
			}
			cursor = end
			if slot.End.Sub(cursor) < slotTailMinutes*time.Minute {
				slotIdx++
				if slotIdx < len(slots) {
					cursor = slots[slotIdx].Start
				}
			}
			return s, true
		}
		return StudySession{}, false
	}

	var plan []StudySession
	for _, item := range school {
		if len(plan) >= maxSessions {
			break
		}
		s, ok := place(item, SessionStudy, sessionDur)
		if !ok {
			break
		}
		plan = append(plan, s)

		if item.DueAt != nil && !item.DueAt.Before(now) && item.DueAt.Sub(now) <= reviewWindow {
			if len(plan) >= maxSessions {
				break
			}
			r, ok := place(item, SessionReview, reviewDur)
			if !ok {
				break
			}
			plan = append(plan, r)
		}
	}
	return plan
}
