package recurrence

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tmajkech/libsched/schedule/storage"
)

// defaultHorizonDays is used when neither the template nor the options
// provide a window end.
const defaultHorizonDays = 30

// GenerateOptions controls materialization of a recurring template.
type GenerateOptions struct {
	// UserID is the tenant whose items are read and written. Required.
	UserID string
	// UntilDate caps generation when the template carries no recurrence
	// end. When both are absent the window ends 30 days out.
	UntilDate *time.Time
	// Now is injectable for testing; defaults to time.Now.
	Now func() time.Time
}

// Materializer persists concrete occurrences of recurring templates. Unlike
// Expand it writes through the Store; duplicate suppression is delegated to
// Store.CreateInstanceOnce, so concurrent calls against the same template
// cannot double-create.
type Materializer struct {
	store  storage.Store
	logger *slog.Logger
}

// NewMaterializer creates a Materializer. A nil logger discards log output.
func NewMaterializer(store storage.Store, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Materializer{store: store, logger: logger}
}

// Generate persists the missing occurrences of the template up to the window
// end and returns only the newly created items. It is idempotent: a repeat
// call over the same window returns an empty result. Storage errors,
// including a missing template, surface to the caller unchanged.
func (m *Materializer) Generate(ctx context.Context, templateID string, opts GenerateOptions) ([]storage.Item, error) {
	if opts.UserID == "" {
		return nil, fmt.Errorf("materialize %q: user id is required: %w", templateID, storage.ErrInvalidInput)
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC()

	tmpl, err := m.store.Get(ctx, opts.UserID, templateID)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", templateID, err)
	}
	if !tmpl.IsTemplate() {
		return nil, nil
	}

	end := now.AddDate(0, 0, defaultHorizonDays)
	switch {
	case tmpl.RecurrenceEnd != nil:
		end = *tmpl.RecurrenceEnd
	case opts.UntilDate != nil:
		end = *opts.UntilDate
	}

	base := now
	if tmpl.DueAt != nil {
		base = *tmpl.DueAt
	}

	stepper, err := NewStepper(ParseRule(tmpl.RecurrenceRule), base, end)
	if err != nil {
		return nil, fmt.Errorf("step template %q: %w", templateID, err)
	}

	var created []storage.Item
	for {
		occ, ok := stepper.Next()
		if !ok {
			break
		}
		if occ.Equal(base) {
			// the template itself covers its base date
			continue
		}
		if occ.After(end) {
			break
		}

		inst := cloneForInstance(tmpl, occ)
		inserted, err := m.store.CreateInstanceOnce(ctx, opts.UserID, &inst)
		if err != nil {
			return created, fmt.Errorf("create instance of %q at %s: %w",
				templateID, occ.Format(time.RFC3339), err)
		}
		if inserted {
			created = append(created, inst)
		}
	}

	m.logger.Debug("materialized recurring template",
		"template", templateID, "user", opts.UserID, "created", len(created))
	return created, nil
}

// cloneForInstance copies the reusable fields of the template into a fresh
// occurrence. The recurrence rule is deliberately not copied: instances must
// never expand again.
func cloneForInstance(tmpl *storage.Item, due time.Time) storage.Item {
	dueAt := due
	return storage.Item{
		ID:               uuid.NewString(),
		UserID:           tmpl.UserID,
		Type:             tmpl.Type,
		Status:           storage.StatusNotStarted,
		Priority:         tmpl.Priority,
		Title:            tmpl.Title,
		Details:          tmpl.Details,
		Tags:             append([]string(nil), tmpl.Tags...),
		DueAt:            &dueAt,
		EstimatedMinutes: tmpl.EstimatedMinutes,
		OriginalItemID:   tmpl.ID,
		CourseID:         tmpl.CourseID,
		ProjectID:        tmpl.ProjectID,
	}
}
