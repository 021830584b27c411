package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/domain/plan"
)

var (
	// ErrFutureDate is returned when a completion is attempted for a date
	// after today.
	ErrFutureDate = errors.New("cannot mark a future date as done")

	// ErrBadDateKey is returned for keys that are not YYYY-MM-DD.
	ErrBadDateKey = errors.New("invalid date key")
)

// ApplyMonthBatch atomically replaces the calendar entries of one month.
// Every key whose prefix matches the target month is cleared first; entries
// in other months and the user's edits overlay are untouched.
func ApplyMonthBatch(doc *types.Document, year int, month time.Month, posts []types.ScheduledPost) {
	doc.Normalize()

	prefix := plan.MonthPrefix(year, month)
	for key := range doc.Calendar {
		if strings.HasPrefix(key, prefix) {
			delete(doc.Calendar, key)
		}
	}

	for _, p := range posts {
		if !strings.HasPrefix(p.Date, prefix) {
			continue
		}
		doc.Calendar[p.Date] = p
	}
}

// MarkDone flags the post on the given date as completed and returns the
// recomputed current streak. Future-dated keys are rejected with no state
// change.
func MarkDone(doc *types.Document, key string, today time.Time) (int, error) {
	doc.Normalize()

	d, err := plan.ParseDateKey(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadDateKey, key)
	}
	if d.After(truncateDay(today)) {
		return 0, ErrFutureDate
	}

	doc.Done[key] = true
	current := CurrentStreak(doc.Done, today)
	doc.BestStreak = UpdateBest(doc.BestStreak, current)
	return current, nil
}

// UnmarkDone clears the completion flag for a date. Best streak is a
// high-water mark and never decreases.
func UnmarkDone(doc *types.Document, key string, today time.Time) (int, error) {
	doc.Normalize()

	if _, err := plan.ParseDateKey(key); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadDateKey, key)
	}

	delete(doc.Done, key)
	return CurrentStreak(doc.Done, today), nil
}

// SetEdit stores the user-authored caption/notes overlay for a date.
// Clearing both fields removes the overlay entirely.
func SetEdit(doc *types.Document, key string, edit types.PostEdit) error {
	doc.Normalize()

	if _, err := plan.ParseDateKey(key); err != nil {
		return fmt.Errorf("%w: %q", ErrBadDateKey, key)
	}

	if edit.Empty() {
		delete(doc.Edits, key)
		return nil
	}
	doc.Edits[key] = edit
	return nil
}

// LogMetrics upserts the metric entry for its date. A second log for the
// same date replaces the first.
func LogMetrics(doc *types.Document, entry types.MetricEntry) error {
	doc.Normalize()

	if _, err := plan.ParseDateKey(entry.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrBadDateKey, entry.Date)
	}

	for i := range doc.Metrics {
		if doc.Metrics[i].Date == entry.Date {
			doc.Metrics[i] = entry
			return nil
		}
	}
	doc.Metrics = append(doc.Metrics, entry)
	return nil
}
