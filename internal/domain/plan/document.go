package plan

import (
	"fmt"
	"time"
)

// DateLayout is the calendar key format used throughout the plan document.
const DateLayout = "2006-01-02"

// Document is the per-user plan state persisted as one JSON blob. Field names
// match the stored wire shape; missing fields hydrate to their zero values.
type Document struct {
	Onboarding     Profile                  `json:"ob"`
	Calendar       map[string]ScheduledPost `json:"cal"`
	Done           map[string]bool          `json:"done"`
	Edits          map[string]PostEdit      `json:"edits"`
	Metrics        []MetricEntry            `json:"metrics"`
	OnboardingStep int                      `json:"step"`
	DarkTheme      bool                     `json:"theme"`
	BestStreak     int                      `json:"best"`
}

// NewDocument returns an empty document with all maps allocated.
func NewDocument() Document {
	return Document{
		Calendar: map[string]ScheduledPost{},
		Done:     map[string]bool{},
		Edits:    map[string]PostEdit{},
		Metrics:  []MetricEntry{},
	}
}

// Normalize allocates any maps/slices a partially hydrated document is
// missing. Safe to call on a freshly unmarshalled value.
func (d *Document) Normalize() {
	if d.Calendar == nil {
		d.Calendar = map[string]ScheduledPost{}
	}
	if d.Done == nil {
		d.Done = map[string]bool{}
	}
	if d.Edits == nil {
		d.Edits = map[string]PostEdit{}
	}
	if d.Metrics == nil {
		d.Metrics = []MetricEntry{}
	}
}

// DateKey formats a full date key for the given day of month.
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// MonthPrefix is the YYYY-MM prefix shared by all keys of one month.
func MonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ParseDateKey parses a YYYY-MM-DD key. Non-canonical spellings such as
// "2026-8-5" are rejected; stored keys must round trip through DateLayout so
// they stay comparable with calendar keys and month prefixes.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(DateLayout) != key {
		return time.Time{}, fmt.Errorf("date key %q is not in %s form", key, DateLayout)
	}
	return t, nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
