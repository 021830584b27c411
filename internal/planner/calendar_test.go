package planner

import (
	"errors"
	"testing"
	"time"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/domain/plan"
)

func post(date string) types.ScheduledPost {
	return types.ScheduledPost{
		Date:        date,
		ContentType: "reel",
		Hook:        "hook",
		Caption:     "caption",
		CTA:         "cta",
		Tags:        []string{"tag"},
	}
}

func TestApplyMonthBatchReplacesMonth(t *testing.T) {
	doc := plan.NewDocument()
	doc.Calendar["2026-08-03"] = post("2026-08-03")
	doc.Calendar["2026-08-14"] = post("2026-08-14")
	doc.Calendar["2026-07-20"] = post("2026-07-20")
	doc.Edits["2026-08-03"] = types.PostEdit{Caption: strptr("my caption")}

	ApplyMonthBatch(&doc, 2026, time.August, []types.ScheduledPost{
		post("2026-08-05"),
		post("2026-08-10"),
	})

	if _, ok := doc.Calendar["2026-08-03"]; ok {
		t.Fatalf("old August entry survived the batch")
	}
	if _, ok := doc.Calendar["2026-08-14"]; ok {
		t.Fatalf("old August entry survived the batch")
	}
	if _, ok := doc.Calendar["2026-07-20"]; !ok {
		t.Fatalf("July entry was clobbered")
	}
	if _, ok := doc.Calendar["2026-08-05"]; !ok {
		t.Fatalf("new entry missing")
	}
	if _, ok := doc.Edits["2026-08-03"]; !ok {
		t.Fatalf("edits overlay should survive regeneration")
	}
}

func TestApplyMonthBatchSkipsForeignDates(t *testing.T) {
	doc := plan.NewDocument()
	ApplyMonthBatch(&doc, 2026, time.August, []types.ScheduledPost{
		post("2026-08-05"),
		post("2026-09-01"),
	})
	if len(doc.Calendar) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(doc.Calendar))
	}
}

func TestMarkDone(t *testing.T) {
	today := day("2026-08-20")
	doc := plan.NewDocument()

	streak, err := MarkDone(&doc, "2026-08-20", today)
	if err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if streak != 1 {
		t.Fatalf("streak = %d, want 1", streak)
	}
	if !doc.Done["2026-08-20"] {
		t.Fatalf("flag not set")
	}
	if doc.BestStreak != 1 {
		t.Fatalf("best = %d, want 1", doc.BestStreak)
	}

	streak, err = MarkDone(&doc, "2026-08-19", today)
	if err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if streak != 2 || doc.BestStreak != 2 {
		t.Fatalf("streak = %d best = %d, want 2/2", streak, doc.BestStreak)
	}

	// Idempotent re-mark.
	streak, err = MarkDone(&doc, "2026-08-20", today)
	if err != nil {
		t.Fatalf("MarkDone (again): %v", err)
	}
	if streak != 2 {
		t.Fatalf("streak = %d, want 2", streak)
	}
}

func TestMarkDoneRejectsFutureDate(t *testing.T) {
	today := day("2026-08-20")
	doc := plan.NewDocument()

	_, err := MarkDone(&doc, "2026-08-21", today)
	if !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
	if len(doc.Done) != 0 {
		t.Fatalf("state changed on rejected mark")
	}
}

func TestMarkDoneRejectsBadKey(t *testing.T) {
	doc := plan.NewDocument()
	_, err := MarkDone(&doc, "08/20/2026", day("2026-08-20"))
	if !errors.Is(err, ErrBadDateKey) {
		t.Fatalf("expected ErrBadDateKey, got %v", err)
	}
}

func TestUnmarkDoneKeepsBest(t *testing.T) {
	today := day("2026-08-20")
	doc := plan.NewDocument()

	for _, k := range []string{"2026-08-18", "2026-08-19", "2026-08-20"} {
		if _, err := MarkDone(&doc, k, today); err != nil {
			t.Fatalf("MarkDone(%s): %v", k, err)
		}
	}
	if doc.BestStreak != 3 {
		t.Fatalf("best = %d, want 3", doc.BestStreak)
	}

	streak, err := UnmarkDone(&doc, "2026-08-19", today)
	if err != nil {
		t.Fatalf("UnmarkDone: %v", err)
	}
	if streak != 1 {
		t.Fatalf("streak after unmark = %d, want 1", streak)
	}
	if doc.BestStreak != 3 {
		t.Fatalf("best should not decrease, got %d", doc.BestStreak)
	}
}

func TestSetEdit(t *testing.T) {
	doc := plan.NewDocument()

	if err := SetEdit(&doc, "2026-08-05", types.PostEdit{Caption: strptr("rewritten")}); err != nil {
		t.Fatalf("SetEdit: %v", err)
	}
	if doc.Edits["2026-08-05"].Caption == nil || *doc.Edits["2026-08-05"].Caption != "rewritten" {
		t.Fatalf("edit not stored")
	}

	// Clearing both fields removes the overlay.
	if err := SetEdit(&doc, "2026-08-05", types.PostEdit{}); err != nil {
		t.Fatalf("SetEdit (clear): %v", err)
	}
	if _, ok := doc.Edits["2026-08-05"]; ok {
		t.Fatalf("empty edit should remove the overlay")
	}

	if err := SetEdit(&doc, "bogus", types.PostEdit{Caption: strptr("x")}); !errors.Is(err, ErrBadDateKey) {
		t.Fatalf("expected ErrBadDateKey, got %v", err)
	}
}

func TestLogMetricsUpserts(t *testing.T) {
	doc := plan.NewDocument()

	if err := LogMetrics(&doc, types.MetricEntry{Date: "2026-08-05", Views: 100, Likes: 10}); err != nil {
		t.Fatalf("LogMetrics: %v", err)
	}
	if err := LogMetrics(&doc, types.MetricEntry{Date: "2026-08-06", Views: 50}); err != nil {
		t.Fatalf("LogMetrics: %v", err)
	}
	if err := LogMetrics(&doc, types.MetricEntry{Date: "2026-08-05", Views: 200, Likes: 20}); err != nil {
		t.Fatalf("LogMetrics (upsert): %v", err)
	}

	if len(doc.Metrics) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(doc.Metrics))
	}
	for _, m := range doc.Metrics {
		if m.Date == "2026-08-05" && m.Views != 200 {
			t.Fatalf("upsert did not replace entry: %+v", m)
		}
	}

	if err := LogMetrics(&doc, types.MetricEntry{Date: "nope"}); !errors.Is(err, ErrBadDateKey) {
		t.Fatalf("expected ErrBadDateKey, got %v", err)
	}
}

func strptr(s string) *string { return &s }
