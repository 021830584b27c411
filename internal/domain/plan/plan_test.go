package plan

import (
	"encoding/json"
	"testing"
	"time"
)

func TestProfileComplete(t *testing.T) {
	p := Profile{
		Platform:     PlatformTikTok,
		Niche:        "street food",
		ContentTypes: []string{"short"},
		Frequency:    FrequencyEveryDay,
	}
	if !p.Complete() {
		t.Fatalf("expected complete profile")
	}

	for _, mutate := range []func(*Profile){
		func(p *Profile) { p.Platform = "" },
		func(p *Profile) { p.Niche = "  " },
		func(p *Profile) { p.ContentTypes = nil },
		func(p *Profile) { p.Frequency = 0 },
	} {
		q := p
		mutate(&q)
		if q.Complete() {
			t.Fatalf("expected incomplete profile: %+v", q)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	if got := ParsePlatform(" Instagram "); got != PlatformInstagram {
		t.Fatalf("ParsePlatform = %q", got)
	}
	if got := ParsePlatform("myspace"); got != "" {
		t.Fatalf("expected empty platform, got %q", got)
	}
}

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("2026-08-05")
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.August || got.Day() != 5 {
		t.Fatalf("ParseDateKey = %v", got)
	}

	// Keys that do not round trip through the layout would never match a
	// generated calendar key or month prefix.
	for _, key := range []string{"2026-8-5", "2026-08-5", "26-08-05", "2026/08/05", "not a date"} {
		if _, err := ParseDateKey(key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestDaysIn(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.August, 31},
		{2026, time.February, 28},
		{2028, time.February, 29},
		{2026, time.September, 30},
	}
	for _, tc := range cases {
		if got := DaysIn(tc.year, tc.month); got != tc.want {
			t.Fatalf("DaysIn(%d, %s) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := NewDocument()
	doc.Onboarding = Profile{
		Platform:     PlatformYouTube,
		Niche:        "diy",
		ContentTypes: []string{"long form"},
		Frequency:    FrequencyLight,
	}
	doc.Calendar["2026-08-01"] = ScheduledPost{Date: "2026-08-01", Hook: "h"}
	doc.Done["2026-08-01"] = true
	doc.OnboardingStep = 4
	doc.DarkTheme = true
	doc.BestStreak = 2

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Document
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Onboarding.Platform != PlatformYouTube || !back.Done["2026-08-01"] ||
		back.OnboardingStep != 4 || !back.DarkTheme || back.BestStreak != 2 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestNormalizeHydratesPartialDocument(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(`{"best":3}`), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	doc.Normalize()
	if doc.Calendar == nil || doc.Done == nil || doc.Edits == nil || doc.Metrics == nil {
		t.Fatalf("normalize left nil collections: %+v", doc)
	}
	if doc.BestStreak != 3 {
		t.Fatalf("best = %d, want 3", doc.BestStreak)
	}
}
