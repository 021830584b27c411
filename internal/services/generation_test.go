package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
)

type stubAI struct {
	jsonResponse map[string]any
	jsonErr      error
	textResponse string
	textErr      error
}

func (s *stubAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	return s.jsonResponse, s.jsonErr
}

func (s *stubAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	return s.textResponse, s.textErr
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testProfile() types.Profile {
	return types.Profile{
		Platform:     types.PlatformInstagram,
		Niche:        "home cooking",
		ContentTypes: []string{"reel", "carousel"},
		Frequency:    types.FrequencyRegular,
	}
}

func genRequest() GenerateMonthRequest {
	return GenerateMonthRequest{
		UserID:  uuid.New(),
		Profile: testProfile(),
		Year:    2026,
		Month:   time.August,
	}
}

func rawPost(day int, contentType string) map[string]any {
	return map[string]any{
		"day_of_month": day,
		"content_type": contentType,
		"hook":         "a hook",
		"caption":      "a caption",
		"cta":          "a cta",
		"tags":         []any{"one", "two"},
	}
}

func TestGenerateMonthRejectsIncompleteProfile(t *testing.T) {
	svc := NewCalendarGenService(testLogger(t), &stubAI{})
	req := genRequest()
	req.Profile.Niche = ""

	if _, err := svc.GenerateMonth(context.Background(), req); err == nil {
		t.Fatalf("expected error for incomplete profile")
	}
}

func TestGenerateMonthDecodesValidBatch(t *testing.T) {
	ai := &stubAI{jsonResponse: map[string]any{
		"posts": []any{
			rawPost(1, "reel"),
			rawPost(5, "carousel"),
			rawPost(10, "reel"),
		},
	}}
	svc := NewCalendarGenService(testLogger(t), ai)

	posts, err := svc.GenerateMonth(context.Background(), genRequest())
	if err != nil {
		t.Fatalf("GenerateMonth: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	if posts[0].Date != "2026-08-01" {
		t.Fatalf("unexpected date key %q", posts[0].Date)
	}
	if posts[0].Platform != types.PlatformInstagram || posts[0].Niche != "home cooking" {
		t.Fatalf("profile fields not carried onto post: %+v", posts[0])
	}
}

func TestGenerateMonthRepairsMalformedEntries(t *testing.T) {
	long := strings.Repeat("x", 400)
	ai := &stubAI{jsonResponse: map[string]any{
		"posts": []any{
			rawPost(2, "podcast"), // content type outside the requested set
			map[string]any{ // missing hook, dropped
				"day_of_month": 3, "content_type": "reel",
				"hook": "", "caption": "c", "cta": "c", "tags": []any{"t"},
			},
			rawPost(40, "reel"), // day out of range, dropped
			map[string]any{ // oversized caption, clipped
				"day_of_month": 4, "content_type": "reel",
				"hook": "h", "caption": long, "cta": "c", "tags": []any{"t"},
			},
			rawPost(2, "reel"), // duplicate date, dropped
		},
	}}
	svc := NewCalendarGenService(testLogger(t), ai)

	posts, err := svc.GenerateMonth(context.Background(), genRequest())
	if err != nil {
		t.Fatalf("GenerateMonth: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d: %+v", len(posts), posts)
	}
	if posts[0].ContentType != "reel" {
		t.Fatalf("out-of-set content type not repaired: %q", posts[0].ContentType)
	}
	if len(posts[1].Caption) != captionSoftLimit {
		t.Fatalf("caption not clipped: len=%d", len(posts[1].Caption))
	}
}

func TestGenerateMonthClipsCaptionOnRuneBoundary(t *testing.T) {
	// 299 single-byte characters followed by multi-byte runes; a byte-offset
	// clip would cut mid-rune and leave invalid UTF-8.
	long := strings.Repeat("x", captionSoftLimit-1) + "日本語のキャプション"
	ai := &stubAI{jsonResponse: map[string]any{
		"posts": []any{
			map[string]any{
				"day_of_month": 4, "content_type": "reel",
				"hook": "h", "caption": long, "cta": "c", "tags": []any{"t"},
			},
		},
	}}
	svc := NewCalendarGenService(testLogger(t), ai)

	posts, err := svc.GenerateMonth(context.Background(), genRequest())
	if err != nil {
		t.Fatalf("GenerateMonth: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	got := posts[0].Caption
	if len(got) > captionSoftLimit {
		t.Fatalf("caption not clipped: len=%d", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("clipped caption is not valid UTF-8: %q", got)
	}
}

type blockingAI struct {
	calls   int32
	started chan struct{}
	release chan struct{}
	batch   map[string]any
}

func (b *blockingAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	if atomic.AddInt32(&b.calls, 1) == 1 {
		close(b.started)
	}
	<-b.release
	return b.batch, nil
}

func (b *blockingAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	return "", nil
}

func TestGenerateMonthCoalescesConcurrentRequests(t *testing.T) {
	ai := &blockingAI{
		started: make(chan struct{}),
		release: make(chan struct{}),
		batch:   map[string]any{"posts": []any{rawPost(1, "reel")}},
	}
	svc := NewCalendarGenService(testLogger(t), ai)
	req := genRequest()

	results := make(chan int, 2)
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			posts, err := svc.GenerateMonth(context.Background(), req)
			results <- len(posts)
			errs <- err
		}()
	}

	<-ai.started
	// Give the second caller a moment to join the in-flight generation.
	time.Sleep(50 * time.Millisecond)
	close(ai.release)

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("GenerateMonth: %v", err)
		}
		if n := <-results; n != 1 {
			t.Fatalf("expected the shared batch of 1 post, got %d", n)
		}
	}
	if got := atomic.LoadInt32(&ai.calls); got != 1 {
		t.Fatalf("expected a single generation call, got %d", got)
	}
}

func TestGenerateMonthFallsBackOnError(t *testing.T) {
	ai := &stubAI{jsonErr: errors.New("connection refused")}
	svc := NewCalendarGenService(testLogger(t), ai)

	posts, err := svc.GenerateMonth(context.Background(), genRequest())
	if err != nil {
		t.Fatalf("GenerateMonth: %v", err)
	}
	if len(posts) != len(fallbackDays) {
		t.Fatalf("expected %d fallback posts, got %d", len(fallbackDays), len(posts))
	}
	for i, p := range posts {
		want := fmt.Sprintf("2026-08-%02d", fallbackDays[i])
		if p.Date != want {
			t.Fatalf("fallback post %d on %q, want %q", i, p.Date, want)
		}
		if p.Hook == "" || p.Caption == "" || p.CTA == "" || len(p.Tags) == 0 {
			t.Fatalf("fallback post missing fields: %+v", p)
		}
	}
}

func TestGenerateMonthFallsBackOnEmptyBatch(t *testing.T) {
	ai := &stubAI{jsonResponse: map[string]any{"posts": []any{}}}
	svc := NewCalendarGenService(testLogger(t), ai)

	posts, err := svc.GenerateMonth(context.Background(), genRequest())
	if err != nil {
		t.Fatalf("GenerateMonth: %v", err)
	}
	if len(posts) != len(fallbackDays) {
		t.Fatalf("expected fallback batch, got %d posts", len(posts))
	}
}
