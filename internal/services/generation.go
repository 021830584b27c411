package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/google/uuid"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/domain/plan"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
	"github.com/yungbote/plancast-backend/internal/platform/openai"
)

// captionSoftLimit is the caption length the generator is asked for; longer
// captions are clipped, not rejected.
const captionSoftLimit = 300

// fallbackDays are the representative days a placeholder batch lands on,
// clipped to the month length.
var fallbackDays = []int{1, 5, 10, 15, 20, 25}

type GenerateMonthRequest struct {
	UserID  uuid.UUID
	Profile types.Profile
	Year    int
	Month   time.Month
	Theme   string
}

// CalendarGenService produces a validated batch of scheduled posts for one
// month. Concurrent requests for the same user and month share a single
// in-flight generation.
type CalendarGenService interface {
	GenerateMonth(ctx context.Context, req GenerateMonthRequest) ([]types.ScheduledPost, error)
}

type calendarGenService struct {
	log      *logger.Logger
	ai       openai.Client
	inflight singleflight.Group
}

func NewCalendarGenService(baseLog *logger.Logger, ai openai.Client) CalendarGenService {
	return &calendarGenService{
		log: baseLog.With("service", "CalendarGenService"),
		ai:  ai,
	}
}

func (s *calendarGenService) GenerateMonth(ctx context.Context, req GenerateMonthRequest) ([]types.ScheduledPost, error) {
	if !req.Profile.Complete() {
		return nil, fmt.Errorf("profile incomplete: platform, niche, content types and frequency are required before generating")
	}
	if req.Year < 2000 || req.Month < time.January || req.Month > time.December {
		return nil, fmt.Errorf("invalid target month")
	}
	if s.ai == nil {
		return nil, fmt.Errorf("generation service not configured")
	}

	key := req.UserID.String() + "|" + plan.MonthPrefix(req.Year, req.Month)
	result, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return s.generate(ctx, req), nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.ScheduledPost), nil
}

// generate never fails outright: connectivity and shape errors degrade to
// the deterministic fallback batch so a generation attempt always leaves the
// month populated.
func (s *calendarGenService) generate(ctx context.Context, req GenerateMonthRequest) []types.ScheduledPost {
	raw, err := s.ai.GenerateJSON(ctx,
		generationSystemPrompt,
		s.userPrompt(req),
		"monthly_calendar",
		generationSchema(plan.DaysIn(req.Year, req.Month)),
	)
	if err != nil {
		s.log.Warn("Calendar generation failed, using fallback batch",
			"user_id", req.UserID.String(),
			"month", plan.MonthPrefix(req.Year, req.Month),
			"error", err.Error(),
		)
		return s.fallbackBatch(req)
	}

	posts := s.decodeBatch(raw, req)
	if len(posts) == 0 {
		s.log.Warn("Calendar generation returned no usable posts, using fallback batch",
			"user_id", req.UserID.String(),
			"month", plan.MonthPrefix(req.Year, req.Month),
		)
		return s.fallbackBatch(req)
	}
	return posts
}

const generationSystemPrompt = "You are a social media content strategist. " +
	"You plan one month of posts for a creator, matched to their platform, niche and cadence. " +
	"Respond only with the requested JSON."

func (s *calendarGenService) userPrompt(req GenerateMonthRequest) string {
	weeks := float64(plan.DaysIn(req.Year, req.Month)) / 7.0
	target := int(float64(req.Profile.Frequency)*weeks + 0.5)

	var b strings.Builder
	fmt.Fprintf(&b, "Plan %s %d for a %s creator in the %q niche.\n",
		req.Month.String(), req.Year, req.Profile.Platform, req.Profile.Niche)
	fmt.Fprintf(&b, "Produce about %d posts spread across the month (%d per week).\n",
		target, int(req.Profile.Frequency))
	fmt.Fprintf(&b, "Allowed content types: %s.\n", strings.Join(req.Profile.ContentTypes, ", "))
	fmt.Fprintf(&b, "Each post needs a hook, a caption under %d characters, a call to action and 3-5 tags.\n", captionSoftLimit)
	if t := strings.TrimSpace(req.Theme); t != "" {
		fmt.Fprintf(&b, "Theme/tone for the month: %s.\n", t)
	}
	return b.String()
}

func generationSchema(daysInMonth int) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"posts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"day_of_month": map[string]any{"type": "integer", "minimum": 1, "maximum": daysInMonth},
						"content_type": map[string]any{"type": "string"},
						"hook":         map[string]any{"type": "string"},
						"caption":      map[string]any{"type": "string"},
						"cta":          map[string]any{"type": "string"},
						"tags":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
					"required":             []string{"day_of_month", "content_type", "hook", "caption", "cta", "tags"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"posts"},
		"additionalProperties": false,
	}
}

type generatedPost struct {
	DayOfMonth  int      `json:"day_of_month"`
	ContentType string   `json:"content_type"`
	Hook        string   `json:"hook"`
	Caption     string   `json:"caption"`
	CTA         string   `json:"cta"`
	Tags        []string `json:"tags"`
}

// decodeBatch converts the model payload into scheduled posts, repairing
// what it can and dropping entries that are unusable.
func (s *calendarGenService) decodeBatch(raw map[string]any, req GenerateMonthRequest) []types.ScheduledPost {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var payload struct {
		Posts []generatedPost `json:"posts"`
	}
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil
	}

	days := plan.DaysIn(req.Year, req.Month)
	seen := map[string]bool{}
	out := make([]types.ScheduledPost, 0, len(payload.Posts))

	for _, gp := range payload.Posts {
		if gp.DayOfMonth < 1 || gp.DayOfMonth > days {
			continue
		}
		hook := strings.TrimSpace(gp.Hook)
		caption := strings.TrimSpace(gp.Caption)
		cta := strings.TrimSpace(gp.CTA)
		if hook == "" || caption == "" {
			continue
		}
		if cta == "" {
			cta = "Let me know what you think in the comments."
		}
		caption = clipCaption(caption)

		ct := strings.TrimSpace(gp.ContentType)
		if !req.Profile.HasContentType(ct) {
			// Model drifted outside the requested set; pin to the first choice.
			ct = req.Profile.ContentTypes[0]
		}

		tags := make([]string, 0, len(gp.Tags))
		for _, t := range gp.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		if len(tags) == 0 {
			tags = []string{strings.ToLower(strings.ReplaceAll(req.Profile.Niche, " ", ""))}
		}

		key := plan.DateKey(req.Year, req.Month, gp.DayOfMonth)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, types.ScheduledPost{
			Date:        key,
			ContentType: ct,
			Hook:        hook,
			Caption:     caption,
			CTA:         cta,
			Tags:        tags,
			Platform:    req.Profile.Platform,
			Niche:       req.Profile.Niche,
		})
	}
	return out
}

// fallbackBatch is the deterministic placeholder calendar used when the
// generator is unreachable or returns garbage.
func (s *calendarGenService) fallbackBatch(req GenerateMonthRequest) []types.ScheduledPost {
	days := plan.DaysIn(req.Year, req.Month)
	niche := strings.TrimSpace(req.Profile.Niche)

	out := make([]types.ScheduledPost, 0, len(fallbackDays))
	for i, day := range fallbackDays {
		if day > days {
			day = days
		}
		key := plan.DateKey(req.Year, req.Month, day)
		ct := req.Profile.ContentTypes[i%len(req.Profile.ContentTypes)]
		out = append(out, types.ScheduledPost{
			Date:        key,
			ContentType: ct,
			Hook:        fmt.Sprintf("Share one %s insight your audience asks about most", niche),
			Caption: fmt.Sprintf("Planned %s post for your %s audience. "+
				"Swap in your own story or tip for the day.", ct, niche),
			CTA:      "Save this for later and follow for more.",
			Tags:     []string{strings.ToLower(strings.ReplaceAll(niche, " ", "")), "contentplan"},
			Platform: req.Profile.Platform,
			Niche:    niche,
		})
	}
	return dedupeByDate(out)
}

// clipCaption trims a caption to the soft limit without splitting a rune.
func clipCaption(caption string) string {
	if len(caption) <= captionSoftLimit {
		return caption
	}
	cut := captionSoftLimit
	for cut > 0 && !utf8.RuneStart(caption[cut]) {
		cut--
	}
	return caption[:cut]
}

func dedupeByDate(posts []types.ScheduledPost) []types.ScheduledPost {
	seen := map[string]bool{}
	out := posts[:0]
	for _, p := range posts {
		if seen[p.Date] {
			continue
		}
		seen[p.Date] = true
		out = append(out, p)
	}
	return out
}
