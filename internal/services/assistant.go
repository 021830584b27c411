package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
	"github.com/yungbote/plancast-backend/internal/platform/openai"
)

// assistantContextPosts caps how many upcoming posts are summarized into the
// prompt so long calendars do not blow up the context.
const assistantContextPosts = 10

// AssistantService answers free-form content questions with the user's
// profile, upcoming calendar and recent metrics folded into the prompt.
type AssistantService interface {
	Ask(ctx context.Context, userID uuid.UUID, question string) (string, error)
}

type assistantService struct {
	log   *logger.Logger
	ai    openai.Client
	plans PlanService
}

func NewAssistantService(baseLog *logger.Logger, ai openai.Client, plans PlanService) AssistantService {
	return &assistantService{
		log:   baseLog.With("service", "AssistantService"),
		ai:    ai,
		plans: plans,
	}
}

const assistantSystemPrompt = "You are a concise social media coach inside a content planning app. " +
	"Give practical, specific advice grounded in the creator context you are given. " +
	"Keep answers under 200 words."

func (s *assistantService) Ask(ctx context.Context, userID uuid.UUID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question is required")
	}
	if s.ai == nil {
		return "", fmt.Errorf("assistant service not configured")
	}

	doc := s.plans.Load(ctx, userID)
	prompt := buildAssistantPrompt(doc, question)

	answer, err := s.ai.GenerateText(ctx, assistantSystemPrompt, prompt)
	if err != nil {
		s.log.Warn("Assistant completion failed",
			"user_id", userID.String(), "error", err.Error())
		return "", fmt.Errorf("assistant is unavailable right now: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func buildAssistantPrompt(doc types.Document, question string) string {
	var b strings.Builder

	if doc.Onboarding.Complete() {
		fmt.Fprintf(&b, "Creator profile: %s, niche %q, content types %s, %d posts per week.\n",
			doc.Onboarding.Platform, doc.Onboarding.Niche,
			strings.Join(doc.Onboarding.ContentTypes, ", "), int(doc.Onboarding.Frequency))
	} else {
		b.WriteString("Creator profile: not yet completed.\n")
	}

	if len(doc.Calendar) > 0 {
		keys := make([]string, 0, len(doc.Calendar))
		for k := range doc.Calendar {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > assistantContextPosts {
			keys = keys[len(keys)-assistantContextPosts:]
		}
		b.WriteString("Upcoming posts:\n")
		for _, k := range keys {
			p := doc.Calendar[k]
			done := ""
			if doc.Done[k] {
				done = " (done)"
			}
			fmt.Fprintf(&b, "- %s %s: %s%s\n", k, p.ContentType, p.Hook, done)
		}
	}

	if n := len(doc.Metrics); n > 0 {
		b.WriteString("Recent metrics:\n")
		start := 0
		if n > 5 {
			start = n - 5
		}
		for _, m := range doc.Metrics[start:] {
			fmt.Fprintf(&b, "- %s: %d views, %d likes, %d comments, %d saves\n",
				m.Date, m.Views, m.Likes, m.Comments, m.Saves)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s", question)
	return b.String()
}
