package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/platform/envutil"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
	"github.com/yungbote/plancast-backend/internal/platform/sendgrid"
)

// defaultMilestoneMessages ships with the binary; a YAML file can override
// the set without rebuilding. Selection is streak modulo the set size, so the
// same streak always maps to the same message.
var defaultMilestoneMessages = []string{
	"Consistency beats intensity. Keep showing up.",
	"Small posts compound into a big audience.",
	"Your future followers are watching you build this.",
	"Momentum is a habit. You just proved it again.",
	"Every streak day is a deposit in the trust bank.",
}

type MilestoneConfig struct {
	Interval     int
	MessagesFile string
	AppURL       string
	FromEmail    string
	FromName     string
}

func MilestoneConfigFromEnv() MilestoneConfig {
	return MilestoneConfig{
		Interval:     envutil.Int("MILESTONE_INTERVAL", 3),
		MessagesFile: envutil.Str("MILESTONE_MESSAGES_FILE", ""),
		AppURL:       envutil.Str("APP_URL", "http://localhost:5173"),
		FromEmail:    envutil.Str("MILESTONE_FROM_EMAIL", "hello@plancast.app"),
		FromName:     envutil.Str("MILESTONE_FROM_NAME", "PlanCast"),
	}
}

// MilestoneNotifier congratulates users when their completion streak crosses
// an interval boundary. Delivery is best effort on every channel.
type MilestoneNotifier interface {
	IsMilestone(streak int) bool
	StreakReached(ctx context.Context, user types.User, streak int)
}

type milestoneNotifier struct {
	log      *logger.Logger
	cfg      MilestoneConfig
	email    sendgrid.Client
	http     *http.Client
	messages []string
}

func NewMilestoneNotifier(baseLog *logger.Logger, cfg MilestoneConfig, email sendgrid.Client) MilestoneNotifier {
	if cfg.Interval <= 0 {
		cfg.Interval = 3
	}
	n := &milestoneNotifier{
		log:      baseLog.With("service", "MilestoneNotifier"),
		cfg:      cfg,
		email:    email,
		http:     &http.Client{Timeout: 10 * time.Second},
		messages: defaultMilestoneMessages,
	}
	if cfg.MessagesFile != "" {
		if msgs, err := loadMilestoneMessages(cfg.MessagesFile); err != nil {
			n.log.Warn("Milestone messages file unreadable, using built-in set",
				"file", cfg.MessagesFile, "error", err.Error())
		} else {
			n.messages = msgs
		}
	}
	return n
}

func loadMilestoneMessages(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Messages []string `yaml:"messages"`
	}
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parsed.Messages))
	for _, m := range parsed.Messages {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no messages in %s", path)
	}
	return out, nil
}

func (n *milestoneNotifier) IsMilestone(streak int) bool {
	return streak > 0 && streak%n.cfg.Interval == 0
}

func (n *milestoneNotifier) quoteFor(streak int) string {
	return n.messages[streak%len(n.messages)]
}

func (n *milestoneNotifier) StreakReached(ctx context.Context, user types.User, streak int) {
	quote := n.quoteFor(streak)

	if n.email != nil && user.Email != "" {
		if err := n.sendEmail(ctx, user, streak, quote); err != nil {
			n.log.Warn("Milestone email failed",
				"user_id", user.ID.String(), "error", err.Error())
		}
	}
	if url := strings.TrimSpace(user.WebhookURL); url != "" {
		if err := n.sendWebhook(ctx, url, user, streak, quote); err != nil {
			n.log.Warn("Milestone webhook failed",
				"user_id", user.ID.String(), "error", err.Error())
		}
	}
}

func (n *milestoneNotifier) sendEmail(ctx context.Context, user types.User, streak int, quote string) error {
	name := strings.TrimSpace(user.FirstName)
	if name == "" {
		name = "there"
	}
	subject := fmt.Sprintf("%d-day posting streak! Keep it rolling", streak)
	text := fmt.Sprintf(
		"Hey %s,\n\nYou just hit a %d-day posting streak on PlanCast.\n\n\"%s\"\n\nSee your calendar: %s\n",
		name, streak, quote, n.cfg.AppURL,
	)
	html := fmt.Sprintf(
		"<p>Hey %s,</p><p>You just hit a <strong>%d-day posting streak</strong> on PlanCast.</p>"+
			"<blockquote>%s</blockquote><p><a href=%q>See your calendar</a></p>",
		name, streak, quote, n.cfg.AppURL,
	)
	_, err := n.email.Send(ctx, sendgrid.SendEmailRequest{
		From:    sendgrid.EmailAddress{Email: n.cfg.FromEmail, Name: n.cfg.FromName},
		To:      []sendgrid.EmailAddress{{Email: user.Email, Name: strings.TrimSpace(user.FirstName + " " + user.LastName)}},
		Subject: subject,
		Text:    text,
		HTML:    html,
	})
	return err
}

// sendWebhook posts a Discord embed when the URL is a Discord webhook and a
// generic JSON envelope otherwise.
func (n *milestoneNotifier) sendWebhook(ctx context.Context, url string, user types.User, streak int, quote string) error {
	var payload any
	if strings.Contains(url, "discord.com/api/webhooks") {
		payload = map[string]any{
			"embeds": []map[string]any{{
				"title":       fmt.Sprintf("%d-day posting streak", streak),
				"description": quote,
				"color":       0x22c55e,
				"footer":      map[string]any{"text": "PlanCast"},
			}},
		}
	} else {
		payload = map[string]any{
			"event":     "streak_milestone",
			"email":     user.Email,
			"name":      strings.TrimSpace(user.FirstName + " " + user.LastName),
			"streak":    streak,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"quote":     quote,
			"app_url":   n.cfg.AppURL,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
