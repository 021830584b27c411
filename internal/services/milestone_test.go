package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/plancast-backend/internal/domain"
)

func newTestNotifier(t *testing.T, cfg MilestoneConfig) *milestoneNotifier {
	t.Helper()
	return NewMilestoneNotifier(testLogger(t), cfg, nil).(*milestoneNotifier)
}

func TestIsMilestone(t *testing.T) {
	n := newTestNotifier(t, MilestoneConfig{Interval: 3})

	cases := map[int]bool{
		0:  false,
		1:  false,
		2:  false,
		3:  true,
		4:  false,
		6:  true,
		9:  true,
		10: false,
	}
	for streak, want := range cases {
		if got := n.IsMilestone(streak); got != want {
			t.Fatalf("IsMilestone(%d) = %v, want %v", streak, got, want)
		}
	}
}

func TestQuoteSelectionIsDeterministic(t *testing.T) {
	n := newTestNotifier(t, MilestoneConfig{Interval: 3})

	size := len(n.messages)
	if got, want := n.quoteFor(3), n.messages[3%size]; got != want {
		t.Fatalf("quoteFor(3) = %q, want %q", got, want)
	}
	if n.quoteFor(6) != n.quoteFor(6+size) {
		t.Fatalf("same residue should map to same message")
	}
}

func TestLoadMilestoneMessagesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	content := "messages:\n  - \"first\"\n  - \"second\"\n  - \"  \"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	n := newTestNotifier(t, MilestoneConfig{Interval: 3, MessagesFile: path})
	if len(n.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(n.messages))
	}
	if n.messages[0] != "first" || n.messages[1] != "second" {
		t.Fatalf("unexpected messages: %v", n.messages)
	}
}

func TestLoadMilestoneMessagesBadFileKeepsDefaults(t *testing.T) {
	n := newTestNotifier(t, MilestoneConfig{Interval: 3, MessagesFile: "/does/not/exist.yaml"})
	if len(n.messages) != len(defaultMilestoneMessages) {
		t.Fatalf("expected built-in messages, got %d", len(n.messages))
	}
}

func TestWebhookGenericEnvelope(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(t, MilestoneConfig{Interval: 3, AppURL: "https://app.example.com"})
	user := types.User{
		ID:        uuid.New(),
		Email:     "creator@example.com",
		FirstName: "Sam",
		LastName:  "Rivera",
	}
	if err := n.sendWebhook(context.Background(), srv.URL, user, 6, "keep going"); err != nil {
		t.Fatalf("sendWebhook: %v", err)
	}

	if got["event"] != "streak_milestone" {
		t.Fatalf("event = %v", got["event"])
	}
	if got["email"] != "creator@example.com" || got["name"] != "Sam Rivera" {
		t.Fatalf("identity fields wrong: %v", got)
	}
	if got["streak"] != float64(6) {
		t.Fatalf("streak = %v", got["streak"])
	}
	if got["quote"] != "keep going" {
		t.Fatalf("quote = %v", got["quote"])
	}
	if got["app_url"] != "https://app.example.com" {
		t.Fatalf("app_url = %v", got["app_url"])
	}
	if _, ok := got["timestamp"]; !ok {
		t.Fatalf("timestamp missing")
	}
}

func TestWebhookDiscordEmbed(t *testing.T) {
	var got map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := newTestNotifier(t, MilestoneConfig{Interval: 3})
	url := srv.URL + "/discord.com/api/webhooks/123/token"
	user := types.User{ID: uuid.New(), Email: "creator@example.com"}
	if err := n.sendWebhook(context.Background(), url, user, 3, "nice"); err != nil {
		t.Fatalf("sendWebhook: %v", err)
	}
	if path == "" {
		t.Fatalf("webhook never hit the server")
	}

	embeds, ok := got["embeds"].([]any)
	if !ok || len(embeds) != 1 {
		t.Fatalf("expected one embed, got %v", got)
	}
	embed := embeds[0].(map[string]any)
	if embed["description"] != "nice" {
		t.Fatalf("embed description = %v", embed["description"])
	}
}

func TestWebhookNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newTestNotifier(t, MilestoneConfig{Interval: 3})
	err := n.sendWebhook(context.Background(), srv.URL, types.User{ID: uuid.New()}, 3, "q")
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
}
