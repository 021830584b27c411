package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/plancast-backend/internal/data/repos/testutil"
	types "github.com/yungbote/plancast-backend/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.User{
		{
			ID:        uuid.New(),
			Email:     "userrepo@example.com",
			Password:  "pw",
			FirstName: "A",
			LastName:  "B",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 user, got %d", len(created))
	}

	gotByIDs, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	exists, err := repo.EmailExists(ctx, tx, created[0].Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}

	if err := repo.UpdatePreferredTheme(ctx, tx, created[0].ID, "dark"); err != nil {
		t.Fatalf("UpdatePreferredTheme: %v", err)
	}
	if err := repo.UpdateWebhookURL(ctx, tx, created[0].ID, "https://hooks.example.com/abc"); err != nil {
		t.Fatalf("UpdateWebhookURL: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs after update: %v", err)
	}
	if got[0].PreferredTheme != "dark" {
		t.Fatalf("expected theme dark, got %q", got[0].PreferredTheme)
	}
	if got[0].WebhookURL != "https://hooks.example.com/abc" {
		t.Fatalf("unexpected webhook url: %q", got[0].WebhookURL)
	}
}
