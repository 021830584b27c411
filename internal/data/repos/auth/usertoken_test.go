package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/plancast-backend/internal/data/repos/testutil"
	types "github.com/yungbote/plancast-backend/internal/domain"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserTokenRepo(db, testutil.Logger(t))
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "tokenrepo@example.com")

	tokenID := uuid.New()
	created, err := repo.Create(ctx, tx, []*types.UserToken{{
		ID:           tokenID,
		UserID:       u.ID,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 token, got %d", len(created))
	}

	byUser, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("GetByUserIDs: %v", err)
	}
	if len(byUser) != 1 || byUser[0].ID != tokenID {
		t.Fatalf("GetByUserIDs: unexpected result: %+v", byUser)
	}

	byAccess, err := repo.GetByAccessTokens(ctx, tx, []string{"access-1"})
	if err != nil {
		t.Fatalf("GetByAccessTokens: %v", err)
	}
	if len(byAccess) != 1 {
		t.Fatalf("GetByAccessTokens: expected 1 token, got %d", len(byAccess))
	}

	if err := repo.UpdateTokens(ctx, tx, tokenID, "access-2", "refresh-2"); err != nil {
		t.Fatalf("UpdateTokens: %v", err)
	}
	byRefresh, err := repo.GetByRefreshTokens(ctx, tx, []string{"refresh-2"})
	if err != nil {
		t.Fatalf("GetByRefreshTokens: %v", err)
	}
	if len(byRefresh) != 1 || byRefresh[0].AccessToken != "access-2" {
		t.Fatalf("GetByRefreshTokens: unexpected result: %+v", byRefresh)
	}

	if err := repo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("FullDeleteByUserIDs: %v", err)
	}
	remaining, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("GetByUserIDs (after delete): %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no tokens after delete, got %d", len(remaining))
	}
}
