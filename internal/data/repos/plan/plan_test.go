package plan

import (
	"context"
	"testing"

	"github.com/yungbote/plancast-backend/internal/data/repos/testutil"
	types "github.com/yungbote/plancast-backend/internal/domain"
	plandoc "github.com/yungbote/plancast-backend/internal/domain/plan"
)

func TestPlanRepoRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPlanRepo(db, testutil.Logger(t))
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "planrepo@example.com")

	_, found, err := repo.Get(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("Get (empty): %v", err)
	}
	if found {
		t.Fatalf("Get (empty): expected not found")
	}

	doc := plandoc.NewDocument()
	doc.Onboarding = types.Profile{
		Platform:     types.PlatformInstagram,
		Niche:        "fitness",
		ContentTypes: []string{"reel"},
		Frequency:    types.FrequencyRegular,
	}
	doc.Done["2026-08-01"] = true
	doc.BestStreak = 4

	if err := repo.Upsert(ctx, tx, u.ID, doc); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, found, err := repo.Get(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatalf("Get: expected found")
	}
	if got.Onboarding.Niche != "fitness" || !got.Done["2026-08-01"] || got.BestStreak != 4 {
		t.Fatalf("Get: unexpected document: %+v", got)
	}

	// Second upsert replaces the stored document.
	doc.BestStreak = 7
	if err := repo.Upsert(ctx, tx, u.ID, doc); err != nil {
		t.Fatalf("Upsert (again): %v", err)
	}
	got, _, err = repo.Get(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("Get (after second upsert): %v", err)
	}
	if got.BestStreak != 7 {
		t.Fatalf("expected best streak 7, got %d", got.BestStreak)
	}

	if err := repo.Delete(ctx, tx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, found, err = repo.Get(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("Get (after delete): %v", err)
	}
	if found {
		t.Fatalf("Get (after delete): expected not found")
	}
}
