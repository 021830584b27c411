package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/plancast-backend/internal/clients/redis"
	planrepo "github.com/yungbote/plancast-backend/internal/data/repos/plan"
	userrepo "github.com/yungbote/plancast-backend/internal/data/repos/user"
	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/domain/plan"
	"github.com/yungbote/plancast-backend/internal/planner"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
)

// saveTimeout bounds the detached background upsert that follows every save.
const saveTimeout = 10 * time.Second

type MarkDoneResult struct {
	Streak    int  `json:"streak"`
	Best      int  `json:"best"`
	Milestone bool `json:"milestone"`
}

// PlanService owns a user's planning document. Reads prefer the database,
// fall back to the cache, and bottom out at a fresh default document so the
// caller always gets something usable. Writes land in the cache first and
// reach the database best effort in the background.
type PlanService interface {
	Load(ctx context.Context, userID uuid.UUID) types.Document
	Save(ctx context.Context, userID uuid.UUID, doc types.Document)
	Reset(ctx context.Context, userID uuid.UUID) error

	UpdateProfile(ctx context.Context, userID uuid.UUID, profile types.Profile, step int) (types.Document, error)
	GenerateMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month, theme string) (types.Document, error)
	MarkDone(ctx context.Context, userID uuid.UUID, dateKey string) (types.Document, MarkDoneResult, error)
	UnmarkDone(ctx context.Context, userID uuid.UUID, dateKey string) (types.Document, error)
	SetEdit(ctx context.Context, userID uuid.UUID, dateKey string, edit types.PostEdit) (types.Document, error)
	SetDarkTheme(ctx context.Context, userID uuid.UUID, dark bool) types.Document
	LogMetrics(ctx context.Context, userID uuid.UUID, entry types.MetricEntry) (types.Document, error)
	Streak(ctx context.Context, userID uuid.UUID) (current int, best int)
}

type planService struct {
	log       *logger.Logger
	repo      planrepo.PlanRepo
	cache     redis.PlanCache
	users     userrepo.UserRepo
	generator CalendarGenService
	notifier  MilestoneNotifier
	now       func() time.Time
}

func NewPlanService(
	baseLog *logger.Logger,
	repo planrepo.PlanRepo,
	cache redis.PlanCache,
	users userrepo.UserRepo,
	generator CalendarGenService,
	notifier MilestoneNotifier,
) PlanService {
	return &planService{
		log:       baseLog.With("service", "PlanService"),
		repo:      repo,
		cache:     cache,
		users:     users,
		generator: generator,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *planService) Load(ctx context.Context, userID uuid.UUID) types.Document {
	doc, found, err := s.repo.Get(ctx, nil, userID)
	if err == nil && found {
		doc.Normalize()
		return doc
	}
	if err != nil {
		s.log.Warn("Plan load from database failed, trying cache",
			"user_id", userID.String(), "error", err.Error())
	}

	if s.cache != nil {
		cached, ok, cerr := s.cache.Get(ctx, userID)
		if cerr != nil {
			s.log.Warn("Plan load from cache failed",
				"user_id", userID.String(), "error", cerr.Error())
		} else if ok {
			cached.Normalize()
			return cached
		}
	}

	fresh := plan.NewDocument()
	fresh.Normalize()
	return fresh
}

// Save writes through the cache synchronously, then hands the database
// upsert to a detached goroutine. A failed upsert is logged and dropped; the
// cached copy remains the durability floor until the next successful save.
func (s *planService) Save(ctx context.Context, userID uuid.UUID, doc types.Document) {
	doc.Normalize()

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, doc); err != nil {
			s.log.Warn("Plan cache write failed",
				"user_id", userID.String(), "error", err.Error())
		}
	}

	go func() {
		bctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.repo.Upsert(bctx, nil, userID, doc); err != nil {
			s.log.Warn("Plan database upsert failed",
				"user_id", userID.String(), "error", err.Error())
		}
	}()
}

func (s *planService) Reset(ctx context.Context, userID uuid.UUID) error {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, userID); err != nil {
			s.log.Warn("Plan cache delete failed",
				"user_id", userID.String(), "error", err.Error())
		}
	}
	if err := s.repo.Delete(ctx, nil, userID); err != nil {
		return fmt.Errorf("failed to reset plan: %w", err)
	}
	return nil
}

func (s *planService) UpdateProfile(ctx context.Context, userID uuid.UUID, profile types.Profile, step int) (types.Document, error) {
	if profile.Platform != "" {
		// Clients send platform names in whatever casing the UI uses.
		normalized := plan.ParsePlatform(string(profile.Platform))
		if normalized == "" {
			return types.Document{}, fmt.Errorf("unknown platform %q", profile.Platform)
		}
		profile.Platform = normalized
	}
	if profile.Frequency != 0 && !profile.Frequency.Valid() {
		return types.Document{}, fmt.Errorf("unsupported posting frequency %d", profile.Frequency)
	}
	if step < 0 {
		step = 0
	}

	doc := s.Load(ctx, userID)
	doc.Onboarding = profile
	if step > doc.OnboardingStep {
		doc.OnboardingStep = step
	}
	s.Save(ctx, userID, doc)
	return doc, nil
}

func (s *planService) GenerateMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month, theme string) (types.Document, error) {
	doc := s.Load(ctx, userID)

	batch, err := s.generator.GenerateMonth(ctx, GenerateMonthRequest{
		UserID:  userID,
		Profile: doc.Onboarding,
		Year:    year,
		Month:   month,
		Theme:   theme,
	})
	if err != nil {
		return types.Document{}, err
	}

	planner.ApplyMonthBatch(&doc, year, month, batch)
	s.Save(ctx, userID, doc)
	return doc, nil
}

func (s *planService) MarkDone(ctx context.Context, userID uuid.UUID, dateKey string) (types.Document, MarkDoneResult, error) {
	doc := s.Load(ctx, userID)
	alreadyDone := doc.Done[dateKey]

	streak, err := planner.MarkDone(&doc, dateKey, s.now())
	if err != nil {
		return types.Document{}, MarkDoneResult{}, err
	}
	s.Save(ctx, userID, doc)

	res := MarkDoneResult{Streak: streak, Best: doc.BestStreak}
	// A milestone fires only on the completion that reached it; re-marking
	// a date that is already done reports the streak without notifying.
	if !alreadyDone && s.notifier != nil && s.notifier.IsMilestone(streak) {
		res.Milestone = true
		s.dispatchMilestone(userID, streak)
	}
	return doc, res, nil
}

// dispatchMilestone looks up the user and fires notifications off the
// request path. Failures never surface to the completion call.
func (s *planService) dispatchMilestone(userID uuid.UUID, streak int) {
	go func() {
		bctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		users, err := s.users.GetByIDs(bctx, nil, []uuid.UUID{userID})
		if err != nil || len(users) == 0 {
			s.log.Warn("Milestone user lookup failed",
				"user_id", userID.String())
			return
		}
		s.notifier.StreakReached(bctx, *users[0], streak)
	}()
}

func (s *planService) UnmarkDone(ctx context.Context, userID uuid.UUID, dateKey string) (types.Document, error) {
	doc := s.Load(ctx, userID)
	if _, err := planner.UnmarkDone(&doc, dateKey, s.now()); err != nil {
		return types.Document{}, err
	}
	s.Save(ctx, userID, doc)
	return doc, nil
}

func (s *planService) SetDarkTheme(ctx context.Context, userID uuid.UUID, dark bool) types.Document {
	doc := s.Load(ctx, userID)
	doc.DarkTheme = dark
	s.Save(ctx, userID, doc)
	return doc
}

func (s *planService) SetEdit(ctx context.Context, userID uuid.UUID, dateKey string, edit types.PostEdit) (types.Document, error) {
	doc := s.Load(ctx, userID)
	if err := planner.SetEdit(&doc, dateKey, edit); err != nil {
		return types.Document{}, err
	}
	s.Save(ctx, userID, doc)
	return doc, nil
}

func (s *planService) LogMetrics(ctx context.Context, userID uuid.UUID, entry types.MetricEntry) (types.Document, error) {
	doc := s.Load(ctx, userID)
	if err := planner.LogMetrics(&doc, entry); err != nil {
		return types.Document{}, err
	}
	s.Save(ctx, userID, doc)
	return doc, nil
}

func (s *planService) Streak(ctx context.Context, userID uuid.UUID) (int, int) {
	doc := s.Load(ctx, userID)
	current := planner.CurrentStreak(doc.Done, s.now())
	best := planner.UpdateBest(doc.BestStreak, current)
	return current, best
}
