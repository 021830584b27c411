package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	userrepo "github.com/yungbote/plancast-backend/internal/data/repos/user"
	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdatePreferredTheme(ctx context.Context, userID uuid.UUID, theme string) error
	UpdateWebhookURL(ctx context.Context, userID uuid.UUID, webhookURL string) error
}

type userService struct {
	log     *logger.Logger
	repo    userrepo.UserRepo
	avatars AvatarService
}

func NewUserService(baseLog *logger.Logger, repo userrepo.UserRepo, avatars AvatarService) UserService {
	return &userService{
		log:     baseLog.With("service", "UserService"),
		repo:    repo,
		avatars: avatars,
	}
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := s.repo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user not found")
	}
	u := users[0]

	// Backfill for accounts whose avatar render failed at registration.
	if u.AvatarDataURL == "" && s.avatars != nil {
		if err := s.avatars.AssignInitialsAvatar(ctx, u); err != nil {
			s.log.Warn("Could not render initials avatar", "user_id", u.ID.String(), "error", err.Error())
		} else if err := s.repo.UpdateAvatar(ctx, nil, u.ID, u.AvatarColor, u.AvatarDataURL); err != nil {
			s.log.Warn("Could not persist backfilled avatar", "user_id", u.ID.String(), "error", err.Error())
		}
	}
	return u, nil
}

func (s *userService) UpdatePreferredTheme(ctx context.Context, userID uuid.UUID, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("theme must be light or dark")
	}
	if err := s.repo.UpdatePreferredTheme(ctx, nil, userID, theme); err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}
	return nil
}

// UpdateWebhookURL accepts an empty string to disable webhook notifications.
func (s *userService) UpdateWebhookURL(ctx context.Context, userID uuid.UUID, webhookURL string) error {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL != "" {
		parsed, err := url.Parse(webhookURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("webhook url must be an absolute http(s) URL")
		}
	}
	if err := s.repo.UpdateWebhookURL(ctx, nil, userID, webhookURL); err != nil {
		return fmt.Errorf("failed to update webhook url: %w", err)
	}
	return nil
}
