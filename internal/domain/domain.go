package domain

import (
	"github.com/yungbote/plancast-backend/internal/domain/plan"
	"github.com/yungbote/plancast-backend/internal/domain/user"
)

type User = user.User
type UserToken = user.UserToken

type Platform = plan.Platform
type Frequency = plan.Frequency
type Profile = plan.Profile
type ScheduledPost = plan.ScheduledPost
type PostEdit = plan.PostEdit
type MetricEntry = plan.MetricEntry
type Document = plan.Document
type PlanDocument = plan.PlanDocument

const (
	PlatformInstagram = plan.PlatformInstagram
	PlatformTikTok    = plan.PlatformTikTok
	PlatformYouTube   = plan.PlatformYouTube
	PlatformLinkedIn  = plan.PlatformLinkedIn
	PlatformTwitter   = plan.PlatformTwitter

	FrequencyLight    = plan.FrequencyLight
	FrequencyRegular  = plan.FrequencyRegular
	FrequencyEveryDay = plan.FrequencyEveryDay
)
