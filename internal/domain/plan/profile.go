package plan

import "strings"

// Platform is one of the supported social networks.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformTikTok, PlatformYouTube, PlatformLinkedIn, PlatformTwitter:
		return true
	default:
		return false
	}
}

// ParsePlatform normalizes free-form input to a Platform. Returns "" when unsupported.
func ParsePlatform(s string) Platform {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p.Valid() {
		return p
	}
	return ""
}

// Frequency is the chosen posting cadence in posts per week.
type Frequency int

const (
	FrequencyLight    Frequency = 3
	FrequencyRegular  Frequency = 5
	FrequencyEveryDay Frequency = 7
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyLight, FrequencyRegular, FrequencyEveryDay:
		return true
	default:
		return false
	}
}

// Profile is the onboarding configuration that drives calendar generation.
type Profile struct {
	Platform     Platform  `json:"platform"`
	Niche        string    `json:"niche"`
	ContentTypes []string  `json:"content_types"`
	Frequency    Frequency `json:"frequency"`
}

// Complete reports whether every field needed for generation is set.
func (p Profile) Complete() bool {
	return p.Platform.Valid() &&
		strings.TrimSpace(p.Niche) != "" &&
		len(p.ContentTypes) > 0 &&
		p.Frequency.Valid()
}

// HasContentType reports whether ct is in the profile's selected set.
func (p Profile) HasContentType(ct string) bool {
	for _, c := range p.ContentTypes {
		if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(ct)) {
			return true
		}
	}
	return false
}
