package plan

// ScheduledPost is one calendar-dated content entry. Platform and niche are
// copied from the profile at generation time so a later profile change does
// not rewrite history.
type ScheduledPost struct {
	Date        string   `json:"date"`
	ContentType string   `json:"content_type"`
	Hook        string   `json:"hook"`
	Caption     string   `json:"caption"`
	CTA         string   `json:"cta"`
	Tags        []string `json:"tags"`
	Platform    Platform `json:"platform"`
	Niche       string   `json:"niche"`
}

// PostEdit is the user-authored overlay for one date. It survives
// regeneration of the month it belongs to.
type PostEdit struct {
	Caption *string `json:"caption,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

func (e PostEdit) Empty() bool {
	return e.Caption == nil && e.Notes == nil
}

// MetricEntry records logged engagement for one date. At most one entry per
// date; a second log replaces the first.
type MetricEntry struct {
	Date     string `json:"date"`
	Views    int    `json:"views"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
	Saves    int    `json:"saves"`
}
