package planner

import (
	"sort"
	"time"

	"github.com/yungbote/plancast-backend/internal/domain/plan"
)

// CurrentStreak walks the flagged dates in descending order starting from the
// most recent flagged date at or before today, counting the contiguous run. A
// gap of more than one day between successive counted dates terminates the
// walk. Zero flagged dates yields 0.
func CurrentStreak(done map[string]bool, today time.Time) int {
	dates := make([]time.Time, 0, len(done))
	cutoff := truncateDay(today)
	for key, flagged := range done {
		if !flagged {
			continue
		}
		d, err := plan.ParseDateKey(key)
		if err != nil {
			continue
		}
		if d.After(cutoff) {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return 0
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	streak := 1
	for i := 1; i < len(dates); i++ {
		gap := dates[i-1].Sub(dates[i])
		if gap > 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}

// UpdateBest returns the monotonic high-water mark of the best streak.
func UpdateBest(prevBest, current int) int {
	if current > prevBest {
		return current
	}
	return prevBest
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
