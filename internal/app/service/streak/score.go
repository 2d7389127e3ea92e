package streak

import (
	"math"
	"time"
)

// DefaultPenaltyPerDay is subtracted from the visit total for every skipped
// day beyond the first.
const DefaultPenaltyPerDay = 5

// Score computes the engagement score for a member given their total visit
// count and most recent visit. A visit today or yesterday keeps the full
// total; each further skipped day costs penaltyPerDay points, floored at 0.
// A nil last visit forces the penalty branch, so any nonzero penalty
// exceeding the total yields 0.
func Score(totalVisits int, lastVisit *time.Time, now time.Time, penaltyPerDay int) int {
	if penaltyPerDay <= 0 {
		penaltyPerDay = DefaultPenaltyPerDay
	}

	daysSince := math.MaxInt32
	if lastVisit != nil && !lastVisit.IsZero() {
		daysSince = daysBetween(*lastVisit, now)
	}

	if daysSince <= 1 {
		return totalVisits
	}

	penalty := (daysSince - 1) * penaltyPerDay
	if penalty >= totalVisits {
		return 0
	}
	return totalVisits - penalty
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(midnight(b.In(a.Location())).Sub(midnight(a)).Hours() / 24))
}
