package streak

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitdesk/gymcrm/pkg/config"
)

type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, db: db, log: log}
}

// memberVisitStats is the per-member aggregate derived from check-in rows.
type memberVisitStats struct {
	MemberID    string     `gorm:"column:member_id"`
	Name        string     `gorm:"column:name"`
	TotalVisits int        `gorm:"column:total_visits"`
	LastVisit   *time.Time `gorm:"column:last_visit"`
}

// LeaderboardEntry is one row of the streak leaderboard.
type LeaderboardEntry struct {
	MemberID    string `json:"member_id"`
	Name        string `json:"name"`
	StreakScore int    `json:"streak_score"`
	TotalVisits int    `json:"total_visits"`
}

func (s *Service) penaltyPerDay() int {
	if s.cfg != nil && s.cfg.Streak.PenaltyPerDay > 0 {
		return s.cfg.Streak.PenaltyPerDay
	}
	return DefaultPenaltyPerDay
}

func (s *Service) topN() int {
	if s.cfg != nil && s.cfg.Streak.TopN > 0 {
		return s.cfg.Streak.TopN
	}
	return 5
}

// Leaderboard scores every member with check-in history and returns the top
// entries with a positive score, highest first.
func (s *Service) Leaderboard(ctx context.Context, now time.Time) ([]LeaderboardEntry, error) {
	var stats []memberVisitStats
	err := s.db.WithContext(ctx).Raw(`
SELECT m.id AS member_id, m.name AS name, COUNT(c.id) AS total_visits, MAX(c.check_in_time) AS last_visit
FROM member m
JOIN check_in c ON c.member_id = m.id
GROUP BY m.id, m.name
`).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load visit stats: %w", err)
	}

	penalty := s.penaltyPerDay()
	entries := lo.FilterMap(stats, func(st memberVisitStats, _ int) (LeaderboardEntry, bool) {
		score := Score(st.TotalVisits, st.LastVisit, now, penalty)
		if score <= 0 {
			return LeaderboardEntry{}, false
		}
		return LeaderboardEntry{
			MemberID:    st.MemberID,
			Name:        st.Name,
			StreakScore: score,
			TotalVisits: st.TotalVisits,
		}, true
	})

	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		return b.StreakScore - a.StreakScore
	})

	if n := s.topN(); len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}
