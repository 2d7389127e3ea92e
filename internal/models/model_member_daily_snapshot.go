package models

import "time"

// MemberDailySnapshot stores the categorization bucket counts for one day.
// Rows feed the member-growth chart; recomputing history from live data is
// not possible once members churn, so the counts are frozen daily.
type MemberDailySnapshot struct {
	ID            string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SnapshotDate  string `gorm:"column:snapshot_date;uniqueIndex" json:"snapshot_date"`
	TotalCount    int64  `gorm:"column:total_count;not null" json:"total_count"`
	ActiveCount   int64  `gorm:"column:active_count;not null" json:"active_count"`
	DueSoonCount  int64  `gorm:"column:due_soon_count;not null" json:"due_soon_count"`
	OverdueCount  int64  `gorm:"column:overdue_count;not null" json:"overdue_count"`
	InactiveCount int64  `gorm:"column:inactive_count;not null" json:"inactive_count"`

	SnapshotCreatedAt time.Time `gorm:"column:snapshot_created_at" json:"snapshot_created_at"`
}

func (MemberDailySnapshot) TableName() string {
	return "member_daily_snapshot"
}
