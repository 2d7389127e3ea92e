package models

import "time"

// CheckIn is a single gym visit.
type CheckIn struct {
	ID          string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	MemberID    string    `gorm:"column:member_id;type:uuid;not null;index:idx_member_checkin,priority:1" json:"member_id"`
	CheckInTime time.Time `gorm:"column:check_in_time;not null;index:idx_member_checkin,priority:2,sort:desc" json:"check_in_time"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CheckIn) TableName() string {
	return "check_in"
}
