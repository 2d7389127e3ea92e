package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fitdesk/gymcrm/pkg/types"
)

type MemberExtra struct {
	// OperatorId is the staff member who registered/edited the record.
	OperatorId string `json:"operator_id,omitempty"`
	// Source is the registration channel (front desk, web form, import).
	Source string `json:"source,omitempty"`
}

// Member is a gym customer record. Status is stored as the raw string the
// backend supplied; use StatusEnum for classification.
type Member struct {
	ID             string  `gorm:"column:id;primary_key;type:uuid" json:"id"`
	Name           string  `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email          *string `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone          *string `gorm:"column:phone;type:varchar(64)" json:"phone"`
	Status         string  `gorm:"column:status;type:varchar(64);not null;default:'active';index" json:"status"`
	MembershipType *string `gorm:"column:membership_type;type:varchar(64)" json:"membership_type"`
	// JoinDate is the registration date; day precision is what the
	// categorization rules care about.
	JoinDate  time.Time                             `gorm:"column:join_date;not null" json:"join_date"`
	Extra     datatypes.JSONType[*MemberExtra]      `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time                             `json:"created_at"`
	UpdatedAt time.Time                             `json:"updated_at"`
}

func (Member) TableName() string {
	return "member"
}

func (m *Member) StatusEnum() types.MemberStatus {
	return types.ParseMemberStatus(m.Status)
}
