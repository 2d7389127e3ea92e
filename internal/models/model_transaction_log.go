package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fitdesk/gymcrm/pkg/types"
)

// TransactionLog records every transaction mutation for troubleshooting.
type TransactionLog struct {
	ID            string                           `gorm:"column:id;primary_key;type:uuid;index:idx_member_id_id,priority:2,sort:desc"`
	MemberID      string                           `gorm:"column:member_id;type:uuid;index:idx_member_id_id,priority:1;not null"`
	TransactionID string                           `gorm:"column:transaction_id;type:uuid;not null"`
	Reason        types.TransactionChangeReason    `gorm:"column:reason;type:varchar(64);not null"`
	Before        datatypes.JSONType[*Transaction] `gorm:"column:before;type:jsonb;default:'null'"`
	After         datatypes.JSONType[*Transaction] `gorm:"column:after;type:jsonb;default:'null'"`
	Extra         datatypes.JSONMap                `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt     time.Time                        `json:"created_at"`
}

func (TransactionLog) TableName() string {
	return "transaction_log"
}
