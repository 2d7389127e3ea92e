package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fitdesk/gymcrm/pkg/types"
)

type TransactionExtra struct {
	// ProviderReference is the payment processor's own id for this charge.
	ProviderReference string `json:"provider_reference,omitempty"`
	// OperatorId is set on manually recorded payments.
	OperatorId string `json:"operator_id,omitempty"`
}

// Transaction is one payment/subscription period owned by a member.
type Transaction struct {
	ID       string `gorm:"column:id;primary_key;type:uuid;index:idx_member_id_id,priority:2,sort:desc" json:"id"`
	MemberID string `gorm:"column:member_id;type:uuid;not null;index:idx_member_id_id,priority:1" json:"member_id"`
	// Amount is in minor currency units.
	Amount   int64  `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Currency string `gorm:"column:currency;type:varchar(8);not null;default:'KES'" json:"currency"`
	// SubscriptionPeriod is daily, weekly or monthly. Daily passes are exempt
	// from renewal-window classification.
	SubscriptionPeriod string    `gorm:"column:subscription_period;type:varchar(16);not null" json:"subscription_period"`
	StartDate          time.Time `gorm:"column:start_date;not null" json:"start_date"`
	// EndingDate is nil for open-ended periods; those never expire.
	EndingDate *time.Time `gorm:"column:ending_date;default:null" json:"ending_date"`
	Status     string     `gorm:"column:status;type:varchar(32);not null;default:'pending'" json:"status"`

	Extra     datatypes.JSONType[*TransactionExtra] `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time                             `json:"created_at"`
	UpdatedAt time.Time                             `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transaction"
}

func (t *Transaction) StatusEnum() types.TransactionStatus {
	return types.ParseTransactionStatus(t.Status)
}

func (t *Transaction) PeriodEnum() types.SubscriptionPeriod {
	return types.ParseSubscriptionPeriod(t.SubscriptionPeriod)
}
