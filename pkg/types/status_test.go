package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMemberStatus(t *testing.T) {
	tests := []struct {
		in   string
		want MemberStatus
	}{
		{"active", MemberStatusActive},
		{"ACTIVE", MemberStatusActive},
		{" Suspended ", MemberStatusSuspended},
		{"inactive", MemberStatusInactive},
		{"pending", MemberStatusPending},
		{"expired", MemberStatusExpired},
		{"", MemberStatusActive},
		{"frozen", MemberStatusActive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMemberStatus(tt.in), "input %q", tt.in)
	}
}

func TestMemberStatus_Disabling(t *testing.T) {
	assert.True(t, MemberStatusInactive.Disabling())
	assert.True(t, MemberStatusSuspended.Disabling())
	assert.False(t, MemberStatusActive.Disabling())
	assert.False(t, MemberStatusPending.Disabling())
	assert.False(t, MemberStatusExpired.Disabling())
}

func TestParseTransactionStatus(t *testing.T) {
	tests := []struct {
		in   string
		want TransactionStatus
	}{
		{"complete", TransactionStatusComplete},
		{"Completed", TransactionStatusComplete},
		{"paid", TransactionStatusComplete},
		{"succeeded", TransactionStatusComplete},
		{"incomplete", TransactionStatusIncomplete},
		{"unpaid", TransactionStatusIncomplete},
		{"failed", TransactionStatusFailed},
		{"declined", TransactionStatusFailed},
		{"pending", TransactionStatusPending},
		{"whatever", TransactionStatusPending},
		{"", TransactionStatusPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTransactionStatus(tt.in), "input %q", tt.in)
	}
}

func TestSubscriptionPeriod_Renewable(t *testing.T) {
	assert.False(t, SubscriptionPeriodDaily.Renewable())
	assert.True(t, SubscriptionPeriodWeekly.Renewable())
	assert.True(t, SubscriptionPeriodMonthly.Renewable())
	assert.False(t, ParseSubscriptionPeriod("drop-in").Renewable())
}
