package types

import "strings"

type TransactionStatus string

const (
	TransactionStatusComplete   TransactionStatus = "complete"
	TransactionStatusIncomplete TransactionStatus = "incomplete"
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusFailed     TransactionStatus = "failed"
)

// ParseTransactionStatus maps legacy spellings onto the closed status set.
// Unknown values parse as pending so they never count as a payment failure.
func ParseTransactionStatus(s string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "complete", "completed", "paid", "success", "succeeded":
		return TransactionStatusComplete
	case "incomplete", "unpaid":
		return TransactionStatusIncomplete
	case "failed", "failure", "declined":
		return TransactionStatusFailed
	default:
		return TransactionStatusPending
	}
}

// Delinquent reports whether the payment state by itself marks the owning
// member overdue.
func (s TransactionStatus) Delinquent() bool {
	return s == TransactionStatusIncomplete || s == TransactionStatusFailed
}

type SubscriptionPeriod string

const (
	SubscriptionPeriodDaily   SubscriptionPeriod = "daily"
	SubscriptionPeriodWeekly  SubscriptionPeriod = "weekly"
	SubscriptionPeriodMonthly SubscriptionPeriod = "monthly"
)

// ParseSubscriptionPeriod defaults unknown values to daily, which exempts
// the transaction from renewal-window rules.
func ParseSubscriptionPeriod(s string) SubscriptionPeriod {
	switch SubscriptionPeriod(strings.ToLower(strings.TrimSpace(s))) {
	case SubscriptionPeriodWeekly:
		return SubscriptionPeriodWeekly
	case SubscriptionPeriodMonthly:
		return SubscriptionPeriodMonthly
	default:
		return SubscriptionPeriodDaily
	}
}

// Renewable reports whether due/overdue renewal rules apply to the period.
// Daily passes never enter a renewal window.
func (p SubscriptionPeriod) Renewable() bool {
	return p == SubscriptionPeriodWeekly || p == SubscriptionPeriodMonthly
}

type TransactionChangeReason string

const (
	TransactionChangeReasonWebhook    TransactionChangeReason = "webhook"
	TransactionChangeReasonManual     TransactionChangeReason = "manual"
	TransactionChangeReasonRegistered TransactionChangeReason = "registered"
)
