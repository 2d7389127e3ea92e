package categorization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/fitdesk/gymcrm/internal/models"
)

var testNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func tp(t time.Time) *time.Time { return &t }

func member(id, name, status string, joinedDaysAgo int) *models.Member {
	return &models.Member{
		ID:       id,
		Name:     name,
		Status:   status,
		JoinDate: testNow.AddDate(0, 0, -joinedDaysAgo),
	}
}

func tx(memberID, period, status string, endingInDays *int) *models.Transaction {
	t := &models.Transaction{
		MemberID:           memberID,
		SubscriptionPeriod: period,
		Status:             status,
		StartDate:          testNow.AddDate(0, -1, 0),
	}
	if endingInDays != nil {
		t.EndingDate = tp(testNow.AddDate(0, 0, *endingInDays))
	}
	return t
}

func intp(n int) *int { return &n }

func memberIDs(entries []BucketEntry) []string {
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.MemberID)
	}
	return ids
}

func inactiveIDs(entries []InactiveEntry) []string {
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.MemberID)
	}
	return ids
}

func TestCategorize_StatusRules(t *testing.T) {
	tests := []struct {
		name         string
		snapshot     []MemberWithTransactions
		wantActive   []string
		wantInactive []string
		wantReason   string
	}{
		{
			name:     "empty snapshot",
			snapshot: nil,
		},
		{
			name: "suspended member is only inactive",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Sarah", "suspended", 10)},
			},
			wantInactive: []string{"m1"},
			wantReason:   "Status: suspended",
		},
		{
			name: "inactive status case-insensitive",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Mike", "Inactive", 200)},
			},
			wantInactive: []string{"m1"},
			wantReason:   "Status: inactive",
		},
		{
			name: "active member with no transactions only in active",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Emily", "active", 90)},
			},
			wantActive: []string{"m1"},
		},
		{
			name: "unknown status treated as active",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "John", "frozen", 90)},
			},
			wantActive: []string{"m1"},
		},
		{
			name: "empty status treated as active",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Lisa", "", 200)},
			},
			wantActive: []string{"m1"},
		},
		{
			name: "pending member joined 10 days ago falls to active",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Ben", "pending", 10)},
			},
			wantActive: []string{"m1"},
		},
		{
			name: "pending member joined 90 days ago is long-term inactive",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Ava", "pending", 90)},
			},
			wantInactive: []string{"m1"},
			wantReason:   "Long-term member with non-active status",
		},
		{
			name: "expired member at exactly 60 days stays active",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Tom", "expired", 60)},
			},
			wantActive: []string{"m1"},
		},
		{
			name: "zero join date never triggers the long-term rule",
			snapshot: []MemberWithTransactions{
				{Member: &models.Member{ID: "m1", Name: "NoJoin", Status: "pending"}},
			},
			wantActive: []string{"m1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Categorize(tt.snapshot, testNow, DefaultOptions())
			assert.Equal(t, tt.wantActive, memberIDs(res.Active))
			assert.Equal(t, tt.wantInactive, inactiveIDs(res.Inactive))
			assert.Empty(t, res.DueSoon)
			assert.Empty(t, res.Overdue)
			if tt.wantReason != "" {
				require.Len(t, res.Inactive, 1)
				assert.Equal(t, tt.wantReason, res.Inactive[0].Reason)
			}
		})
	}
}

func TestCategorize_TransactionRules(t *testing.T) {
	tests := []struct {
		name        string
		snapshot    []MemberWithTransactions
		wantActive  []string
		wantDueSoon []string
		wantOverdue []string
	}{
		{
			name: "monthly ending yesterday is overdue",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Sarah", "active", 30), Transactions: []*models.Transaction{
					tx("m1", "monthly", "complete", intp(-1)),
				}},
			},
			wantActive:  []string{"m1"},
			wantOverdue: []string{"m1"},
		},
		{
			name: "weekly ending today is due soon, not overdue",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Mike", "active", 30), Transactions: []*models.Transaction{
					tx("m1", "weekly", "complete", intp(0)),
				}},
			},
			wantActive:  []string{"m1"},
			wantDueSoon: []string{"m1"},
		},
		{
			name: "monthly ending in 6 days is due soon",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Emily", "active", 30), Transactions: []*models.Transaction{
					tx("m1", "monthly", "complete", intp(6)),
				}},
			},
			wantActive:  []string{"m1"},
			wantDueSoon: []string{"m1"},
		},
		{
			name: "monthly ending in exactly 7 days is not due soon",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "John", "active", 30), Transactions: []*models.Transaction{
					tx("m1", "monthly", "complete", intp(7)),
				}},
			},
			wantActive: []string{"m1"},
		},
		{
			name: "incomplete monthly is overdue regardless of ending date",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Lisa", "active", 30), Transactions: []*models.Transaction{
					tx("m1", "monthly", "incomplete", intp(20)),
				}},
			},
			wantActive:  []string{"m1"},
			wantOverdue: []string{"m1"},
		},
		{
			name: "failed weekly without ending date is overdue",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Ben", "active", 30), Transactions: []*models.Transaction{
					tx("m1", "weekly", "failed", nil),
				}},
			},
			wantActive:  []string{"m1"},
			wantOverdue: []string{"m1"},
		},
		{
			name: "daily pass never triggers renewal rules",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Ava", "active", 30), Transactions: []*models.Transaction{
					tx("m1", "daily", "failed", intp(-10)),
					tx("m1", "daily", "complete", intp(2)),
				}},
			},
			wantActive: []string{"m1"},
		},
		{
			name: "missing ending date does not trigger",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Tom", "active", 30), Transactions: []*models.Transaction{
					tx("m1", "monthly", "complete", nil),
				}},
			},
			wantActive: []string{"m1"},
		},
		{
			name: "zero ending date does not trigger",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Zed", "active", 30), Transactions: []*models.Transaction{
					{MemberID: "m1", SubscriptionPeriod: "monthly", Status: "complete", EndingDate: &time.Time{}},
				}},
			},
			wantActive: []string{"m1"},
		},
		{
			name: "multiple triggering transactions add the member once",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Dup", "active", 30), Transactions: []*models.Transaction{
					tx("m1", "monthly", "complete", intp(-5)),
					tx("m1", "weekly", "failed", nil),
					tx("m1", "monthly", "complete", intp(3)),
					tx("m1", "weekly", "complete", intp(5)),
				}},
			},
			wantActive:  []string{"m1"},
			wantDueSoon: []string{"m1"},
			wantOverdue: []string{"m1"},
		},
		{
			name: "pending member with due soon transaction skips the catch-all",
			snapshot: []MemberWithTransactions{
				{Member: member("m1", "Pat", "pending", 10), Transactions: []*models.Transaction{
					tx("m1", "monthly", "complete", intp(2)),
				}},
			},
			wantDueSoon: []string{"m1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Categorize(tt.snapshot, testNow, DefaultOptions())
			assert.Equal(t, tt.wantActive, memberIDs(res.Active))
			assert.Equal(t, tt.wantDueSoon, memberIDs(res.DueSoon))
			assert.Equal(t, tt.wantOverdue, memberIDs(res.Overdue))
			assert.Empty(t, res.Inactive)
		})
	}
}

// The scenario from the product rules: active status, joined 90 days ago, one
// monthly transaction incomplete and already past its ending date. The member
// shows up in both active and overdue because status and transaction checks
// are independent; Deduplicated resolves the overlap for counting.
func TestCategorize_ActiveOverdueOverlap(t *testing.T) {
	snapshot := []MemberWithTransactions{
		{Member: member("a", "A", "active", 90), Transactions: []*models.Transaction{
			tx("a", "monthly", "incomplete", intp(-1)),
		}},
		{Member: member("b", "B", "active", 15)},
	}

	res := Categorize(snapshot, testNow, DefaultOptions())
	assert.Equal(t, []string{"a", "b"}, memberIDs(res.Active))
	assert.Equal(t, []string{"a"}, memberIDs(res.Overdue))

	dedup := res.Deduplicated()
	assert.Equal(t, []string{"b"}, memberIDs(dedup.Active))
	assert.Equal(t, []string{"a"}, memberIDs(dedup.Overdue))
	// original result untouched
	assert.Equal(t, []string{"a", "b"}, memberIDs(res.Active))
}

func TestCategorize_LongTermRuleRunsAfterTransactions(t *testing.T) {
	// Pending member, joined 90 days ago, with a delinquent monthly
	// transaction: lands in overdue via the transaction check and in inactive
	// via the long-term rule, but never in active.
	snapshot := []MemberWithTransactions{
		{Member: member("m1", "Old Pending", "pending", 90), Transactions: []*models.Transaction{
			tx("m1", "monthly", "failed", nil),
		}},
	}

	res := Categorize(snapshot, testNow, DefaultOptions())
	assert.Empty(t, res.Active)
	assert.Equal(t, []string{"m1"}, memberIDs(res.Overdue))
	assert.Equal(t, []string{"m1"}, inactiveIDs(res.Inactive))
	assert.Equal(t, "Long-term member with non-active status", res.Inactive[0].Reason)
}

func TestDeduplicated_InactiveWinsOverTransactionBuckets(t *testing.T) {
	// Overdue via the transaction check and inactive via the long-term rule:
	// deduplicated counts keep the member in inactive only.
	snapshot := []MemberWithTransactions{
		{Member: member("m1", "Old Pending", "pending", 90), Transactions: []*models.Transaction{
			tx("m1", "monthly", "failed", nil),
		}},
		{Member: member("m2", "Fresh", "active", 10)},
	}

	res := Categorize(snapshot, testNow, DefaultOptions())
	require.Equal(t, []string{"m1"}, memberIDs(res.Overdue))
	require.Equal(t, []string{"m1"}, inactiveIDs(res.Inactive))

	dedup := res.Deduplicated()
	assert.Empty(t, dedup.Overdue)
	assert.Empty(t, dedup.DueSoon)
	assert.Equal(t, []string{"m2"}, memberIDs(dedup.Active))
	assert.Equal(t, []string{"m1"}, inactiveIDs(dedup.Inactive))
	// every member counts exactly once
	total := len(dedup.Active) + len(dedup.DueSoon) + len(dedup.Overdue) + len(dedup.Inactive)
	assert.Equal(t, len(snapshot), total)
}

func TestCategorize_DisablingStatusShortCircuitsTransactions(t *testing.T) {
	snapshot := []MemberWithTransactions{
		{Member: member("m1", "Gone", "suspended", 90), Transactions: []*models.Transaction{
			tx("m1", "monthly", "failed", intp(-10)),
		}},
	}

	res := Categorize(snapshot, testNow, DefaultOptions())
	assert.Equal(t, []string{"m1"}, inactiveIDs(res.Inactive))
	assert.Empty(t, res.Active)
	assert.Empty(t, res.Overdue)
	assert.Empty(t, res.DueSoon)
}

func TestCategorize_DueSoonKeepsEarliestEndingDate(t *testing.T) {
	snapshot := []MemberWithTransactions{
		{Member: member("m1", "Renewal", "active", 30), Transactions: []*models.Transaction{
			tx("m1", "monthly", "complete", intp(5)),
			tx("m1", "weekly", "complete", intp(2)),
		}},
	}

	res := Categorize(snapshot, testNow, DefaultOptions())
	require.Len(t, res.DueSoon, 1)
	require.NotNil(t, res.DueSoon[0].EndingDate)
	want := midnight(testNow.AddDate(0, 0, 2))
	assert.Equal(t, want, *res.DueSoon[0].EndingDate)
}

func TestCategorize_TimeOfDayDoesNotSkewWindows(t *testing.T) {
	// 23:59 local: a transaction ending "tomorrow at 00:30" is still one
	// calendar day away.
	lateNow := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	snapshot := []MemberWithTransactions{
		{Member: member("m1", "Night Owl", "active", 30), Transactions: []*models.Transaction{
			{MemberID: "m1", SubscriptionPeriod: "monthly", Status: "complete",
				EndingDate: tp(time.Date(2025, 6, 16, 0, 30, 0, 0, time.UTC))},
		}},
	}

	res := Categorize(snapshot, lateNow, DefaultOptions())
	assert.Equal(t, []string{"m1"}, memberIDs(res.DueSoon))
	assert.Empty(t, res.Overdue)
}

func TestCategorize_CustomWindows(t *testing.T) {
	opts := Options{DueSoonDays: 3, LongTermDays: 30}
	snapshot := []MemberWithTransactions{
		{Member: member("m1", "Short Window", "active", 10), Transactions: []*models.Transaction{
			tx("m1", "monthly", "complete", intp(5)),
		}},
		{Member: member("m2", "Aging", "pending", 45)},
	}

	res := Categorize(snapshot, testNow, opts)
	assert.Empty(t, res.DueSoon, "5 days out is outside a 3-day window")
	assert.Equal(t, []string{"m2"}, inactiveIDs(res.Inactive))
}

func TestCategorize_NilMemberSkipped(t *testing.T) {
	snapshot := []MemberWithTransactions{
		{Member: nil},
		{Member: member("m1", "Real", "active", 5)},
	}
	res := Categorize(snapshot, testNow, DefaultOptions())
	assert.Equal(t, []string{"m1"}, memberIDs(res.Active))
}
