package categorization

import (
	"fmt"
	"math"
	"time"

	models "github.com/fitdesk/gymcrm/internal/models"
	types "github.com/fitdesk/gymcrm/pkg/types"
)

// Options carries the tunable classification windows.
type Options struct {
	// DueSoonDays is the renewal look-ahead window; an ending date within
	// [today, today+DueSoonDays) counts as due-soon.
	DueSoonDays int
	// LongTermDays is the membership age past which a non-active status marks
	// the member inactive.
	LongTermDays int
}

func DefaultOptions() Options {
	return Options{DueSoonDays: 7, LongTermDays: 60}
}

// MemberWithTransactions is the engine's input shape: a member joined with its
// transaction history. How the join happened (embedded fetch, separate queries)
// is the caller's concern.
type MemberWithTransactions struct {
	Member       *models.Member
	Transactions []*models.Transaction
}

// BucketEntry identifies a member placed in the active/due-soon/overdue lists.
type BucketEntry struct {
	MemberID       string             `json:"member_id"`
	Name           string             `json:"name"`
	Status         types.MemberStatus `json:"status"`
	MembershipType *string            `json:"membership_type,omitempty"`
	// EndingDate is the ending date of the transaction that triggered a
	// renewal rule; nil for status-driven entries. For due-soon it is the
	// earliest qualifying ending date, which is what the renewals table sorts on.
	EndingDate *time.Time `json:"ending_date,omitempty"`
}

// InactiveEntry carries the human-readable reason shown in the inactive dialog.
type InactiveEntry struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// Result is the four-bucket partition. Buckets are disjoint for status-driven
// placement, but a member with both an active status and a delinquent or
// expiring transaction appears in Active and Overdue/DueSoon at the same time;
// use Deduplicated for display counts.
type Result struct {
	Active   []BucketEntry   `json:"active"`
	DueSoon  []BucketEntry   `json:"due_soon"`
	Overdue  []BucketEntry   `json:"overdue"`
	Inactive []InactiveEntry `json:"inactive"`
}

// Deduplicated returns a copy in which every member counts exactly once:
// Inactive wins over Overdue/DueSoon (the long-term rule can fire after a
// transaction rule already placed the member), and Overdue/DueSoon win over
// Active. Summary counts over the result partition the member set.
func (r *Result) Deduplicated() *Result {
	inactive := make(map[string]struct{}, len(r.Inactive))
	for _, e := range r.Inactive {
		inactive[e.MemberID] = struct{}{}
	}

	flagged := make(map[string]struct{}, len(r.Overdue)+len(r.DueSoon))
	out := &Result{Inactive: r.Inactive}
	for _, e := range r.Overdue {
		flagged[e.MemberID] = struct{}{}
		if _, ok := inactive[e.MemberID]; !ok {
			out.Overdue = append(out.Overdue, e)
		}
	}
	for _, e := range r.DueSoon {
		flagged[e.MemberID] = struct{}{}
		if _, ok := inactive[e.MemberID]; !ok {
			out.DueSoon = append(out.DueSoon, e)
		}
	}
	for _, e := range r.Active {
		if _, ok := flagged[e.MemberID]; ok {
			continue
		}
		if _, ok := inactive[e.MemberID]; ok {
			continue
		}
		out.Active = append(out.Active, e)
	}
	return out
}

// Categorize partitions the snapshot into the four lifecycle buckets.
//
// It is pure: now is the only clock, nothing is mutated, and malformed
// individual records degrade to a conservative classification instead of
// affecting other members.
func Categorize(snapshot []MemberWithTransactions, now time.Time, opts Options) *Result {
	if opts.DueSoonDays <= 0 {
		opts.DueSoonDays = DefaultOptions().DueSoonDays
	}
	if opts.LongTermDays <= 0 {
		opts.LongTermDays = DefaultOptions().LongTermDays
	}

	today := midnight(now)
	dueSoonEnd := today.AddDate(0, 0, opts.DueSoonDays)

	result := &Result{}

	for _, mt := range snapshot {
		m := mt.Member
		if m == nil {
			continue
		}

		status := m.StatusEnum()

		// Disabling status short-circuits every other rule.
		if status.Disabling() {
			result.Inactive = append(result.Inactive, InactiveEntry{
				MemberID: m.ID,
				Name:     m.Name,
				Reason:   fmt.Sprintf("Status: %s", status),
			})
			continue
		}

		entry := BucketEntry{MemberID: m.ID, Name: m.Name, Status: status, MembershipType: m.MembershipType}

		inActive := false
		if status == types.MemberStatusActive {
			result.Active = append(result.Active, entry)
			inActive = true
		}

		// Transaction rules run independently of the status placement above.
		var overdueAt, dueSoonAt int = -1, -1
		for _, tx := range mt.Transactions {
			if tx == nil || !tx.PeriodEnum().Renewable() {
				continue
			}

			if tx.StatusEnum().Delinquent() {
				overdueAt = appendOnce(&result.Overdue, overdueAt, entry, tx.EndingDate)
				continue
			}

			if tx.EndingDate == nil || tx.EndingDate.IsZero() {
				continue
			}
			end := midnight(*tx.EndingDate)
			switch {
			case end.Before(today):
				overdueAt = appendOnce(&result.Overdue, overdueAt, entry, &end)
			case end.Before(dueSoonEnd):
				dueSoonAt = appendOnce(&result.DueSoon, dueSoonAt, entry, &end)
			}
		}
		triggered := overdueAt >= 0 || dueSoonAt >= 0

		// Long-term rule runs after the transaction checks.
		if !m.JoinDate.IsZero() &&
			daysBetween(m.JoinDate, now) > opts.LongTermDays &&
			m.Status != "" && status != types.MemberStatusActive {
			result.Inactive = append(result.Inactive, InactiveEntry{
				MemberID: m.ID,
				Name:     m.Name,
				Reason:   "Long-term member with non-active status",
			})
			continue
		}

		// Catch-all: nothing disqualified the member.
		if !inActive && !triggered {
			result.Active = append(result.Active, entry)
		}
	}

	return result
}

// appendOnce adds entry to the bucket the first time a member triggers it and
// keeps the earliest ending date on repeat triggers. It returns the member's
// index within the bucket.
func appendOnce(bucket *[]BucketEntry, at int, entry BucketEntry, end *time.Time) int {
	if end != nil && !end.IsZero() {
		e := *end
		entry.EndingDate = &e
	}
	if at < 0 {
		*bucket = append(*bucket, entry)
		return len(*bucket) - 1
	}
	existing := &(*bucket)[at]
	if entry.EndingDate != nil && (existing.EndingDate == nil || entry.EndingDate.Before(*existing.EndingDate)) {
		existing.EndingDate = entry.EndingDate
	}
	return at
}

// midnight strips the time of day, keeping the location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween returns the calendar-day distance from a to b. Rounding absorbs
// DST shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(midnight(b.In(a.Location())).Sub(midnight(a)).Hours() / 24))
}
