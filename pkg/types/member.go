package types

import "strings"

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusInactive  MemberStatus = "inactive"
	MemberStatusSuspended MemberStatus = "suspended"
	MemberStatusPending   MemberStatus = "pending"
	MemberStatusExpired   MemberStatus = "expired"
)

// ParseMemberStatus normalizes a free-form status string to a MemberStatus.
// Unrecognized or empty values map to active, the safest default for
// classification: an unknown status must never disable a member.
func ParseMemberStatus(s string) MemberStatus {
	switch MemberStatus(strings.ToLower(strings.TrimSpace(s))) {
	case MemberStatusInactive:
		return MemberStatusInactive
	case MemberStatusSuspended:
		return MemberStatusSuspended
	case MemberStatusPending:
		return MemberStatusPending
	case MemberStatusExpired:
		return MemberStatusExpired
	default:
		return MemberStatusActive
	}
}

// Disabling reports whether the status alone removes a member from the
// active population.
func (s MemberStatus) Disabling() bool {
	return s == MemberStatusInactive || s == MemberStatusSuspended
}
