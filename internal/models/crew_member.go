package models

import "time"

type CrewRole string

const (
	RoleCardHolder CrewRole = "card_holder"
	RoleAdmin      CrewRole = "admin"
	RoleCrewMember CrewRole = "crew_member"
)

// MemberStats accumulates per-member activity counters. Stored as a JSON
// column with a fixed schema; mutations happen inside the same transaction
// that performs the guarding task-status transition.
type MemberStats struct {
	TasksCompleted      int   `json:"tasksCompleted"`
	PointsSpent         int   `json:"pointsSpent"`
	AuctionWins         int   `json:"auctionWins"`
	TotalResponseTimeMs int64 `json:"totalResponseTimeMs"`
	ResponseCount       int   `json:"responseCount"`
	CurrentStreak       int   `json:"currentStreak"`
	LongestStreak       int   `json:"longestStreak"`
}

type CrewMember struct {
	ID       uint64      `gorm:"primarykey" json:"id"`
	CrewID   uint64      `gorm:"not null;uniqueIndex:idx_crew_member_unique" json:"crew_id"`
	UserID   uint64      `gorm:"not null;uniqueIndex:idx_crew_member_unique" json:"user_id"`
	Role     CrewRole    `gorm:"type:varchar(20);not null" json:"role"`
	Stats    MemberStats `gorm:"serializer:json" json:"stats"`
	Badges   []string    `gorm:"serializer:json" json:"badges"`
	JoinedAt time.Time   `json:"joined_at"`

	// Relations
	Crew Crew `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// HasBadge reports whether the member already holds the given badge.
func (m *CrewMember) HasBadge(badgeID string) bool {
	for _, b := range m.Badges {
		if b == badgeID {
			return true
		}
	}
	return false
}

// IsRequester reports whether the member may create tasks, confirm
// completion, and log milestones on behalf of the crew.
func (m *CrewMember) IsRequester() bool {
	return m.Role == RoleCardHolder || m.Role == RoleAdmin
}
