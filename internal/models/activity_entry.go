package models

import "time"

type ActivityEventType string

const (
	EventTaskCreated     ActivityEventType = "task_created"
	EventTaskClaimed     ActivityEventType = "task_claimed"
	EventTaskCompleted   ActivityEventType = "task_completed"
	EventBidPlaced       ActivityEventType = "bid_placed"
	EventAuctionWon      ActivityEventType = "auction_won"
	EventMilestoneLogged ActivityEventType = "milestone_logged"
	EventBadgeEarned     ActivityEventType = "badge_earned"
	EventMemberJoined    ActivityEventType = "member_joined"
)

// ActivityPayload is the typed event payload stored as JSON. Which fields are
// set depends on the event type; unused fields are omitted from the column.
type ActivityPayload struct {
	TaskID        uint64      `json:"taskId,omitempty"`
	TaskTitle     string      `json:"taskTitle,omitempty"`
	Mode          RequestMode `json:"mode,omitempty"`
	PointCost     int         `json:"pointCost,omitempty"`
	BidAmount     int         `json:"bidAmount,omitempty"`
	Comment       string      `json:"comment,omitempty"`
	WinningBid    int         `json:"winningBid,omitempty"`
	CompletedBy   uint64      `json:"completedBy,omitempty"`
	MilestoneType string      `json:"milestoneType,omitempty"`
	PointsEarned  int         `json:"pointsEarned,omitempty"`
	RoutineName   string      `json:"routineName,omitempty"`
	BadgeID       string      `json:"badgeId,omitempty"`
	CrewName      string      `json:"crewName,omitempty"`
}

// ActivityEntry is the append-only per-crew event log: the audit trail behind
// the near-real-time feed. Entries are never updated or deleted.
type ActivityEntry struct {
	ID        uint64            `gorm:"primarykey" json:"id"`
	CrewID    uint64            `gorm:"not null;index" json:"crew_id"`
	EventType ActivityEventType `gorm:"type:varchar(30);not null" json:"event_type"`
	ActorID   uint64            `gorm:"not null" json:"actor_id"`
	Payload   ActivityPayload   `gorm:"serializer:json" json:"payload"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`

	// Relations
	Crew  Crew `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
