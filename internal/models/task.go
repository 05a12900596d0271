package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusClaimed    TaskStatus = "claimed"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type RequestMode string

const (
	RequestModeOpen    RequestMode = "open"
	RequestModeDirect  RequestMode = "direct"
	RequestModeAuction RequestMode = "auction"
)

type TaskUrgency string

const (
	UrgencyWhenever TaskUrgency = "whenever"
	UrgencyToday    TaskUrgency = "today"
	UrgencyASAP     TaskUrgency = "asap"
)

// AuctionSettings is embedded into the tasks table. EndsAt is computed at
// creation from DurationMinutes and drives the expiry sweep.
type AuctionSettings struct {
	MinBid             int        `gorm:"column:auction_min_bid" json:"min_bid"`
	DurationMinutes    int        `gorm:"column:auction_duration_minutes" json:"duration_minutes"`
	AutoCloseAfterBids *int       `gorm:"column:auction_auto_close_after_bids" json:"auto_close_after_bids"`
	EndsAt             *time.Time `gorm:"column:auction_ends_at;index" json:"ends_at"`
}

type Task struct {
	ID          uint64      `gorm:"primarykey" json:"id"`
	CrewID      uint64      `gorm:"not null;index" json:"crew_id"`
	CreatedBy   uint64      `gorm:"not null;index" json:"created_by"`
	Title       string      `gorm:"type:varchar(100);not null" json:"title"`
	Description *string     `gorm:"type:text" json:"description"`
	Category    string      `gorm:"type:varchar(50);not null" json:"category"`
	PointCost   int         `gorm:"not null" json:"point_cost"`
	RequestMode RequestMode `gorm:"type:varchar(20);not null" json:"request_mode"`
	Status      TaskStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Urgency     TaskUrgency `gorm:"type:varchar(20);not null;default:'whenever'" json:"urgency"`

	AssignedTo *uint64 `json:"assigned_to"`
	ClaimedBy  *uint64 `json:"claimed_by"`

	// Set on claim/auction-win when the charged cost differs from PointCost;
	// immutable once set.
	FinalPointCost *int `json:"final_point_cost"`

	DueBy   *time.Time      `json:"due_by"`
	Auction AuctionSettings `gorm:"embedded" json:"auction_settings"`

	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator      User  `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Crew         Crew  `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	AssignedUser *User `gorm:"foreignKey:AssignedTo" json:"assigned_user,omitempty"`
	ClaimedUser  *User `gorm:"foreignKey:ClaimedBy" json:"claimed_user,omitempty"`
	Bids         []Bid `gorm:"foreignKey:TaskID" json:"bids,omitempty"`
}

// FinalCost returns the cost charged at completion: the auction-resolved
// final cost when present, the proposed point cost otherwise.
func (t *Task) FinalCost() int {
	if t.FinalPointCost != nil {
		return *t.FinalPointCost
	}
	return t.PointCost
}

// IsTerminal reports whether no further status transitions are allowed.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled
}
