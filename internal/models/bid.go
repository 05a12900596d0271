package models

import "time"

// Bid is a reverse-auction offer. Rows are immutable once created; the
// strictly-decreasing-amount invariant is enforced inside the placing
// transaction, not here.
type Bid struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	BidAmount int       `gorm:"not null" json:"bid_amount"`
	Comment   *string   `gorm:"type:varchar(200)" json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
