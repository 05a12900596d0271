package models

import "time"

// Milestone records a self-care log entry. Streak-bonus rows share the table
// and carry IsStreakBonus plus a descriptive note instead of a routine name.
// Append-only; rows are never updated or deleted.
type Milestone struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	CrewID        uint64    `gorm:"not null;index" json:"crew_id"`
	UserID        uint64    `gorm:"not null;index" json:"user_id"`
	MilestoneType string    `gorm:"type:varchar(50);not null" json:"milestone_type"`
	PointsEarned  int       `gorm:"not null" json:"points_earned"`
	Note          *string   `gorm:"type:varchar(200)" json:"note"`
	IsStreakBonus bool      `gorm:"not null;default:false" json:"is_streak_bonus"`
	LoggedAt      time.Time `gorm:"index" json:"logged_at"`

	// Relations
	Crew Crew `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
