package models

import "time"

// TaskMenuTemplate and SelfCareRoutine are per-crew reference data, seeded at
// crew creation and read-mostly afterwards.

type TaskMenuTemplate struct {
	ID            uint64 `gorm:"primarykey" json:"id"`
	CrewID        uint64 `gorm:"not null;index" json:"crew_id"`
	Title         string `gorm:"type:varchar(100);not null" json:"title"`
	Category      string `gorm:"type:varchar(50);not null" json:"category"`
	DefaultPoints int    `gorm:"not null" json:"default_points"`
	Emoji         string `gorm:"type:varchar(8);not null" json:"emoji"`
	IsActive      bool   `gorm:"not null;default:true" json:"is_active"`
}

type SelfCareRoutine struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	CrewID        uint64    `gorm:"not null;index" json:"crew_id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	MilestoneType string    `gorm:"type:varchar(50);not null" json:"milestone_type"`
	PointValue    int       `gorm:"not null" json:"point_value"`
	Emoji         string    `gorm:"type:varchar(8);not null" json:"emoji"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
