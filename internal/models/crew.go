package models

import (
	"time"

	"gorm.io/gorm"
)

// CrewSettings is stored as a JSON column. Shape is fixed; validate at the
// write boundary, never read it back as an untyped map.
type CrewSettings struct {
	DefaultPoints        int  `json:"defaultPoints"`
	AllowNegativeBalance bool `json:"allowNegativeBalance"`
}

type Crew struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(50);not null" json:"name"`
	CardHolderID uint64         `gorm:"not null" json:"card_holder_id"`
	PointBalance int            `gorm:"not null;default:500" json:"point_balance"`
	InviteCode   string         `gorm:"type:varchar(8);uniqueIndex;not null" json:"invite_code"`
	Settings     CrewSettings   `gorm:"serializer:json" json:"settings"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members []CrewMember `gorm:"foreignKey:CrewID" json:"members,omitempty"`
	Tasks   []Task       `gorm:"foreignKey:CrewID" json:"tasks,omitempty"`
}
