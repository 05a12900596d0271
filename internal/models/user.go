package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	DisplayName  string         `gorm:"type:varchar(50);not null" json:"display_name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	AvatarURL    *string        `gorm:"type:varchar(512)" json:"avatar_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedTasks []Task       `gorm:"foreignKey:CreatedBy" json:"-"`
	Memberships  []CrewMember `gorm:"foreignKey:UserID" json:"-"`
}
