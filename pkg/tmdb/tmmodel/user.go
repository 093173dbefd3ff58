package tmmodel

import "time"

type User struct {
	ID          int       `json:"id"`
	UUID        string    `json:"uuid" gorm:"size:36"`
	NetID       string    `json:"netid" gorm:"column:netid;size:32;index"`
	Email       string    `json:"email" gorm:"size:255"`
	DisplayName string    `json:"display_name" gorm:"size:128"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Major       string    `json:"major,omitempty" gorm:"size:128"`
	Grade       string    `json:"grade,omitempty" gorm:"size:32"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
