package tmmodel

import "time"

type Post struct {
	ID        int       `json:"id"`
	UUID      string    `json:"uuid" gorm:"size:36"`
	UserID    int       `json:"user_id" gorm:"index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	TeamID    int       `json:"team_id" gorm:"uniqueIndex"`
	Team      *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID;references:ID"`
	Title     string    `json:"title" gorm:"size:128"`
	Content   string    `json:"content" gorm:"type:text"`
	Skills    []Skill   `json:"skills,omitempty" gorm:"many2many:post_skills;"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
