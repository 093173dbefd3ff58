package tmmodel

import "time"

type CommentStatus string

const (
	CommentVisible CommentStatus = "visible"
	CommentDeleted CommentStatus = "deleted"
)

// Comment is a node in a post's discussion tree. A NULL status is treated as
// visible.
type Comment struct {
	ID              int            `json:"id"`
	PostID          int            `json:"post_id" gorm:"index"`
	UserID          int            `json:"user_id" gorm:"index"`
	User            *User          `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	ParentCommentID *int           `json:"parent_comment_id" gorm:"index"`
	Content         string         `json:"content" gorm:"type:text"`
	Status          *CommentStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (c Comment) IsDeleted() bool {
	return c.Status != nil && *c.Status == CommentDeleted
}

func StatusPtr(s CommentStatus) *CommentStatus {
	return &s
}
