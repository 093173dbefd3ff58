package tmmodel

import (
	"fmt"
	"time"
)

type MatchRequestStatus string

const (
	MatchRequestPending   MatchRequestStatus = "pending"
	MatchRequestAccepted  MatchRequestStatus = "accepted"
	MatchRequestRejected  MatchRequestStatus = "rejected"
	MatchRequestWithdrawn MatchRequestStatus = "withdrawn"
)

func (s MatchRequestStatus) IsTerminal() bool {
	return s != MatchRequestPending
}

func (s MatchRequestStatus) Valid() bool {
	switch s {
	case MatchRequestPending, MatchRequestAccepted, MatchRequestRejected, MatchRequestWithdrawn:
		return true
	default:
		return false
	}
}

// MatchRequest asks to join the team behind a post. ToTeamID is fixed when the
// request is created and is kept after the post is deleted.
//
// PendingKey is set only while the request is pending; its unique index lets the
// database reject a second pending request for the same (user, team, post).
type MatchRequest struct {
	ID         int                `json:"id"`
	FromUserID int                `json:"from_user_id" gorm:"index"`
	FromUser   *User              `json:"from_user,omitempty" gorm:"foreignKey:FromUserID;references:ID"`
	ToTeamID   int                `json:"to_team_id" gorm:"index"`
	Team       *Team              `json:"team,omitempty" gorm:"foreignKey:ToTeamID;references:ID"`
	PostID     int                `json:"post_id" gorm:"index"`
	Post       *Post              `json:"post,omitempty" gorm:"foreignKey:PostID;references:ID"`
	Message    string             `json:"message" gorm:"type:text"`
	Status     MatchRequestStatus `json:"status" gorm:"size:16;index"`
	PendingKey *string            `json:"-" gorm:"size:64;uniqueIndex"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func PendingKeyFor(fromUserID, teamID, postID int) *string {
	key := fmt.Sprintf("%d:%d:%d", fromUserID, teamID, postID)
	return &key
}
