package tmmodel

import "time"

type TeamStatus string

const (
	TeamStatusOpen TeamStatus = "open"
	TeamStatusFull TeamStatus = "full"
)

type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// Team is the aggregate root for membership. A team owns at most one Post
// (posts.team_id is unique) and is deleted together with it once it has no
// members other than the owner.
type Team struct {
	ID         int          `json:"id"`
	UUID       string       `json:"uuid" gorm:"size:36"`
	CourseID   string       `json:"course_id" gorm:"size:64;index"`
	SectionID  *string      `json:"section_id"`
	TeamName   string       `json:"team_name" gorm:"size:128;uniqueIndex"`
	TargetSize int          `json:"target_size"`
	Status     TeamStatus   `json:"status" gorm:"size:16"`
	Members    []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID"`
	Post       *Post        `json:"post,omitempty" gorm:"foreignKey:TeamID"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// StatusForSize is the status a team with memberCount members should have.
// A team never reopens here; that decision belongs to callers removing members.
func (t Team) StatusForSize(memberCount int) TeamStatus {
	if memberCount >= t.TargetSize {
		return TeamStatusFull
	}

	return t.Status
}

func (t Team) IsFull() bool {
	return t.Status == TeamStatusFull
}

type TeamMember struct {
	TeamID   int        `json:"team_id" gorm:"primaryKey;autoIncrement:false"`
	UserID   int        `json:"user_id" gorm:"primaryKey;autoIncrement:false;index"`
	User     *User      `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Role     MemberRole `json:"role" gorm:"size:16"`
	JoinedAt time.Time  `json:"joined_at"`
}

func (m TeamMember) IsOwner() bool {
	return m.Role == MemberRoleOwner
}
