package stor

import (
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"gorm.io/gorm"
)

type UserStor interface {
	CreateUser(user *tmmodel.User) (*tmmodel.User, error)
	GetUserByID(userID int) (*tmmodel.User, error)
	GetUserByNetID(netID string) (*tmmodel.User, error)
}

type ReferenceStor interface {
	GetCourseByID(courseID string) (*tmmodel.Course, error)
	GetSectionForCourse(courseID, crn string) (*tmmodel.Section, error)
	ListTerms() ([]tmmodel.Term, error)
	ListSectionsForCourse(courseID string) ([]tmmodel.Section, error)
	ListSkills() ([]tmmodel.Skill, error)
	GetSkillsBySlugs(slugs []string) ([]tmmodel.Skill, error)
}

type TeamStor interface {
	CreateTeam(team *tmmodel.Team, ownerID int) (*tmmodel.Team, error)
	GetTeamByID(teamID int) (*tmmodel.Team, error)
	GetTeamByIDForUpdate(teamID int) (*tmmodel.Team, error)
	GetTeamWithMembers(teamID int) (*tmmodel.Team, error)
	ListTeamsForUser(userID int) ([]tmmodel.Team, error)
	TeamNameExists(teamName string) (bool, error)
	SetTeamStatus(teamID int, status tmmodel.TeamStatus) error
	DeleteTeam(teamID int) error
	GetMember(teamID, userID int) (*tmmodel.TeamMember, error)
	IsMember(teamID, userID int) (bool, error)
	CountMembers(teamID int) (int, error)
	UpsertMember(teamID, userID int, role tmmodel.MemberRole) (bool, error)
	DeleteMember(teamID, userID int) error
	DeleteAllMembers(teamID int) error
}

type PostStor interface {
	CreatePost(post *tmmodel.Post) (*tmmodel.Post, error)
	GetPostByID(postID int) (*tmmodel.Post, error)
	GetPostWithDetails(postID int) (*tmmodel.Post, error)
	ListPostsForUser(userID, limit int) ([]tmmodel.Post, error)
	UpdatePost(postID int, updates map[string]interface{}) error
	ClearSkills(post *tmmodel.Post) error
	DeletePost(postID int) error
}

type MatchRequestStor interface {
	CreateMatchRequest(request *tmmodel.MatchRequest) (*tmmodel.MatchRequest, error)
	GetMatchRequestByID(requestID int) (*tmmodel.MatchRequest, error)
	FindBlockingMatchRequest(fromUserID, teamID, postID int) (*tmmodel.MatchRequest, error)
	TransitionMatchRequest(requestID int, from, to tmmodel.MatchRequestStatus, message *string) error
	WithdrawPendingForPost(postID int) ([]tmmodel.MatchRequest, error)
	WithdrawPendingForTeam(teamID int) ([]tmmodel.MatchRequest, error)
	ListSentMatchRequests(userID int, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error)
	ListReceivedMatchRequests(userID int, status tmmodel.MatchRequestStatus) ([]tmmodel.MatchRequest, error)
	CountMatchRequestsForPost(postID int) (int, error)
}

type CommentStor interface {
	CreateComment(comment *tmmodel.Comment) (*tmmodel.Comment, error)
	GetCommentForPost(postID, commentID int) (*tmmodel.Comment, error)
	CountChildren(commentID int) (int, error)
	UpdateCommentContent(commentID int, content string) error
	SoftDeleteComment(commentID int) error
	HardDeleteComment(commentID int) error
	SoftDeleteCommentsForPost(postID int) (int, error)
	ListVisibleCommentsForPost(postID int) ([]tmmodel.Comment, error)
}

// Stors bundles every stor bound to the same *gorm.DB. Inside a transaction build a
// fresh Stors from the tx handle so every statement joins the transaction.
type Stors struct {
	UserStor         UserStor
	ReferenceStor    ReferenceStor
	TeamStor         TeamStor
	PostStor         PostStor
	MatchRequestStor MatchRequestStor
	CommentStor      CommentStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		UserStor:         NewGormUserStor(db),
		ReferenceStor:    NewGormReferenceStor(db),
		TeamStor:         NewGormTeamStor(db),
		PostStor:         NewGormPostStor(db),
		MatchRequestStor: NewGormMatchRequestStor(db),
		CommentStor:      NewGormCommentStor(db),
	}
}
