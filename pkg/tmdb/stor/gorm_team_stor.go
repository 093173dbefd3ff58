package stor

import (
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormTeamStor struct {
	db *gorm.DB
}

func NewGormTeamStor(db *gorm.DB) *GormTeamStor {
	return &GormTeamStor{db: db}
}

// CreateTeam inserts team and its owner membership. The caller is expected to run
// this inside a transaction together with the post that advertises the team.
func (s *GormTeamStor) CreateTeam(team *tmmodel.Team, ownerID int) (*tmmodel.Team, error) {
	var err error

	if team.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if err := s.db.Omit(clause.Associations).Create(team).Error; err != nil {
		return nil, translateDuplicate(err)
	}

	owner := tmmodel.TeamMember{
		TeamID:   team.ID,
		UserID:   ownerID,
		Role:     tmmodel.MemberRoleOwner,
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(&owner).Error; err != nil {
		return nil, translateDuplicate(err)
	}

	team.Members = []tmmodel.TeamMember{owner}
	return team, nil
}

func (s *GormTeamStor) GetTeamByID(teamID int) (*tmmodel.Team, error) {
	var team tmmodel.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return nil, err
	}

	return &team, nil
}

// GetTeamByIDForUpdate reads the team row with SELECT ... FOR UPDATE so concurrent
// transactions changing membership of the same team queue up behind each other.
// SQLite has no row locks; there the single writer connection gives the same effect.
func (s *GormTeamStor) GetTeamByIDForUpdate(teamID int) (*tmmodel.Team, error) {
	var team tmmodel.Team
	q := s.db
	if s.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if err := q.First(&team, teamID).Error; err != nil {
		return nil, err
	}

	return &team, nil
}

func (s *GormTeamStor) GetTeamWithMembers(teamID int) (*tmmodel.Team, error) {
	var team tmmodel.Team
	err := s.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at, user_id")
	}).Preload("Members.User").Preload("Post").First(&team, teamID).Error
	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (s *GormTeamStor) ListTeamsForUser(userID int) ([]tmmodel.Team, error) {
	var teams []tmmodel.Team
	err := s.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at, user_id")
	}).Preload("Members.User").
		Where("id IN (?)", s.db.Model(&tmmodel.TeamMember{}).Select("team_id").Where("user_id = ?", userID)).
		Order("created_at DESC, id DESC").
		Find(&teams).Error
	return teams, err
}

func (s *GormTeamStor) TeamNameExists(teamName string) (bool, error) {
	var count int64
	err := s.db.Model(&tmmodel.Team{}).Where("team_name = ?", teamName).Count(&count).Error
	return count > 0, err
}

func (s *GormTeamStor) SetTeamStatus(teamID int, status tmmodel.TeamStatus) error {
	return s.db.Model(&tmmodel.Team{ID: teamID}).Update("status", status).Error
}

func (s *GormTeamStor) DeleteTeam(teamID int) error {
	return s.db.Delete(&tmmodel.Team{}, teamID).Error
}

func (s *GormTeamStor) GetMember(teamID, userID int) (*tmmodel.TeamMember, error) {
	var member tmmodel.TeamMember
	err := s.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (s *GormTeamStor) IsMember(teamID, userID int) (bool, error) {
	var count int64
	err := s.db.Model(&tmmodel.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormTeamStor) CountMembers(teamID int) (int, error) {
	var count int64
	err := s.db.Model(&tmmodel.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error
	return int(count), err
}

// UpsertMember adds userID to the team, or updates the role of an existing member.
// It reports whether a new membership row was created.
func (s *GormTeamStor) UpsertMember(teamID, userID int, role tmmodel.MemberRole) (bool, error) {
	exists, err := s.IsMember(teamID, userID)
	if err != nil {
		return false, err
	}

	member := tmmodel.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(&member).Error
	if err != nil {
		return false, err
	}

	return !exists, nil
}

func (s *GormTeamStor) DeleteMember(teamID, userID int) error {
	return s.db.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&tmmodel.TeamMember{}).Error
}

func (s *GormTeamStor) DeleteAllMembers(teamID int) error {
	return s.db.Where("team_id = ?", teamID).Delete(&tmmodel.TeamMember{}).Error
}
