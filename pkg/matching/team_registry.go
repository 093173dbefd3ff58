package matching

import (
	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/teamup-uiuc/teamup/pkg/notify"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

// TeamRegistry owns teams and their membership.
type TeamRegistry struct {
	*core
}

type NewTeam struct {
	CourseID   string
	SectionID  *string
	TeamName   string
	TargetSize int
	OwnerID    int
}

// CreateTeam creates a team with its owner as the only member. Team names are unique
// across all courses.
func (r *TeamRegistry) CreateTeam(nt NewTeam) (*tmmodel.Team, error) {
	var team *tmmodel.Team
	err := r.inTx(func(stors *stor.Stors) error {
		if err := checkPlacement(stors, nt.OwnerID, nt.CourseID, nt.SectionID); err != nil {
			return err
		}

		var err error
		team, err = r.createTeam(stors, nt)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger().WithFields(log.Fields{"team_id": team.ID, "owner_id": nt.OwnerID}).Info("team created")
	return team, nil
}

func (r *TeamRegistry) createTeam(stors *stor.Stors, nt NewTeam) (*tmmodel.Team, error) {
	name, err := requireText("team name", nt.TeamName, MaxTeamNameLen)
	if err != nil {
		return nil, err
	}

	if err := validateTargetSize(nt.TargetSize); err != nil {
		return nil, err
	}

	exists, err := stors.TeamStor.TeamNameExists(name)
	switch {
	case err != nil:
		return nil, tmerr.Internal(err, "checking team name")
	case exists:
		return nil, tmerr.Conflict("team name %q already exists, please choose a different name", name)
	}

	team := &tmmodel.Team{
		CourseID:   nt.CourseID,
		SectionID:  nt.SectionID,
		TeamName:   name,
		TargetSize: nt.TargetSize,
		Status:     tmmodel.TeamStatusOpen,
	}

	// The owner alone fills a team of one.
	team.Status = team.StatusForSize(1)

	team, err = stors.TeamStor.CreateTeam(team, nt.OwnerID)
	switch {
	case errors.Is(err, stor.ErrDuplicateKey):
		return nil, tmerr.Conflict("team name %q already exists, please choose a different name", name)
	case err != nil:
		return nil, tmerr.Internal(err, "creating team")
	}

	return team, nil
}

// checkPlacement verifies the owner, the course and, when given, that the section
// belongs to the course.
func checkPlacement(stors *stor.Stors, ownerID int, courseID string, sectionID *string) error {
	if _, err := stors.UserStor.GetUserByID(ownerID); err != nil {
		return lookupErr(err, "user", ownerID)
	}

	if _, err := stors.ReferenceStor.GetCourseByID(courseID); err != nil {
		return lookupErr(err, "course", courseID)
	}

	if sectionID != nil {
		if _, err := stors.ReferenceStor.GetSectionForCourse(courseID, *sectionID); err != nil {
			if stor.IsNotFound(err) {
				return tmerr.NotFound("section %s not found for course %s", *sectionID, courseID)
			}
			return tmerr.Internal(err, "loading section %s", *sectionID)
		}
	}

	return nil
}

// AddMember adds userID to the team or updates the role of an existing member. A new
// member is refused once the team has reached its target size.
func (r *TeamRegistry) AddMember(teamID, userID int, role tmmodel.MemberRole) error {
	return r.withTeamTx(teamID, func(stors *stor.Stors) error {
		team, err := stors.TeamStor.GetTeamByIDForUpdate(teamID)
		if err != nil {
			return lookupErr(err, "team", teamID)
		}

		if _, err := stors.UserStor.GetUserByID(userID); err != nil {
			return lookupErr(err, "user", userID)
		}

		_, err = r.addMember(stors, team, userID, role)
		return err
	})
}

// addMember must run under the team lock with team read inside the same transaction.
// It reports whether a membership row was created and updates team.Status in place.
func (r *TeamRegistry) addMember(stors *stor.Stors, team *tmmodel.Team, userID int, role tmmodel.MemberRole) (bool, error) {
	isMember, err := stors.TeamStor.IsMember(team.ID, userID)
	if err != nil {
		return false, tmerr.Internal(err, "checking membership of team %d", team.ID)
	}

	if !isMember {
		count, err := stors.TeamStor.CountMembers(team.ID)
		if err != nil {
			return false, tmerr.Internal(err, "counting members of team %d", team.ID)
		}

		if count >= team.TargetSize {
			return false, tmerr.Validation("team %q is full (%d of %d members)", team.TeamName, count, team.TargetSize)
		}
	}

	created, err := stors.TeamStor.UpsertMember(team.ID, userID, role)
	if err != nil {
		return false, tmerr.Internal(err, "adding user %d to team %d", userID, team.ID)
	}

	count, err := stors.TeamStor.CountMembers(team.ID)
	if err != nil {
		return false, tmerr.Internal(err, "counting members of team %d", team.ID)
	}

	if status := team.StatusForSize(count); status != team.Status {
		if err := stors.TeamStor.SetTeamStatus(team.ID, status); err != nil {
			return false, tmerr.Internal(err, "updating status of team %d", team.ID)
		}
		team.Status = status
	}

	return created, nil
}

func (r *TeamRegistry) CurrentSize(teamID int) (int, error) {
	stors := r.reader()
	if _, err := stors.TeamStor.GetTeamByID(teamID); err != nil {
		return 0, lookupErr(err, "team", teamID)
	}

	count, err := stors.TeamStor.CountMembers(teamID)
	if err != nil {
		return 0, tmerr.Internal(err, "counting members of team %d", teamID)
	}

	return count, nil
}

// RemoveAllMembers and DeleteTeam are the building blocks of post deletion. They are
// exported for maintenance tooling; normal callers go through DeletionOrchestrator.

func (r *TeamRegistry) RemoveAllMembers(teamID int) error {
	return r.withTeamTx(teamID, func(stors *stor.Stors) error {
		return removeAllMembers(stors, teamID)
	})
}

func (r *TeamRegistry) DeleteTeam(teamID int) error {
	return r.withTeamTx(teamID, func(stors *stor.Stors) error {
		return deleteTeam(stors, teamID)
	})
}

func removeAllMembers(stors *stor.Stors, teamID int) error {
	return tmerr.Internal(stors.TeamStor.DeleteAllMembers(teamID), "removing members of team %d", teamID)
}

func deleteTeam(stors *stor.Stors, teamID int) error {
	if err := removeAllMembers(stors, teamID); err != nil {
		return err
	}

	return tmerr.Internal(stors.TeamStor.DeleteTeam(teamID), "deleting team %d", teamID)
}

// RemoveMember takes userID off the team. Members may remove themselves and the owner
// may remove anyone except themselves; the owner leaves by deleting the post.
func (r *TeamRegistry) RemoveMember(teamID, userID, actingUserID int) error {
	err := r.withTeamTx(teamID, func(stors *stor.Stors) error {
		team, err := stors.TeamStor.GetTeamByIDForUpdate(teamID)
		if err != nil {
			return lookupErr(err, "team", teamID)
		}

		member, err := stors.TeamStor.GetMember(teamID, userID)
		if err != nil {
			if stor.IsNotFound(err) {
				return tmerr.NotFound("user %d is not a member of team %d", userID, teamID)
			}
			return tmerr.Internal(err, "loading membership")
		}

		if actingUserID != userID {
			actor, err := stors.TeamStor.GetMember(teamID, actingUserID)
			switch {
			case stor.IsNotFound(err) || (err == nil && !actor.IsOwner()):
				return tmerr.Unauthorized("only the team owner can remove other members")
			case err != nil:
				return tmerr.Internal(err, "loading membership")
			}
		}

		if member.IsOwner() {
			return tmerr.InvalidState("the team owner cannot leave the team; delete the post instead")
		}

		if err := stors.TeamStor.DeleteMember(teamID, userID); err != nil {
			return tmerr.Internal(err, "removing user %d from team %d", userID, teamID)
		}

		count, err := stors.TeamStor.CountMembers(teamID)
		if err != nil {
			return tmerr.Internal(err, "counting members of team %d", teamID)
		}

		if r.reopenOnLeave && team.IsFull() && count < team.TargetSize {
			if err := stors.TeamStor.SetTeamStatus(teamID, tmmodel.TeamStatusOpen); err != nil {
				return tmerr.Internal(err, "reopening team %d", teamID)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger().WithFields(log.Fields{"team_id": teamID, "user_id": userID, "by": actingUserID}).Info("member removed")
	if actingUserID != userID {
		r.publish([]notify.Event{{Type: notify.EventMemberRemoved, UserID: userID, TeamID: teamID}})
	}

	return nil
}

// GetTeam returns the team with members ordered by join time.
func (r *TeamRegistry) GetTeam(teamID int) (*tmmodel.Team, error) {
	team, err := r.reader().TeamStor.GetTeamWithMembers(teamID)
	if err != nil {
		return nil, lookupErr(err, "team", teamID)
	}

	return team, nil
}

func (r *TeamRegistry) TeamsForUser(userID int) ([]tmmodel.Team, error) {
	stors := r.reader()
	if _, err := stors.UserStor.GetUserByID(userID); err != nil {
		return nil, lookupErr(err, "user", userID)
	}

	teams, err := stors.TeamStor.ListTeamsForUser(userID)
	if err != nil {
		return nil, tmerr.Internal(err, "listing teams for user %d", userID)
	}

	return teams, nil
}
