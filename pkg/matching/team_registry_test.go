package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamup-uiuc/teamup/pkg/notify"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

func TestCreateTeam(t *testing.T) {
	tc := newTestCase(t)

	team, err := tc.svc.Teams.CreateTeam(NewTeam{
		CourseID:   tc.f.Course.ID,
		SectionID:  strPtr(tc.f.Section.CRN),
		TeamName:   "  Index Scanners  ",
		TargetSize: 4,
		OwnerID:    tc.f.Alice.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Index Scanners", team.TeamName)
	assert.Equal(t, tmmodel.TeamStatusOpen, team.Status)

	size, err := tc.svc.Teams.CurrentSize(team.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	loaded := tc.team(t, team.ID)
	require.Len(t, loaded.Members, 1)
	assert.Equal(t, tmmodel.MemberRoleOwner, loaded.Members[0].Role)
}

func TestCreateTeamOfOneIsFull(t *testing.T) {
	tc := newTestCase(t)

	team, err := tc.svc.Teams.CreateTeam(NewTeam{
		CourseID: tc.f.Course.ID, TeamName: "Solo", TargetSize: 1, OwnerID: tc.f.Alice.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, tmmodel.TeamStatusFull, tc.team(t, team.ID).Status)
}

func TestCreateTeamFailures(t *testing.T) {
	tc := newTestCase(t)
	_, err := tc.svc.Teams.CreateTeam(NewTeam{
		CourseID: tc.f.Course.ID, TeamName: "Taken", TargetSize: 3, OwnerID: tc.f.Alice.ID,
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		nt   NewTeam
		kind tmerr.Kind
	}{
		{"name taken in another course", NewTeam{CourseID: tc.f.OtherCourse.ID, TeamName: "Taken", TargetSize: 3, OwnerID: tc.f.Bob.ID}, tmerr.KindConflict},
		{"target size zero", NewTeam{CourseID: tc.f.Course.ID, TeamName: "A", TargetSize: 0, OwnerID: tc.f.Bob.ID}, tmerr.KindValidation},
		{"target size eleven", NewTeam{CourseID: tc.f.Course.ID, TeamName: "B", TargetSize: 11, OwnerID: tc.f.Bob.ID}, tmerr.KindValidation},
		{"blank name", NewTeam{CourseID: tc.f.Course.ID, TeamName: "   ", TargetSize: 3, OwnerID: tc.f.Bob.ID}, tmerr.KindValidation},
		{"name too long", NewTeam{CourseID: tc.f.Course.ID, TeamName: strings.Repeat("x", 129), TargetSize: 3, OwnerID: tc.f.Bob.ID}, tmerr.KindValidation},
		{"unknown owner", NewTeam{CourseID: tc.f.Course.ID, TeamName: "C", TargetSize: 3, OwnerID: 9999}, tmerr.KindNotFound},
		{"unknown course", NewTeam{CourseID: "NOPE-101", TeamName: "D", TargetSize: 3, OwnerID: tc.f.Bob.ID}, tmerr.KindNotFound},
		{"section of another course", NewTeam{CourseID: tc.f.Course.ID, SectionID: strPtr(tc.f.OtherSection.CRN), TeamName: "E", TargetSize: 3, OwnerID: tc.f.Bob.ID}, tmerr.KindNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := tc.svc.Teams.CreateTeam(test.nt)
			requireKind(t, err, test.kind)
		})
	}
}

func TestAddMemberIsIdempotentAndFillsTeam(t *testing.T) {
	tc := newTestCase(t)
	post := tc.createPost(t, tc.f.Alice, "Joiners", 3)

	require.NoError(t, tc.svc.Teams.AddMember(post.TeamID, tc.f.Bob.ID, tmmodel.MemberRoleMember))
	require.NoError(t, tc.svc.Teams.AddMember(post.TeamID, tc.f.Bob.ID, tmmodel.MemberRoleMember))

	size, err := tc.svc.Teams.CurrentSize(post.TeamID)
	require.NoError(t, err)
	assert.Equal(t, 2, size)
	assert.Equal(t, tmmodel.TeamStatusOpen, tc.team(t, post.TeamID).Status)

	require.NoError(t, tc.svc.Teams.AddMember(post.TeamID, tc.f.Carol.ID, tmmodel.MemberRoleMember))
	assert.Equal(t, tmmodel.TeamStatusFull, tc.team(t, post.TeamID).Status)

	err = tc.svc.Teams.AddMember(post.TeamID, tc.f.Dave.ID, tmmodel.MemberRoleMember)
	requireKind(t, err, tmerr.KindValidation)

	// Updating the role of an existing member is still allowed on a full team.
	require.NoError(t, tc.svc.Teams.AddMember(post.TeamID, tc.f.Carol.ID, tmmodel.MemberRoleMember))

	size, err = tc.svc.Teams.CurrentSize(post.TeamID)
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	requireKind(t, tc.svc.Teams.AddMember(9999, tc.f.Dave.ID, tmmodel.MemberRoleMember), tmerr.KindNotFound)
	_, err = tc.svc.Teams.CurrentSize(9999)
	requireKind(t, err, tmerr.KindNotFound)
}

func TestRemoveMemberReopensTeam(t *testing.T) {
	tc := newTestCase(t)
	post := tc.createPost(t, tc.f.Alice, "Leavers", 2)
	require.NoError(t, tc.svc.Teams.AddMember(post.TeamID, tc.f.Bob.ID, tmmodel.MemberRoleMember))
	require.Equal(t, tmmodel.TeamStatusFull, tc.team(t, post.TeamID).Status)

	require.NoError(t, tc.svc.Teams.RemoveMember(post.TeamID, tc.f.Bob.ID, tc.f.Bob.ID))

	team := tc.team(t, post.TeamID)
	assert.Len(t, team.Members, 1)
	assert.Equal(t, tmmodel.TeamStatusOpen, team.Status)
	assert.Empty(t, tc.notifier.ofType(notify.EventMemberRemoved), "leaving on your own is not announced")
}

func TestRemoveMemberWithoutReopen(t *testing.T) {
	tc := newTestCaseWithOptions(t, Options{ReopenOnLeave: false})
	post := tc.createPost(t, tc.f.Alice, "Stays Full", 2)
	require.NoError(t, tc.svc.Teams.AddMember(post.TeamID, tc.f.Bob.ID, tmmodel.MemberRoleMember))

	require.NoError(t, tc.svc.Teams.RemoveMember(post.TeamID, tc.f.Bob.ID, tc.f.Alice.ID))

	team := tc.team(t, post.TeamID)
	assert.Len(t, team.Members, 1)
	assert.Equal(t, tmmodel.TeamStatusFull, team.Status)

	removed := tc.notifier.ofType(notify.EventMemberRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, tc.f.Bob.ID, removed[0].UserID)
}

func TestRemoveMemberRules(t *testing.T) {
	tc := newTestCase(t)
	post := tc.createPost(t, tc.f.Alice, "Rules", 4)
	require.NoError(t, tc.svc.Teams.AddMember(post.TeamID, tc.f.Bob.ID, tmmodel.MemberRoleMember))
	require.NoError(t, tc.svc.Teams.AddMember(post.TeamID, tc.f.Carol.ID, tmmodel.MemberRoleMember))

	requireKind(t, tc.svc.Teams.RemoveMember(post.TeamID, tc.f.Carol.ID, tc.f.Bob.ID), tmerr.KindUnauthorized)
	requireKind(t, tc.svc.Teams.RemoveMember(post.TeamID, tc.f.Alice.ID, tc.f.Alice.ID), tmerr.KindInvalidState)
	requireKind(t, tc.svc.Teams.RemoveMember(post.TeamID, tc.f.Dave.ID, tc.f.Alice.ID), tmerr.KindNotFound)
	requireKind(t, tc.svc.Teams.RemoveMember(9999, tc.f.Bob.ID, tc.f.Bob.ID), tmerr.KindNotFound)

	assert.Len(t, tc.team(t, post.TeamID).Members, 3)
}

func TestTeamsForUser(t *testing.T) {
	tc := newTestCase(t)
	first := tc.createPost(t, tc.f.Alice, "First", 3)
	second := tc.createPost(t, tc.f.Bob, "Second", 3)
	require.NoError(t, tc.svc.Teams.AddMember(second.TeamID, tc.f.Alice.ID, tmmodel.MemberRoleMember))

	teams, err := tc.svc.Teams.TeamsForUser(tc.f.Alice.ID)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	ids := []int{teams[0].ID, teams[1].ID}
	assert.ElementsMatch(t, []int{first.TeamID, second.TeamID}, ids)

	_, err = tc.svc.Teams.TeamsForUser(9999)
	requireKind(t, err, tmerr.KindNotFound)
}

func TestRemoveAllMembersAndDeleteTeam(t *testing.T) {
	tc := newTestCase(t)
	team, err := tc.svc.Teams.CreateTeam(NewTeam{
		CourseID: tc.f.Course.ID, TeamName: "Orphan", TargetSize: 3, OwnerID: tc.f.Alice.ID,
	})
	require.NoError(t, err)
	require.NoError(t, tc.svc.Teams.AddMember(team.ID, tc.f.Bob.ID, tmmodel.MemberRoleMember))

	require.NoError(t, tc.svc.Teams.RemoveAllMembers(team.ID))
	size, err := tc.svc.Teams.CurrentSize(team.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	require.NoError(t, tc.svc.Teams.DeleteTeam(team.ID))
	_, err = tc.svc.Teams.GetTeam(team.ID)
	requireKind(t, err, tmerr.KindNotFound)
}
