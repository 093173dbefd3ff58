package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamup-uiuc/teamup/pkg/notify"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

func TestDeletePostOfSoloTeamDeletesTeam(t *testing.T) {
	tc := newTestCase(t)

	post, err := tc.svc.Posts.CreatePost(NewPost{
		UserID: tc.f.Alice.ID, CourseID: tc.f.Course.ID, TeamName: "Short Lived", TargetSize: 3,
		Title: "Anyone?", Content: "Looking for a partner", Skills: []string{"Go", "React"},
	})
	require.NoError(t, err)

	pending, err := tc.svc.Requests.Create(post.ID, tc.f.Carol.ID, "")
	require.NoError(t, err)
	rejected, err := tc.svc.Requests.Create(post.ID, tc.f.Dave.ID, "")
	require.NoError(t, err)
	_, err = tc.svc.Requests.Reject(rejected.ID, tc.f.Alice.ID, "")
	require.NoError(t, err)

	comment, err := tc.svc.Comments.Create(post.ID, tc.f.Bob.ID, "Interested", nil)
	require.NoError(t, err)

	result, err := tc.svc.Deletion.DeletePost(post.ID, tc.f.Alice.ID)
	require.NoError(t, err)
	assert.True(t, result.TeamDeleted)
	assert.Equal(t, post.TeamID, result.TeamID)
	assert.Equal(t, 1, result.Withdrawn)

	assert.Equal(t, 0, tc.countRows(t, &tmmodel.Post{}, "id = ?", post.ID))
	assert.Equal(t, 0, tc.countRows(t, &tmmodel.Team{}, "id = ?", post.TeamID))
	assert.Equal(t, 0, tc.countRows(t, &tmmodel.TeamMember{}, "team_id = ?", post.TeamID))
	assert.Equal(t, 0, tc.countRows(t, "post_skills", "post_id = ?", post.ID))

	assert.Equal(t, tmmodel.MatchRequestWithdrawn, tc.request(t, pending.ID).Status)
	assert.Equal(t, tmmodel.MatchRequestRejected, tc.request(t, rejected.ID).Status)

	stored := tc.comment(t, comment.ID)
	assert.True(t, stored.IsDeleted())
	assert.Equal(t, "Interested", stored.Content)

	withdrawn := tc.notifier.ofType(notify.EventRequestWithdrawn)
	require.Len(t, withdrawn, 1)
	assert.Equal(t, tc.f.Carol.ID, withdrawn[0].UserID)

	// The team name is free again.
	tc.createPost(t, tc.f.Bob, "Short Lived", 2)
}

func TestDeletePostKeepsTeamWithOtherMembers(t *testing.T) {
	tc := newTestCase(t)
	post := tc.createPost(t, tc.f.Alice, "Survivors", 3)

	bobs, err := tc.svc.Requests.Create(post.ID, tc.f.Bob.ID, "")
	require.NoError(t, err)
	_, err = tc.svc.Requests.Accept(bobs.ID, tc.f.Alice.ID)
	require.NoError(t, err)

	carols, err := tc.svc.Requests.Create(post.ID, tc.f.Carol.ID, "")
	require.NoError(t, err)

	result, err := tc.svc.Deletion.DeletePost(post.ID, tc.f.Alice.ID)
	require.NoError(t, err)
	assert.False(t, result.TeamDeleted)
	assert.Equal(t, 1, result.Withdrawn)

	assert.Equal(t, 0, tc.countRows(t, &tmmodel.Post{}, "id = ?", post.ID))
	team := tc.team(t, post.TeamID)
	assert.Len(t, team.Members, 2)

	assert.Equal(t, tmmodel.MatchRequestWithdrawn, tc.request(t, carols.ID).Status)
	assert.Equal(t, tmmodel.MatchRequestAccepted, tc.request(t, bobs.ID).Status)

	// Requests to a deleted post no longer show up for its author.
	received, err := tc.svc.Requests.ListReceived(tc.f.Alice.ID, "")
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestDeletePostFailures(t *testing.T) {
	tc := newTestCase(t)
	post := tc.createPost(t, tc.f.Alice, "Guarded", 3)
	_, err := tc.svc.Comments.Create(post.ID, tc.f.Bob.ID, "still here", nil)
	require.NoError(t, err)

	_, err = tc.svc.Deletion.DeletePost(post.ID, tc.f.Bob.ID)
	requireKind(t, err, tmerr.KindUnauthorized)

	_, err = tc.svc.Deletion.DeletePost(9999, tc.f.Alice.ID)
	requireKind(t, err, tmerr.KindNotFound)

	// Nothing changed.
	assert.Equal(t, 1, tc.countRows(t, &tmmodel.Post{}, "id = ?", post.ID))
	comments, err := tc.svc.Comments.ListForPost(post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	_, err = tc.svc.Deletion.DeletePost(post.ID, tc.f.Alice.ID)
	require.NoError(t, err)

	_, err = tc.svc.Deletion.DeletePost(post.ID, tc.f.Alice.ID)
	requireKind(t, err, tmerr.KindNotFound)

	_, err = tc.svc.Comments.Create(post.ID, tc.f.Bob.ID, "hello?", nil)
	requireKind(t, err, tmerr.KindNotFound)

	_, err = tc.svc.Requests.Create(post.ID, tc.f.Bob.ID, "")
	requireKind(t, err, tmerr.KindNotFound)
}
