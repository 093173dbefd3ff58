package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

func TestCreatePostCreatesTeamAndOwner(t *testing.T) {
	tc := newTestCase(t)

	post, err := tc.svc.Posts.CreatePost(NewPost{
		UserID:     tc.f.Alice.ID,
		CourseID:   tc.f.Course.ID,
		SectionID:  strPtr(tc.f.Section.CRN),
		TeamName:   "Normal Forms",
		TargetSize: 3,
		Title:      "  Need two SQL people  ",
		Content:    "We are building a recipe app",
		Skills:     []string{"SQL", "go", "Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Need two SQL people", post.Title)
	assert.NotEmpty(t, post.UUID)
	require.NotNil(t, post.Team)

	detail, err := tc.svc.Posts.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.TargetTeamSize)
	assert.Equal(t, 1, detail.CurrentSize)
	assert.Equal(t, tmmodel.TeamStatusOpen, detail.TeamStatus)
	assert.Equal(t, "Normal Forms", detail.TeamName)
	assert.Equal(t, tc.f.Section.CRN, *detail.SectionID)
	assert.Equal(t, 0, detail.RequestCount)
	assert.ElementsMatch(t, []string{"Go", "SQL"}, detail.SkillNames)
	assert.Equal(t, "Alice", detail.User.DisplayName)

	owner, err := tc.svc.Teams.GetTeam(post.TeamID)
	require.NoError(t, err)
	require.Len(t, owner.Members, 1)
	assert.Equal(t, tc.f.Alice.ID, owner.Members[0].UserID)
}

func TestCreatePostValidation(t *testing.T) {
	tc := newTestCase(t)
	tc.createPost(t, tc.f.Alice, "Existing", 2)

	valid := func() NewPost {
		return NewPost{
			UserID: tc.f.Bob.ID, CourseID: tc.f.Course.ID, TeamName: "Fresh", TargetSize: 2,
			Title: "Title", Content: "Content",
		}
	}

	tests := []struct {
		name   string
		modify func(np *NewPost)
		kind   tmerr.Kind
	}{
		{"empty title", func(np *NewPost) { np.Title = " " }, tmerr.KindValidation},
		{"long title", func(np *NewPost) { np.Title = strings.Repeat("t", 129) }, tmerr.KindValidation},
		{"empty content", func(np *NewPost) { np.Content = "" }, tmerr.KindValidation},
		{"long content", func(np *NewPost) { np.Content = strings.Repeat("c", 4001) }, tmerr.KindValidation},
		{"bad size", func(np *NewPost) { np.TargetSize = 12 }, tmerr.KindValidation},
		{"unknown skill", func(np *NewPost) { np.Skills = []string{"Go", "Cobol"} }, tmerr.KindValidation},
		{"unknown user", func(np *NewPost) { np.UserID = 9999 }, tmerr.KindNotFound},
		{"unknown course", func(np *NewPost) { np.CourseID = "XX-000" }, tmerr.KindNotFound},
		{"duplicate team name", func(np *NewPost) { np.TeamName = "Existing" }, tmerr.KindConflict},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			np := valid()
			test.modify(&np)
			_, err := tc.svc.Posts.CreatePost(np)
			requireKind(t, err, test.kind)
		})
	}

	// Failed creates leave nothing behind.
	assert.Equal(t, 0, tc.countRows(t, &tmmodel.Team{}, "team_name = ?", "Fresh"))
	assert.Equal(t, 1, tc.countRows(t, &tmmodel.Post{}, "1 = 1"))
}

func TestCreatePostWithMaxLengthFields(t *testing.T) {
	tc := newTestCase(t)

	// Limits count characters, not bytes.
	_, err := tc.svc.Posts.CreatePost(NewPost{
		UserID: tc.f.Bob.ID, CourseID: tc.f.Course.ID, TeamName: strings.Repeat("é", 128), TargetSize: 10,
		Title: strings.Repeat("ü", 128), Content: strings.Repeat("c", 4000),
	})
	require.NoError(t, err)
}

func TestUpdatePost(t *testing.T) {
	tc := newTestCase(t)
	post := tc.createPost(t, tc.f.Alice, "Patchers", 3)

	updated, err := tc.svc.Posts.UpdatePost(post.ID, tc.f.Alice.ID, PostPatch{Title: strPtr("New title")})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, post.Content, updated.Content)

	updated, err = tc.svc.Posts.UpdatePost(post.ID, tc.f.Alice.ID, PostPatch{Content: strPtr("  New content ")})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "New content", updated.Content)

	_, err = tc.svc.Posts.UpdatePost(post.ID, tc.f.Bob.ID, PostPatch{Title: strPtr("Hijack")})
	requireKind(t, err, tmerr.KindUnauthorized)

	_, err = tc.svc.Posts.UpdatePost(post.ID, tc.f.Alice.ID, PostPatch{})
	requireKind(t, err, tmerr.KindValidation)

	_, err = tc.svc.Posts.UpdatePost(post.ID, tc.f.Alice.ID, PostPatch{Title: strPtr(""), Content: strPtr("fine")})
	requireKind(t, err, tmerr.KindValidation)

	_, err = tc.svc.Posts.UpdatePost(9999, tc.f.Alice.ID, PostPatch{Title: strPtr("x")})
	requireKind(t, err, tmerr.KindNotFound)
}

func TestGetPostMissing(t *testing.T) {
	tc := newTestCase(t)
	_, err := tc.svc.Posts.GetPost(42)
	requireKind(t, err, tmerr.KindNotFound)
}

func TestPostsForUser(t *testing.T) {
	tc := newTestCase(t)
	alices := tc.createPost(t, tc.f.Alice, "Alice Team", 3)
	bobs := tc.createPost(t, tc.f.Bob, "Bob Team", 3)
	_, err := tc.svc.Comments.Create(bobs.ID, tc.f.Alice.ID, "Nice idea", nil)
	require.NoError(t, err)

	posts, err := tc.svc.Posts.PostsForUser(tc.f.Alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, bobs.ID, posts[0].ID)
	assert.Equal(t, alices.ID, posts[1].ID)

	posts, err = tc.svc.Posts.PostsForUser(tc.f.Alice.ID, 1)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}
