package matching

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamup-uiuc/teamup/pkg/notify"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
	"github.com/teamup-uiuc/teamup/pkg/tutil"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) ofType(eventType notify.EventType) []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	var matched []notify.Event
	for _, e := range n.events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}

	return matched
}

type testCase struct {
	svc      *Service
	db       *gorm.DB
	f        *tutil.Fixtures
	notifier *recordingNotifier
}

func newTestCase(t *testing.T) *testCase {
	return newTestCaseWithOptions(t, Options{ReopenOnLeave: true})
}

func newTestCaseWithOptions(t *testing.T, opts Options) *testCase {
	db := tutil.NewTestDB(t)
	notifier := &recordingNotifier{}
	opts.Notifier = notifier

	return &testCase{
		svc:      NewService(db, opts),
		db:       db,
		f:        tutil.SeedFixtures(t, db),
		notifier: notifier,
	}
}

func (tc *testCase) createPost(t *testing.T, owner tmmodel.User, teamName string, targetSize int) *tmmodel.Post {
	post, err := tc.svc.Posts.CreatePost(NewPost{
		UserID:     owner.ID,
		CourseID:   tc.f.Course.ID,
		TeamName:   teamName,
		TargetSize: targetSize,
		Title:      "Looking for teammates",
		Content:    "Final project, weekly meetings",
	})
	require.NoError(t, err)
	return post
}

func (tc *testCase) team(t *testing.T, teamID int) *tmmodel.Team {
	team, err := tc.svc.Teams.GetTeam(teamID)
	require.NoError(t, err)
	return team
}

func (tc *testCase) request(t *testing.T, requestID int) *tmmodel.MatchRequest {
	var request tmmodel.MatchRequest
	require.NoError(t, tc.db.First(&request, requestID).Error)
	return &request
}

func (tc *testCase) countRows(t *testing.T, model interface{}, query string, args ...interface{}) int {
	q := tc.db.Model(model)
	if table, ok := model.(string); ok {
		q = tc.db.Table(table)
	}

	var count int64
	require.NoError(t, q.Where(query, args...).Count(&count).Error)
	return int(count)
}

// requireKind fails the test unless err carries the given kind.
func requireKind(t *testing.T, err error, kind tmerr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, tmerr.KindOf(err), "error: %s", err)
}

func strPtr(s string) *string {
	return &s
}
