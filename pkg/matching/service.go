// Package matching keeps posts, teams, memberships, match requests and comments
// consistent with each other. Every exported operation runs as a single database
// transaction; operations touching a team's membership are serialized per team and
// writes to a post's comment tree are serialized per post.
package matching

import (
	"github.com/apex/log"
	"github.com/teamup-uiuc/teamup/pkg/clog"
	"github.com/teamup-uiuc/teamup/pkg/lock"
	"github.com/teamup-uiuc/teamup/pkg/notify"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
	"gorm.io/gorm"
)

const LogCtx = "matching"

type Options struct {
	// ReopenOnLeave returns a full team to open when a member leaving drops it
	// below its target size.
	ReopenOnLeave bool

	// Notifier receives events after their transaction commits. Defaults to a no-op.
	Notifier notify.Notifier
}

type Service struct {
	Teams    *TeamRegistry
	Posts    *PostRegistry
	Requests *MatchRequests
	Comments *CommentTree
	Deletion *DeletionOrchestrator
}

func NewService(db *gorm.DB, opts Options) *Service {
	if opts.Notifier == nil {
		opts.Notifier = notify.NopNotifier{}
	}

	c := &core{
		db:            db,
		teamLocks:     lock.NewIdLocker(),
		postLocks:     lock.NewIdLocker(),
		notifier:      opts.Notifier,
		reopenOnLeave: opts.ReopenOnLeave,
	}

	teams := &TeamRegistry{core: c}

	return &Service{
		Teams:    teams,
		Posts:    &PostRegistry{core: c, teams: teams},
		Requests: &MatchRequests{core: c, teams: teams},
		Comments: &CommentTree{core: c},
		Deletion: &DeletionOrchestrator{core: c},
	}
}

// core is the state shared by the registries.
type core struct {
	db            *gorm.DB
	teamLocks     *lock.IdLocker
	postLocks     *lock.IdLocker
	notifier      notify.Notifier
	reopenOnLeave bool
}

func (c *core) inTx(fn func(stors *stor.Stors) error) error {
	return stor.WithStorsTx(c.db, fn)
}

// reader returns stors bound to the base connection, for reads outside a transaction.
func (c *core) reader() *stor.Stors {
	return stor.NewGormStors(c.db)
}

// withTeamTx runs fn in a transaction while holding the lock for teamID. The lock is
// taken before the transaction starts so a waiting goroutine never holds a connection.
func (c *core) withTeamTx(teamID int, fn func(stors *stor.Stors) error) error {
	return c.teamLocks.WithLock(teamID, func() error {
		return c.inTx(fn)
	})
}

func (c *core) withPostTx(postID int, fn func(stors *stor.Stors) error) error {
	return c.postLocks.WithLock(postID, func() error {
		return c.inTx(fn)
	})
}

func (c *core) publish(events []notify.Event) {
	for _, event := range events {
		c.notifier.Notify(event)
	}
}

func logger() *log.Entry {
	return clog.UsingCtx(LogCtx)
}

// lookupErr turns a failed single-row lookup into NotFound or Internal.
func lookupErr(err error, what string, id interface{}) error {
	if stor.IsNotFound(err) {
		return tmerr.NotFound("%s %v not found", what, id)
	}

	return tmerr.Internal(err, "loading %s %v", what, id)
}
