package apimiddleware

import (
	"sync"

	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
)

// UserCache is a read-through cache in front of UserStor.GetUserByID. Users are never
// deleted by this service so entries only go stale on profile changes.
type UserCache struct {
	mu       sync.RWMutex
	users    map[int]*tmmodel.User
	userStor stor.UserStor
}

func NewUserCache(userStor stor.UserStor) *UserCache {
	return &UserCache{
		users:    make(map[int]*tmmodel.User),
		userStor: userStor,
	}
}

func (c *UserCache) GetUserByID(userID int) (*tmmodel.User, error) {
	c.mu.RLock()
	user, ok := c.users[userID]
	c.mu.RUnlock()
	if ok {
		return user, nil
	}

	user, err := c.userStor.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.users[userID] = user
	c.mu.Unlock()

	return user, nil
}

func (c *UserCache) Invalidate(userID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, userID)
}
