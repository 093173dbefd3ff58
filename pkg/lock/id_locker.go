package lock

import (
	"sync"

	"github.com/apex/log"
)

// IdLocker hands out one mutex per integer id. Entries are reference counted and
// dropped once no goroutine holds or waits on them, so the map only grows with the
// number of ids currently in contention.
type IdLocker struct {
	mapMutex sync.Mutex
	idMap    map[int]*idEntry
}

type idEntry struct {
	mu   sync.Mutex
	refs int
}

func NewIdLocker() *IdLocker {
	return &IdLocker{
		idMap: make(map[int]*idEntry),
	}
}

func (l *IdLocker) AcquireLock(id int) {
	l.mapMutex.Lock()
	entry, ok := l.idMap[id]
	if !ok {
		entry = &idEntry{}
		l.idMap[id] = entry
	}
	entry.refs++
	l.mapMutex.Unlock()

	// Block outside mapMutex so other ids are not held up.
	entry.mu.Lock()
}

func (l *IdLocker) ReleaseLock(id int) {
	l.mapMutex.Lock()
	defer l.mapMutex.Unlock()

	entry, ok := l.idMap[id]
	if !ok {
		log.Errorf("ReleaseLock called on id (%d) with no mutex", id)
		return
	}

	entry.refs--
	if entry.refs == 0 {
		delete(l.idMap, id)
	}
	entry.mu.Unlock()
}

func (l *IdLocker) WithLock(id int, f func() error) error {
	l.AcquireLock(id)
	defer l.ReleaseLock(id)
	return f()
}

// tracked reports how many ids currently have an entry.
func (l *IdLocker) tracked() int {
	l.mapMutex.Lock()
	defer l.mapMutex.Unlock()
	return len(l.idMap)
}
