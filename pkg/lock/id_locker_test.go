package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLockSerializesSameId(t *testing.T) {
	l := NewIdLocker()
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.WithLock(1, func() error {
				v := counter
				time.Sleep(time.Microsecond)
				counter = v + 1
				return nil
			})
		}()
	}

	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.tracked(), "entries are dropped once released")
}

func TestDifferentIdsDoNotBlock(t *testing.T) {
	l := NewIdLocker()
	l.AcquireLock(1)
	defer l.ReleaseLock(1)

	done := make(chan struct{})
	go func() {
		l.AcquireLock(2)
		l.ReleaseLock(2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "lock on id 2 blocked behind id 1")
	}
}

func TestWithLockReturnsError(t *testing.T) {
	l := NewIdLocker()
	err := l.WithLock(3, func() error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, l.tracked())
}

func TestReleaseUnknownIdIsHarmless(t *testing.T) {
	l := NewIdLocker()
	l.ReleaseLock(99)
	assert.Equal(t, 0, l.tracked())
}
