// Package locker serializes work on one key, such as the actions touching one application.
package locker

import (
	"context"
	"errors"
	"sync"
)

// ErrNotHeld is returned when releasing a lock that expired or was taken over.
var ErrNotHeld = errors.New("lock is no longer held")

// Release gives a lock back.
type Release func(ctx context.Context) error

// Locker grants exclusive access to a key until the returned Release is called.
type Locker interface {
	Lock(ctx context.Context, key string) (Release, error)
}

// MemoryLocker is a keyed mutex for a single process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	held chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*keyLock)}
}

// Lock blocks until key is free or ctx is done.
func (l *MemoryLocker) Lock(ctx context.Context, key string) (Release, error) {
	l.mu.Lock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &keyLock{held: make(chan struct{}, 1)}
		l.locks[key] = lock
	}

	lock.refs++
	l.mu.Unlock()

	select {
	case lock.held <- struct{}{}:
	case <-ctx.Done():
		l.forget(key, lock)

		return nil, ctx.Err()
	}

	var once sync.Once

	return func(context.Context) error {
		released := false

		once.Do(func() {
			<-lock.held
			l.forget(key, lock)

			released = true
		})

		if !released {
			return ErrNotHeld
		}

		return nil
	}, nil
}

func (l *MemoryLocker) forget(key string, lock *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}

// Held reports how many keys currently have a holder or waiter.
func (l *MemoryLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
