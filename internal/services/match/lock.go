package match

import (
	"sync"

	"github.com/mcoot/werewolf-go/internal/model"
)

// codeLocks hands out one mutex per join code. Entries are reference
// counted and dropped once nobody holds or waits on them.
type codeLocks struct {
	mu    sync.Mutex
	locks map[model.JoinCode]*codeLock
}

type codeLock struct {
	sync.Mutex
	refs int
}

func newCodeLocks() *codeLocks {
	return &codeLocks{locks: make(map[model.JoinCode]*codeLock)}
}

// Lock blocks until the code's mutex is held and returns its release func
func (l *codeLocks) Lock(code model.JoinCode) func() {
	l.mu.Lock()
	lock, ok := l.locks[code]
	if !ok {
		lock = &codeLock{}
		l.locks[code] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, code)
		}
		l.mu.Unlock()
	}
}

func (l *codeLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
