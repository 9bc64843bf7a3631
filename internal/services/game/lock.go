package game

import (
	"sync"

	"github.com/harborline/battleship-go/internal/model"
)

// gameLocks serializes mutations per game code. Every mutating operation
// on a game runs as load-mutate-save under that game's lock, so concurrent
// entry points (request handlers, connection callbacks, grace-period
// timers) cannot interleave on the same aggregate.
type gameLocks struct {
	mu    sync.Mutex
	locks map[model.GameCode]*sync.Mutex
}

func newGameLocks() *gameLocks {
	return &gameLocks{
		locks: make(map[model.GameCode]*sync.Mutex),
	}
}

// get returns the mutex for a game code, creating it on first use.
// Lock entries are never removed; a finished game's mutex is a few bytes
// and freeing it would race with late operations on the same code.
func (l *gameLocks) get(code model.GameCode) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[code]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[code] = lock
	}
	return lock
}
