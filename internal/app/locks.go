package app

import (
	"sync"
	"time"

	"meal-planner/internal/planner"
)

// weekLocks serializes read-modify-write cycles on the plan and shopping
// list of one user and week within this process.
type weekLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the lock of a user's week and returns its release func.
func (w *weekLocks) lock(userID string, week time.Time) func() {
	key := userID + "|" + planner.FormatWeek(planner.WeekStart(week))

	w.mu.Lock()
	if w.locks == nil {
		w.locks = make(map[string]*sync.Mutex)
	}
	m, ok := w.locks[key]
	if !ok {
		m = &sync.Mutex{}
		w.locks[key] = m
	}
	w.mu.Unlock()

	m.Lock()
	return m.Unlock
}
