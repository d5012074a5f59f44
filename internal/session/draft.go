package session

import (
	"sync"

	"webcarros/internal/domain/entity"
)

// Draft is the session's working set of pending media. Every change goes
// through Update so concurrent requests never lose each other's items.
type Draft struct {
	mu  sync.Mutex
	set entity.WorkingSet
}

func NewDraft() *Draft {
	return &Draft{set: entity.NewWorkingSet()}
}

func (d *Draft) Snapshot() entity.WorkingSet {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.set
}

func (d *Draft) Update(fn func(entity.WorkingSet) entity.WorkingSet) entity.WorkingSet {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.set = fn(d.set)
	return d.set
}
