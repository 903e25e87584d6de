package draft

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("draft not found")
	ErrBusy     = errors.New("draft is being processed, try again")
)

type entry struct {
	draft *Draft
	busy  bool
}

// Registry keeps the live drafts of all tills. Long-running actions (pay,
// commit, store) check a draft out with Begin and hand it back with End or
// Abort; while checked out every other action on it gets ErrBusy.
type Registry struct {
	mu     sync.Mutex
	drafts map[string]*entry
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		drafts: make(map[string]*entry),
		now:    time.Now,
	}
}

// Create starts and registers a new draft.
func (r *Registry) Create(createdBy string) *Draft {
	d := New(createdBy, r.now())
	r.Put(d)
	return d.Clone()
}

// Put registers d, replacing any draft with the same id.
func (r *Registry) Put(d *Draft) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[d.ID] = &entry{draft: d}
}

// Get returns a copy of the draft.
func (r *Registry) Get(id string) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.draft.Clone(), nil
}

// Update applies a synchronous mutation. When fn fails the draft is left
// exactly as it was.
func (r *Registry) Update(id string, fn func(d *Draft) error) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if e.busy {
		return nil, ErrBusy
	}
	work := e.draft.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	work.UpdatedAt = r.now()
	r.store(e, work)
	return work.Clone(), nil
}

// Begin checks out a working copy of the draft.
func (r *Registry) Begin(id string) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if e.busy {
		return nil, ErrBusy
	}
	e.busy = true
	return e.draft.Clone(), nil
}

// End stores the working copy and releases the draft. Drafts that reached a
// final state are dropped.
func (r *Registry) End(d *Draft) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.drafts[d.ID]
	if !ok {
		return
	}
	e.busy = false
	d.UpdatedAt = r.now()
	r.store(e, d.Clone())
}

// Abort releases the draft without keeping any change.
func (r *Registry) Abort(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.drafts[id]; ok {
		e.busy = false
	}
}

// Sweep drops drafts that have not changed since before cutoff.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.drafts {
		if !e.busy && e.draft.UpdatedAt.Before(cutoff) {
			delete(r.drafts, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

func (r *Registry) store(e *entry, d *Draft) {
	switch d.State {
	case StateCommitted, StateParked, StateCancelled:
		delete(r.drafts, d.ID)
	default:
		e.draft = d
	}
}
