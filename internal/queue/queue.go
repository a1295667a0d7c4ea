// Package queue keeps triaged items ordered by urgency, most urgent first,
// with insertion order breaking ties.
package queue

import (
	"cmp"
	"errors"
	"fmt"
	"sync"

	"github.com/sharedcode/sop/inmemory"

	"github.com/supportdesk/backend/internal/models"
)

var ErrOutOfRange = errors.New("rank out of range")

// key orders by urgency descending, then sequence ascending.
type key struct {
	score int
	seq   uint64
}

func (k key) Compare(other interface{}) int {
	o := other.(key)
	if c := cmp.Compare(o.score, k.score); c != 0 {
		return c
	}
	return cmp.Compare(k.seq, o.seq)
}

type Queue struct {
	mu    sync.RWMutex
	index inmemory.BtreeInterface[key, *models.Item]
	byID  map[string]*models.Item
	seq   uint64
	size  int

	// ordered caches an in-order walk of index, rebuilt after inserts.
	ordered []*models.Item
	dirty   bool
}

func New() *Queue {
	return &Queue{
		index: inmemory.NewBtree[key, *models.Item](true),
		byID:  map[string]*models.Item{},
	}
}

// Insert stores item, assigning it the next sequence number. The queue owns
// the item afterwards; callers must not mutate it directly.
func (q *Queue) Insert(item *models.Item) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.insert(item)
	q.dirty = true
	return item.Sequence
}

func (q *Queue) insert(item *models.Item) {
	q.seq++
	item.Sequence = q.seq
	q.index.Add(key{score: item.UrgencyScore, seq: item.Sequence}, item)
	q.byID[item.ID] = item
	q.size++
}

// Reset drops every item. Sequence numbers keep counting so they are never
// reused.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.index = inmemory.NewBtree[key, *models.Item](true)
	q.byID = map[string]*models.Item{}
	q.ordered = nil
	q.size = 0
	q.dirty = false
}

// Replace swaps the queue contents for items in one step, so readers see
// either the old batch or the new one.
func (q *Queue) Replace(items []*models.Item) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.index = inmemory.NewBtree[key, *models.Item](true)
	q.byID = map[string]*models.Item{}
	q.size = 0
	for _, it := range items {
		q.insert(it)
	}
	q.dirty = true
}

func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.size
}

// OrderedView returns copies of all items, most urgent first.
func (q *Queue) OrderedView() []models.Item {
	var out []models.Item
	q.read(func(view []*models.Item) {
		out = make([]models.Item, len(view))
		for i, it := range view {
			out[i] = *it
		}
	})
	return out
}

// FilterByPriority returns the items with the given label in queue order.
func (q *Queue) FilterByPriority(p models.Priority) []models.Item {
	out := []models.Item{}
	q.read(func(view []*models.Item) {
		for _, it := range view {
			if it.Priority == p {
				out = append(out, *it)
			}
		}
	})
	return out
}

// ItemAt returns the item at a 1-indexed rank of OrderedView.
func (q *Queue) ItemAt(rank int) (models.Item, error) {
	var (
		out models.Item
		err error
	)
	q.read(func(view []*models.Item) {
		var it *models.Item
		it, err = at(view, rank)
		if err == nil {
			out = *it
		}
	})
	return out, err
}

// Get looks an item up by email id. With duplicate ids the latest insert wins.
func (q *Queue) Get(id string) (models.Item, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	it, ok := q.byID[id]
	if !ok {
		return models.Item{}, false
	}
	return *it, true
}

func (q *Queue) MarkResolved(rank int) (models.Item, error) {
	return q.mutate(rank, func(it *models.Item) {
		it.Status = models.StatusResolved
	})
}

func (q *Queue) EditResponse(rank int, text string) (models.Item, error) {
	return q.mutate(rank, func(it *models.Item) {
		it.Response = text
	})
}

// mutate changes non-key fields in place; the index is left untouched.
func (q *Queue) mutate(rank int, fn func(*models.Item)) (models.Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rebuild()
	it, err := at(q.ordered, rank)
	if err != nil {
		return models.Item{}, err
	}
	fn(it)
	return *it, nil
}

func (q *Queue) read(fn func(view []*models.Item)) {
	q.mu.RLock()
	if !q.dirty {
		defer q.mu.RUnlock()
		fn(q.ordered)
		return
	}
	q.mu.RUnlock()

	q.mu.Lock()
	defer q.mu.Unlock()
	q.rebuild()
	fn(q.ordered)
}

// rebuild walks the index in key order. Callers hold the write lock.
func (q *Queue) rebuild() {
	if !q.dirty {
		return
	}
	ordered := make([]*models.Item, 0, q.size)
	if q.index.First() {
		for {
			ordered = append(ordered, q.index.GetCurrentValue())
			if !q.index.Next() {
				break
			}
		}
	}
	q.ordered = ordered
	q.dirty = false
}

func at(view []*models.Item, rank int) (*models.Item, error) {
	if rank < 1 || rank > len(view) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, rank, len(view))
	}
	return view[rank-1], nil
}
