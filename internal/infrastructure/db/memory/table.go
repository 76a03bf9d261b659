package memory

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/notekeeper/notes-api/internal/core/ports"
)

// table is a mutex-guarded id -> record map with secondary equality indexes.
// Records are cloned on the way in and on the way out.
type table[T any] struct {
	resource string
	seq      ports.Sequence
	notFound error

	clone   func(*T) *T
	getID   func(*T) int64
	setID   func(*T, int64)
	indexed map[string]func(*T) any

	mu    sync.RWMutex
	rows  map[int64]*T
	index map[string]map[any]map[int64]struct{}
}

func newTable[T any](resource string, seq ports.Sequence, notFound error,
	clone func(*T) *T, getID func(*T) int64, setID func(*T, int64),
	indexed map[string]func(*T) any,
) *table[T] {
	t := &table[T]{
		resource: resource,
		seq:      seq,
		notFound: notFound,
		clone:    clone,
		getID:    getID,
		setID:    setID,
		indexed:  indexed,
	}
	t.clear()
	return t
}

func (t *table[T]) clear() {
	t.rows = make(map[int64]*T)
	t.index = make(map[string]map[any]map[int64]struct{}, len(t.indexed))
	for field := range t.indexed {
		t.index[field] = make(map[any]map[int64]struct{})
	}
}

func (t *table[T]) get(id int64) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, t.notFound
	}
	return t.clone(row), nil
}

func (t *table[T]) insert(ctx context.Context, rec *T) (int64, error) {
	id, err := t.seq.Next(ctx, t.resource)
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", t.resource, err)
	}

	row := t.clone(rec)
	t.setID(row, id)

	t.mu.Lock()
	t.rows[id] = row
	t.addToIndexes(id, row)
	t.mu.Unlock()

	t.setID(rec, id)
	return id, nil
}

func (t *table[T]) replace(rec *T) error {
	id := t.getID(rec)
	row := t.clone(rec)

	t.mu.Lock()
	defer t.mu.Unlock()

	old, ok := t.rows[id]
	if !ok {
		return t.notFound
	}
	t.removeFromIndexes(id, old)
	t.rows[id] = row
	t.addToIndexes(id, row)
	return nil
}

func (t *table[T]) delete(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	old, ok := t.rows[id]
	if !ok {
		return t.notFound
	}
	t.removeFromIndexes(id, old)
	delete(t.rows, id)
	return nil
}

// scan walks ids in ascending order. Rows deleted after the pass started are
// skipped; each yielded row is read at the moment it is yielded.
func (t *table[T]) scan(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		t.mu.RLock()
		ids := make([]int64, 0, len(t.rows))
		for id := range t.rows {
			ids = append(ids, id)
		}
		t.mu.RUnlock()
		slices.Sort(ids)

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			row, err := t.get(id)
			if err != nil {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func (t *table[T]) exists(field string, value any) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	idx, ok := t.index[field]
	if !ok {
		return false, fmt.Errorf("%s: field %q is not indexed", t.resource, field)
	}
	return len(idx[value]) > 0, nil
}

func (t *table[T]) reset() {
	t.mu.Lock()
	t.clear()
	t.mu.Unlock()
}

func (t *table[T]) addToIndexes(id int64, row *T) {
	for field, key := range t.indexed {
		v := key(row)
		ids, ok := t.index[field][v]
		if !ok {
			ids = make(map[int64]struct{})
			t.index[field][v] = ids
		}
		ids[id] = struct{}{}
	}
}

func (t *table[T]) removeFromIndexes(id int64, row *T) {
	for field, key := range t.indexed {
		v := key(row)
		ids := t.index[field][v]
		delete(ids, id)
		if len(ids) == 0 {
			delete(t.index[field], v)
		}
	}
}
