package scatter

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// DeletionQueue collects transient marker objects to remove once the host is
// done with them. Each queue is owned by one processing session.
type DeletionQueue struct {
	names []string
	seen  map[string]struct{}
}

// NewDeletionQueue returns an empty queue.
func NewDeletionQueue() *DeletionQueue {
	return &DeletionQueue{seen: make(map[string]struct{})}
}

// Mark queues name. Marking a queued name again is a no-op and returns false.
func (q *DeletionQueue) Mark(name string) bool {
	if _, ok := q.seen[name]; ok {
		return false
	}
	q.seen[name] = struct{}{}
	q.names = append(q.names, name)
	return true
}

// Marked returns the queued names in marking order.
func (q *DeletionQueue) Marked() []string {
	return append([]string(nil), q.names...)
}

// Len returns the number of queued names.
func (q *DeletionQueue) Len() int {
	return len(q.names)
}

// Clear empties the queue without removing anything.
func (q *DeletionQueue) Clear() {
	q.names = nil
	clear(q.seen)
}

// Flush empties the queue and removes every queued object. Objects already
// gone are not an error. Other failures are combined and returned after all
// names were attempted.
func (q *DeletionQueue) Flush(remover ObjectRemover) (removed int, err error) {
	names := q.names
	q.Clear()

	for _, name := range names {
		rmErr := remover.RemoveObject(name)
		switch {
		case rmErr == nil:
			removed++
		case errors.Is(rmErr, ErrObjectNotFound):
		default:
			err = multierr.Append(err, fmt.Errorf("remove %q: %w", name, rmErr))
		}
	}
	return removed, err
}
