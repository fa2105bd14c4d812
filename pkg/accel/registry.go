package accel

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/Faultbox/physical-layout/pkg/instancer"
)

// Handle is an opaque instancer reference handed across the host boundary.
// The zero Handle is never issued.
type Handle uint64

// Registry maps handles to instancer managers. Foreign callers may reach it
// from any thread, so it is locked; the managers themselves are not.
type Registry struct {
	mu       sync.Mutex
	last     Handle
	managers map[Handle]*instancer.Manager
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{managers: make(map[Handle]*instancer.Manager)}
}

// Register stores m under a fresh handle.
func (r *Registry) Register(m *instancer.Manager) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last++
	r.managers[r.last] = m
	return r.last
}

// Get returns the manager behind h.
func (r *Registry) Get(h Handle) (*instancer.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return m, nil
}

// Release closes the manager behind h and invalidates h.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	m, ok := r.managers[h]
	delete(r.managers, h)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return m.Close()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}

// Close releases every live handle.
func (r *Registry) Close() error {
	r.mu.Lock()
	managers := r.managers
	r.managers = make(map[Handle]*instancer.Manager)
	r.mu.Unlock()

	var err error
	for h, m := range managers {
		if cerr := m.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("instancer %d: %w", h, cerr))
		}
	}
	return err
}
