package schedule

import (
	"context"
	"sync"
)

// MemoryDelivery is an in-memory implementation of Delivery.
// This is intended for testing and local development. Production should use
// the PostgreSQL implementation.
type MemoryDelivery struct {
	mu       sync.RWMutex
	requests []*Request
}

// NewMemoryDelivery creates a new in-memory delivery port.
func NewMemoryDelivery() *MemoryDelivery {
	return &MemoryDelivery{}
}

// CancelAll voids every scheduled notification.
func (d *MemoryDelivery) CancelAll(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = nil
	return nil
}

// Submit stores a scheduled notification.
func (d *MemoryDelivery) Submit(_ context.Context, req *Request) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	reqCopy := *req
	d.requests = append(d.requests, &reqCopy)
	return nil
}

// Requests returns a copy of the currently scheduled set.
func (d *MemoryDelivery) Requests() []*Request {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Request, 0, len(d.requests))
	for _, req := range d.requests {
		reqCopy := *req
		out = append(out, &reqCopy)
	}
	return out
}

// List returns a copy of the currently scheduled set. It mirrors the
// PostgresDelivery sync surface so the in-memory port can back the API in
// local development.
func (d *MemoryDelivery) List(_ context.Context) ([]*Request, error) {
	return d.Requests(), nil
}

// Len returns the number of scheduled notifications.
func (d *MemoryDelivery) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.requests)
}
