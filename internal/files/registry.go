// Package files tracks references to documents the upload pipeline has
// accepted (proposals, payment proofs). The core never touches file bytes;
// it only needs to answer "was this reference actually uploaded?" before a
// lifecycle operation accepts it.
package files

import (
	"context"
	"sync"
	"time"
)

// Registry is interface-driven to keep the domain logic testable and to
// allow swapping in-memory, object-store-backed, or external persistence
// without rewiring business code.
type Registry interface {
	// Record registers an uploaded reference with its uploader.
	Record(ctx context.Context, ref, uploadedBy string) error
	// Resolve reports whether the reference exists. Infrastructure failures
	// come back as errors, distinct from a clean "does not exist".
	Resolve(ctx context.Context, ref string) (bool, error)
}

type entry struct {
	uploadedBy string
	uploadedAt time.Time
}

// InMemoryRegistry keeps references in process; intentionally favors
// clarity over performance.
type InMemoryRegistry struct {
	mu   sync.RWMutex
	refs map[string]entry
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{refs: make(map[string]entry)}
}

func (r *InMemoryRegistry) Record(_ context.Context, ref, uploadedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs[ref] = entry{uploadedBy: uploadedBy, uploadedAt: time.Now()}
	return nil
}

func (r *InMemoryRegistry) Resolve(_ context.Context, ref string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.refs[ref]
	return ok, nil
}
