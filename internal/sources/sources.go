package sources

import (
	"context"
	"fmt"

	"NewsPulse/internal/domain"
)

// Adapter normalizes one upstream site into Summary/Detail records. Concrete
// implementations own all site-specific parsing; the pipeline only sees this
// interface.
type Adapter interface {
	// Name identifies the source; it becomes the Source half of the article key.
	Name() string

	// FetchSummaries lists up to limit recent items, newest first.
	FetchSummaries(ctx context.Context, limit int) ([]domain.Summary, error)

	// FetchDetail loads the full record for one listed item. A nil detail with
	// a nil error means the item is gone upstream.
	FetchDetail(ctx context.Context, id string) (*domain.Detail, error)

	// SupportsImmediate reports whether items from this source should be
	// enriched synchronously at ingest time. Sources returning false are
	// persisted unprocessed and finished by the batch reprocessor.
	SupportsImmediate() bool
}

// Registry maps source names to their adapters.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{}}
}

// Register adds or replaces an adapter.
func (r *Registry) Register(adapter Adapter) {
	if r.adapters == nil {
		r.adapters = map[string]Adapter{}
	}
	if _, ok := r.adapters[adapter.Name()]; !ok {
		r.order = append(r.order, adapter.Name())
	}
	r.adapters[adapter.Name()] = adapter
}

// Resolve returns an adapter by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Adapter, error) {
	if adapter, ok := r.adapters[name]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}

// All returns the registered adapters in registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}
