package console

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

const defaultResolverCapacity = 512

// ParentLookup is the read-only view of the resolver cache used while
// rendering and sorting. A miss means the row keeps its placeholder.
type ParentLookup interface {
	Peek(id string) (Parent, bool)
}

// ParentResolver memoizes foreign-id lookups against the parents collection.
// Each unique id is fetched at most once per session; concurrent requests for
// the same id coalesce into a single network call. Failed lookups stay
// unresolved silently. The cache is bounded and supports explicit
// invalidation when a parent is mutated.
type ParentResolver struct {
	api      restapi.Getter
	capacity int

	mu       sync.Mutex
	entries  map[string]Parent
	order    []string
	inflight map[string]chan struct{}
}

// NewParentResolver builds a resolver over the given fetch layer. A capacity
// of zero or less uses the default bound.
func NewParentResolver(api restapi.Getter, capacity int) *ParentResolver {
	if capacity <= 0 {
		capacity = defaultResolverCapacity
	}
	return &ParentResolver{
		api:      api,
		capacity: capacity,
		entries:  make(map[string]Parent),
		inflight: make(map[string]chan struct{}),
	}
}

// Peek returns the cached parent without issuing a fetch.
func (r *ParentResolver) Peek(id string) (Parent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent, ok := r.entries[id]
	return parent, ok
}

// Invalidate drops the cached entry for id so the next reference refetches.
func (r *ParentResolver) Invalidate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	for i, key := range r.order {
		if key == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Resolve returns the parent for id, fetching and caching it on first use.
func (r *ParentResolver) Resolve(ctx context.Context, id string) (Parent, bool) {
	if id == "" {
		return Parent{}, false
	}
	for {
		r.mu.Lock()
		if parent, ok := r.entries[id]; ok {
			r.mu.Unlock()
			return parent, true
		}
		if wait, ok := r.inflight[id]; ok {
			r.mu.Unlock()
			select {
			case <-wait:
			case <-ctx.Done():
				return Parent{}, false
			}
			// The winning fetch may have failed; re-check rather than assume.
			r.mu.Lock()
			parent, ok := r.entries[id]
			r.mu.Unlock()
			return parent, ok
		}
		done := make(chan struct{})
		r.inflight[id] = done
		r.mu.Unlock()

		parent, ok := r.fetch(ctx, id)

		r.mu.Lock()
		if ok {
			r.store(id, parent)
		}
		delete(r.inflight, id)
		close(done)
		r.mu.Unlock()
		return parent, ok
	}
}

// ResolveBatch fans out one concurrent lookup per unique id and waits for the
// whole batch, so callers can treat the page as ready afterwards.
func (r *ParentResolver) ResolveBatch(ctx context.Context, ids []string) {
	seen := make(map[string]bool, len(ids))
	var wg sync.WaitGroup
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			r.Resolve(ctx, id)
		}(id)
	}
	wg.Wait()
}

func (r *ParentResolver) fetch(ctx context.Context, id string) (Parent, bool) {
	raw, err := r.api.Get(ctx, CollectionParents, id)
	if err != nil {
		return Parent{}, false
	}
	var parent Parent
	if err := json.Unmarshal(raw, &parent); err != nil {
		return Parent{}, false
	}
	return parent, true
}

// store records an entry, evicting the oldest one when at capacity. Caller
// holds the lock.
func (r *ParentResolver) store(id string, parent Parent) {
	if _, ok := r.entries[id]; !ok {
		for len(r.order) >= r.capacity {
			oldest := r.order[0]
			r.order = r.order[1:]
			delete(r.entries, oldest)
		}
		r.order = append(r.order, id)
	}
	r.entries[id] = parent
}
