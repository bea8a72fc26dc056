package console

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

func TestResolverCachesAcrossCalls(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.SeedEntity(CollectionParents, "p1", Parent{ID: "p1", FirstName: "A", LastName: "B"})
	resolver := NewParentResolver(mock, 0)

	parent, ok := resolver.Resolve(context.Background(), "p1")
	require.True(t, ok)
	assert.Equal(t, "A B", parent.FullName())

	_, ok = resolver.Resolve(context.Background(), "p1")
	require.True(t, ok)
	assert.Equal(t, 1, mock.GetCalls["parents/p1"])
}

func TestResolverCoalescesConcurrentLookups(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.SeedEntity(CollectionParents, "p1", Parent{ID: "p1"})
	mock.GetHook = func(string, string) { time.Sleep(10 * time.Millisecond) }
	resolver := NewParentResolver(mock, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := resolver.Resolve(context.Background(), "p1")
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, mock.GetCalls["parents/p1"])
}

func TestResolverBatchDeduplicatesIDs(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.SeedEntity(CollectionParents, "p1", Parent{ID: "p1"})
	mock.SeedEntity(CollectionParents, "p2", Parent{ID: "p2"})
	resolver := NewParentResolver(mock, 0)

	resolver.ResolveBatch(context.Background(), []string{"p1", "p2", "p1", "", "p2"})
	assert.Equal(t, 1, mock.GetCalls["parents/p1"])
	assert.Equal(t, 1, mock.GetCalls["parents/p2"])

	_, ok := resolver.Peek("p1")
	assert.True(t, ok)
	_, ok = resolver.Peek("p2")
	assert.True(t, ok)
}

func TestResolverFailuresStaySilent(t *testing.T) {
	mock := restapi.NewMockClient()
	resolver := NewParentResolver(mock, 0)

	_, ok := resolver.Resolve(context.Background(), "missing")
	assert.False(t, ok)
	// A failed lookup is not cached as a tombstone; the next reference
	// retries.
	_, ok = resolver.Resolve(context.Background(), "missing")
	assert.False(t, ok)
	assert.Equal(t, 2, mock.GetCalls["parents/missing"])
}

func TestResolverInvalidate(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.SeedEntity(CollectionParents, "p1", Parent{ID: "p1", FirstName: "Old"})
	resolver := NewParentResolver(mock, 0)

	_, ok := resolver.Resolve(context.Background(), "p1")
	require.True(t, ok)

	mock.SeedEntity(CollectionParents, "p1", Parent{ID: "p1", FirstName: "New"})
	resolver.Invalidate("p1")
	_, ok = resolver.Peek("p1")
	assert.False(t, ok)

	parent, ok := resolver.Resolve(context.Background(), "p1")
	require.True(t, ok)
	assert.Equal(t, "New", parent.FirstName)
	assert.Equal(t, 2, mock.GetCalls["parents/p1"])
}

func TestResolverEvictsOldestAtCapacity(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.SeedEntity(CollectionParents, "p1", Parent{ID: "p1"})
	mock.SeedEntity(CollectionParents, "p2", Parent{ID: "p2"})
	mock.SeedEntity(CollectionParents, "p3", Parent{ID: "p3"})
	resolver := NewParentResolver(mock, 2)

	resolver.Resolve(context.Background(), "p1")
	resolver.Resolve(context.Background(), "p2")
	resolver.Resolve(context.Background(), "p3")

	_, ok := resolver.Peek("p1")
	assert.False(t, ok)
	_, ok = resolver.Peek("p2")
	assert.True(t, ok)
	_, ok = resolver.Peek("p3")
	assert.True(t, ok)
}

func TestResolverEmptyID(t *testing.T) {
	resolver := NewParentResolver(restapi.NewMockClient(), 0)
	_, ok := resolver.Resolve(context.Background(), "")
	assert.False(t, ok)
}
