package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forkify/internal/app"
	"forkify/internal/storage"
)

func countingFactory(created *[]string) Factory {
	store := storage.NewMemoryStore()
	return func(ctx context.Context, id string) *app.State {
		*created = append(*created, id)
		return app.NewState(ctx, app.Options{Store: storage.WithPrefix(store, id)})
	}
}

func TestManager_ReusesState(t *testing.T) {
	var created []string
	m := NewManager(10, time.Hour, countingFactory(&created))
	ctx := context.Background()

	a := m.Get(ctx, "a")
	assert.Same(t, a, m.Get(ctx, "a"))
	b := m.Get(ctx, "b")
	assert.NotSame(t, a, b)
	assert.Equal(t, []string{"a", "b"}, created)
	assert.Equal(t, 2, m.Len())
}

func TestManager_EvictsLeastRecentlyUsed(t *testing.T) {
	var created []string
	m := NewManager(2, time.Hour, countingFactory(&created))
	ctx := context.Background()

	m.Get(ctx, "a")
	m.Get(ctx, "b")
	m.Get(ctx, "a")
	m.Get(ctx, "c") // evicts b

	assert.Equal(t, 2, m.Len())
	m.Get(ctx, "b")
	assert.Equal(t, []string{"a", "b", "c", "b"}, created)
}

func TestManager_Expires(t *testing.T) {
	var created []string
	m := NewManager(10, 20*time.Millisecond, countingFactory(&created))
	ctx := context.Background()

	first := m.Get(ctx, "a")
	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 10*time.Millisecond)
	assert.NotSame(t, first, m.Get(ctx, "a"))
}

func TestManager_Remove(t *testing.T) {
	var created []string
	m := NewManager(10, time.Hour, countingFactory(&created))
	ctx := context.Background()

	m.Get(ctx, "a")
	m.Remove("a")
	assert.Equal(t, 0, m.Len())
}

func TestManager_SlowFactoryDoesNotBlockOthers(t *testing.T) {
	store := storage.NewMemoryStore()
	release := make(chan struct{})
	started := make(chan struct{})
	m := NewManager(10, time.Hour, func(ctx context.Context, id string) *app.State {
		if id == "slow" {
			close(started)
			<-release
		}
		return app.NewState(ctx, app.Options{Store: storage.WithPrefix(store, id)})
	})
	ctx := context.Background()

	done := make(chan *app.State)
	go func() { done <- m.Get(ctx, "slow") }()
	<-started

	fast := make(chan *app.State)
	go func() { fast <- m.Get(ctx, "fast") }()
	select {
	case st := <-fast:
		assert.NotNil(t, st)
	case <-time.After(time.Second):
		t.Fatal("a new session waited on another session's factory")
	}

	close(release)
	slow := <-done
	assert.Same(t, slow, m.Get(ctx, "slow"))
	assert.Equal(t, 2, m.Len())
}

func TestManager_ConcurrentFirstGetsShareState(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(10, time.Hour, func(ctx context.Context, id string) *app.State {
		return app.NewState(ctx, app.Options{Store: storage.WithPrefix(store, id)})
	})
	ctx := context.Background()

	const n = 8
	states := make([]*app.State, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i] = m.Get(ctx, "a")
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, m.Len())
	for _, st := range states {
		assert.Same(t, m.Get(ctx, "a"), st)
	}
}
