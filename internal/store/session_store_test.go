package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartcheck/internal/model"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	s := NewMemoryStore(0)

	_, ok := s.Get("missing")
	assert.False(t, ok)

	sess := model.NewChatSession("abc")
	s.Put(sess)

	got, ok := s.Get("abc")
	require.True(t, ok)
	assert.Same(t, sess, got, "store hands out the live pointer")
	assert.Equal(t, 1, s.Len())

	s.Delete("abc")
	_, ok = s.Get("abc")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreEvictsIdleSessions(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	s.Put(model.NewChatSession("stale"))
	s.mu.Lock()
	s.lastSeen["stale"] = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	s.Put(model.NewChatSession("fresh"))

	_, ok := s.Get("stale")
	assert.False(t, ok, "idle session is evicted on access")
	assert.Equal(t, 1, s.Len())

	_, ok = s.Get("fresh")
	assert.True(t, ok)
}

func TestMemoryStoreGetRefreshesActivity(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	s.Put(model.NewChatSession("busy"))

	s.mu.Lock()
	s.lastSeen["busy"] = time.Now().Add(-50 * time.Second)
	s.mu.Unlock()

	_, ok := s.Get("busy")
	require.True(t, ok)

	s.mu.Lock()
	seen := s.lastSeen["busy"]
	s.mu.Unlock()
	assert.WithinDuration(t, time.Now(), seen, time.Second, "a hit counts as activity")
}

func TestMemoryStoreZeroIdleDisablesEviction(t *testing.T) {
	s := NewMemoryStore(0)
	s.Put(model.NewChatSession("old"))

	s.mu.Lock()
	s.lastSeen["old"] = time.Now().Add(-24 * time.Hour)
	s.mu.Unlock()

	_, ok := s.Get("old")
	assert.True(t, ok)
}

// Idle tracking must not read session fields: message handling mutates
// UpdatedAt under the session lock while other requests call Get. Run
// with -race.
func TestMemoryStoreGetConcurrentWithSessionWrites(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	sess := model.NewChatSession("hot")
	s.Put(sess)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, ok := s.Get("hot")
				require.True(t, ok)
				got.Lock()
				got.UpdatedAt = time.Now()
				got.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", n)
			s.Put(model.NewChatSession(id))
			_, ok := s.Get(id)
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
