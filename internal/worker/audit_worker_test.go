package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sejin/dispatch-platform/internal/config"
	"github.com/sejin/dispatch-platform/internal/domain"
	"github.com/sejin/dispatch-platform/internal/events"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []string
	key     string
	max     int64
}

func (s *recordingSink) AppendCapped(_ context.Context, key string, entry string, maxEntries int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.max = maxEntries
	s.entries = append(s.entries, entry)
	return nil
}

func (s *recordingSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.entries...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestAuditWorkerWritesSubscribedEvents(t *testing.T) {
	sink := &recordingSink{}
	cfg := config.AuditConfig{RedisKey: "dispatch:audit", MaxEntries: 100, BufferSize: 8}
	w := NewAuditWorker(sink, cfg, zap.NewNop())

	dispatcher := events.NewInMemoryDispatcher()
	w.Start(dispatcher)
	defer w.Stop()

	require.NoError(t, dispatcher.Publish(context.Background(), events.AccountLoggedIn(7, domain.RoleDriver)))
	require.NoError(t, dispatcher.Publish(context.Background(), events.TokenRejected("/api/admin/x", assert.AnError)))

	waitFor(t, func() bool { return len(sink.snapshot()) == 2 })

	entries := sink.snapshot()
	assert.Equal(t, "dispatch:audit", sink.key)
	assert.Equal(t, int64(100), sink.max)

	var first events.Event
	require.NoError(t, json.Unmarshal([]byte(entries[0]), &first))
	assert.Equal(t, events.EventAccountLoggedIn, first.Type)
	assert.NotEmpty(t, first.ID)
}

func TestAuditWorkerDropsWhenBufferFull(t *testing.T) {
	sink := &recordingSink{}
	cfg := config.AuditConfig{RedisKey: "dispatch:audit", MaxEntries: 10, BufferSize: 1}
	w := NewAuditWorker(sink, cfg, zap.NewNop())

	// Drain loop never started: the second enqueue finds the buffer full
	// and must drop without blocking.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			_ = w.enqueue(context.Background(), events.AccountLoggedIn(int64(i), domain.RoleAdmin))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full buffer")
	}
	assert.Empty(t, sink.snapshot())
}
