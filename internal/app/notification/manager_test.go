package notification

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []*Event
}

func (r *recorder) Send(e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func TestManager_BroadcastSequence(t *testing.T) {
	m := NewManager(nil)
	rec := &recorder{}
	m.Subscribe(rec)

	first := m.Publish(EventMoodDetected, map[string]any{"mood": "happy"})
	second := m.Publish(EventNavigateRecommendations, nil)

	assert.Equal(t, uint64(1), first.SequenceNo)
	assert.Equal(t, uint64(2), second.SequenceNo)
	assert.Equal(t, []string{EventMoodDetected, EventNavigateRecommendations}, rec.types())
}

func TestManager_Unsubscribe(t *testing.T) {
	m := NewManager(nil)
	rec := &recorder{}
	id := m.Subscribe(rec)
	assert.Equal(t, 1, m.SubscriberCount())

	m.Unsubscribe(id)
	m.Publish(EventLoggedOut, nil)

	assert.Zero(t, m.SubscriberCount())
	assert.Empty(t, rec.types())
}

func TestManager_SlowSubscriberIsSkipped(t *testing.T) {
	m := NewManager(nil)
	m.sendTimeout = 20 * time.Millisecond

	block := make(chan struct{})
	defer close(block)
	m.Subscribe(StreamFunc(func(*Event) error {
		<-block
		return nil
	}))
	rec := &recorder{}
	m.Subscribe(rec)

	start := time.Now()
	m.Publish(EventNavigatePlaylists, nil)
	assert.Less(t, time.Since(start), time.Second)
	require.Equal(t, []string{EventNavigatePlaylists}, rec.types())
}

func TestManager_Close(t *testing.T) {
	m := NewManager(nil)
	m.Subscribe(&recorder{})
	m.Subscribe(&recorder{})
	m.Close()
	assert.Zero(t, m.SubscriberCount())
}
