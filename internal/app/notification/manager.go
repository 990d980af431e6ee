// Package notification provides the event hub broadcasting navigation and pipeline events.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/infra/metrics"
)

// Event types
const (
	EventNavigateRecommendations = "navigate.recommendations"
	EventNavigatePlaylists       = "navigate.playlists"
	EventMoodDetected            = "mood.detected"
	EventLoggedIn                = "session.logged_in"
	EventLoggedOut               = "session.logged_out"
	EventExportFinished          = "export.finished"
	EventInitialState            = "session.initial_state"
	EventPlaybackPrefix          = "playback."
)

// DefaultSendTimeout bounds a single subscriber send.
const DefaultSendTimeout = 500 * time.Millisecond

// Event is one broadcast event.
type Event struct {
	SequenceNo uint64    `json:"sequence_no"`
	Type       string    `json:"type"`
	At         time.Time `json:"at"`
	Payload    any       `json:"payload,omitempty"`
}

// Stream represents an event stream for a subscriber.
type Stream interface {
	Send(*Event) error
}

// StreamFunc adapts a function to Stream.
type StreamFunc func(*Event) error

func (f StreamFunc) Send(e *Event) error {
	return f(e)
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id     string
	stream Stream
}

// Manager manages event subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
	sequenceNoMu  sync.Mutex
	sendTimeout   time.Duration
	metrics       *metrics.Metrics
}

// NewManager creates a new event hub.
func NewManager(m *metrics.Metrics) *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
		sendTimeout:   DefaultSendTimeout,
		metrics:       m,
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = &subscription{
		id:     id,
		stream: stream,
	}
	m.metrics.SetSubscribers(len(m.subscriptions))
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
	m.metrics.SetSubscribers(len(m.subscriptions))
}

// Publish builds an event and broadcasts it.
func (m *Manager) Publish(eventType string, payload any) *Event {
	e := &Event{Type: eventType, At: time.Now(), Payload: payload}
	m.Broadcast(e)
	return e
}

// Broadcast assigns the next sequence number and sends the event to all subscribers.
// Each stream send is done in a goroutine with a timeout to prevent blocking.
func (m *Manager) Broadcast(event *Event) {
	m.sequenceNoMu.Lock()
	m.sequenceNo++
	event.SequenceNo = m.sequenceNo
	m.sequenceNoMu.Unlock()

	m.mu.RLock()
	// Copy subscriptions to avoid holding lock during sends
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	timeout := m.sendTimeout
	m.mu.RUnlock()

	// Send to each subscriber in parallel with timeout
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.stream.Send(event)
			}()

			select {
			case err := <-done:
				if err != nil {
					zlog.Debug().Msgf("notification: send to %s failed: %v", s.id, err)
				}
			case <-ctx.Done():
				zlog.Debug().Msgf("notification: send to %s timed out, skipping", s.id)
			}
		}(sub)
	}

	// Wait for all sends to complete or timeout
	wg.Wait()
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
	m.metrics.SetSubscribers(0)
}
