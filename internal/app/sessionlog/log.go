// Package sessionlog provides the bounded per-session mood history.
package sessionlog

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/osa030/moodtunes/internal/domain/mood"
)

// DefaultCapacity is the number of samples retained when no capacity is given.
const DefaultCapacity = 10

// Stats summarizes the retained samples.
type Stats struct {
	TotalDetections   int        `json:"total_detections"`
	DominantMood      mood.Label `json:"dominant_mood,omitempty"`
	AverageConfidence float64    `json:"average_confidence"`
	DurationMinutes   int        `json:"duration_minutes"`
}

// Log holds the most recent samples, newest first. The oldest sample is
// evicted once capacity is reached.
type Log struct {
	mu       sync.RWMutex
	capacity int
	entries  []mood.Sample // newest at index 0
}

// New creates a log holding at most capacity samples.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		entries:  make([]mood.Sample, 0, capacity),
	}
}

// Capacity returns the maximum number of retained samples.
func (l *Log) Capacity() int {
	return l.capacity
}

// Append inserts s at the head, evicting the tail beyond capacity.
func (l *Log) Append(s mood.Sample) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == l.capacity {
		l.entries = l.entries[:l.capacity-1]
	}
	l.entries = append(l.entries, mood.Sample{})
	copy(l.entries[1:], l.entries[:len(l.entries)-1])
	l.entries[0] = s
}

// Entries returns a copy of the samples, newest first.
func (l *Log) Entries() []mood.Sample {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]mood.Sample, len(l.entries))
	copy(out, l.entries)
	return out
}

// Latest returns the most recent sample.
func (l *Log) Latest() (mood.Sample, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return mood.Sample{}, false
	}
	return l.entries[0], true
}

// Len returns the number of retained samples.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// DominantMood returns the most frequent label. Ties go to the label seen
// most recently. ok is false for an empty log.
func (l *Log) DominantMood() (label mood.Label, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return dominant(l.entries)
}

// AverageConfidence returns the mean confidence, or 0 for an empty log.
func (l *Log) AverageConfidence() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return averageConfidence(l.entries)
}

// DurationMinutes returns whole minutes between the oldest retained sample and now.
func (l *Log) DurationMinutes(now time.Time) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return durationMinutes(l.entries, now)
}

// Stats returns all aggregates computed over one consistent snapshot.
func (l *Log) Stats(now time.Time) Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	label, _ := dominant(l.entries)
	return Stats{
		TotalDetections:   len(l.entries),
		DominantMood:      label,
		AverageConfidence: averageConfidence(l.entries),
		DurationMinutes:   durationMinutes(l.entries, now),
	}
}

func dominant(entries []mood.Sample) (mood.Label, bool) {
	if len(entries) == 0 {
		return "", false
	}

	counts := make(map[mood.Label]int)
	for _, s := range entries {
		counts[s.Label]++
	}

	// entries are newest first, so the first label reaching the max count
	// is also the most recent among tied labels.
	var best mood.Label
	bestCount := 0
	for _, s := range entries {
		if c := counts[s.Label]; c > bestCount {
			best, bestCount = s.Label, c
		}
	}
	return best, true
}

func averageConfidence(entries []mood.Sample) float64 {
	if len(entries) == 0 {
		return 0
	}
	values := make([]float64, len(entries))
	for i, s := range entries {
		values[i] = s.Confidence
	}
	return stat.Mean(values, nil)
}

func durationMinutes(entries []mood.Sample, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}
	oldest := entries[len(entries)-1].CapturedAt
	d := now.Sub(oldest)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
