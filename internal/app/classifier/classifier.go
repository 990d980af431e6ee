// Package classifier provides mood classification strategies for each input modality.
package classifier

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/moodtunes/internal/domain/mood"
)

// Errors
var (
	ErrUnknownEmoji              = errors.New("unknown emoji")
	ErrUnclassified              = errors.New("no mood could be derived from input")
	ErrClassificationUnavailable = errors.New("classification unavailable")
	ErrInputTooLong              = errors.New("input too long")
	ErrUnsupportedModality       = errors.New("unsupported modality")
)

// Input is one raw modality input.
type Input struct {
	Modality mood.Modality
	Text     string // text modality
	Emoji    string // emoji modality: glyph
	Category string // emoji modality: palette category
	Frame    []byte // camera modality: opaque frame placeholder
}

// Classifier converts one raw input into exactly one mood sample.
type Classifier interface {
	// Name returns the strategy name (used in config).
	Name() string
	// Modality returns the input channel this strategy handles.
	Modality() mood.Modality
	// Classify derives a sample from the input.
	Classify(ctx context.Context, in Input) (mood.Sample, error)
}

// RandomSource is the randomness a strategy may draw from.
// *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// lockedSource serializes access to a RandomSource.
type lockedSource struct {
	mu  sync.Mutex
	src RandomSource
}

// NewSeededSource returns a goroutine-safe source seeded with seed.
func NewSeededSource(seed int64) RandomSource {
	return &lockedSource{src: rand.New(rand.NewSource(seed))}
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
