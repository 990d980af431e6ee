// Package feedback records how well recommended tracks matched the user's mood.
package feedback

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/app/settings"
	"github.com/osa030/moodtunes/internal/domain/mood"
)

// Key is the KV key the feedback document is stored under.
const Key = "moodtunes-feedback"

const schemaVersion = 1

// ErrInvalid marks feedback that fails validation.
var ErrInvalid = errors.New("invalid feedback")

var ratingLabels = map[int]string{
	1: "Poor match",
	2: "Below average",
	3: "Average match",
	4: "Good match",
	5: "Perfect match",
}

// RatingLabel returns the display label of a rating, or "" if out of range.
func RatingLabel(rating int) string {
	return ratingLabels[rating]
}

// Feedback is one rating of a recommended track.
type Feedback struct {
	TrackID   string     `json:"track_id" validate:"required"`
	Mood      mood.Label `json:"mood,omitempty"`
	Rating    int        `json:"rating" validate:"gte=1,lte=5"`
	Comment   string     `json:"comment,omitempty" validate:"max=200"`
	CreatedAt time.Time  `json:"created_at"`
}

type document struct {
	SchemaVersion int        `json:"schema_version"`
	Entries       []Feedback `json:"entries"`
}

// Service persists feedback, one entry per track (latest wins).
type Service struct {
	mu       sync.Mutex
	kv       settings.KV
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a feedback service.
func NewService(kv settings.KV) *Service {
	return &Service{kv: kv, validate: validator.New(), now: time.Now}
}

// Submit validates and stores f, replacing earlier feedback for the same track.
func (s *Service) Submit(ctx context.Context, f Feedback) (Feedback, error) {
	f.Comment = strings.TrimSpace(f.Comment)
	if f.Mood != "" && !f.Mood.IsValid() {
		return Feedback{}, errors.Wrapf(ErrInvalid, "unknown mood %q", f.Mood)
	}
	if err := s.validate.Struct(f); err != nil {
		return Feedback{}, errors.Wrapf(ErrInvalid, "%v", err)
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return Feedback{}, err
	}

	replaced := false
	for i := range doc.Entries {
		if doc.Entries[i].TrackID == f.TrackID {
			doc.Entries[i] = f
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Entries = append(doc.Entries, f)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return Feedback{}, errors.Wrap(err, "failed to encode feedback")
	}
	if err := s.kv.Set(ctx, Key, raw); err != nil {
		return Feedback{}, errors.Wrap(err, "failed to write feedback")
	}

	zlog.Info().Msgf("feedback: track=%s rating=%d (%s)", f.TrackID, f.Rating, RatingLabel(f.Rating))
	return f, nil
}

// List returns all feedback, newest first.
func (s *Service) List(ctx context.Context) ([]Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(doc.Entries, func(i, j int) bool {
		return doc.Entries[i].CreatedAt.After(doc.Entries[j].CreatedAt)
	})
	return doc.Entries, nil
}

// Clear removes all feedback.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, Key)
}

func (s *Service) load(ctx context.Context) (document, error) {
	doc := document{SchemaVersion: schemaVersion}

	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return doc, errors.Wrap(err, "failed to read feedback")
	}
	if !ok {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, errors.Wrap(err, "failed to decode feedback")
	}
	doc.SchemaVersion = schemaVersion
	return doc, nil
}
