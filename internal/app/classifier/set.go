package classifier

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/domain/mood"
)

// Set routes each input to the strategy registered for its modality.
type Set struct {
	byModality map[mood.Modality]Classifier
}

// NewSet creates a set from strategies. A later strategy for the same
// modality replaces an earlier one.
func NewSet(classifiers ...Classifier) *Set {
	s := &Set{byModality: make(map[mood.Modality]Classifier, len(classifiers))}
	for _, c := range classifiers {
		s.byModality[c.Modality()] = c
	}
	return s
}

// Get returns the strategy for a modality.
func (s *Set) Get(m mood.Modality) (Classifier, bool) {
	c, ok := s.byModality[m]
	return c, ok
}

// Classify dispatches in to the strategy of its modality.
func (s *Set) Classify(ctx context.Context, in Input) (mood.Sample, error) {
	c, ok := s.byModality[in.Modality]
	if !ok {
		return mood.Sample{}, errors.Wrapf(ErrUnsupportedModality, "modality %q", in.Modality)
	}

	sample, err := c.Classify(ctx, in)
	if err != nil {
		zlog.Debug().Msgf("classifier: modality=%s strategy=%s failed: %v", in.Modality, c.Name(), err)
		return mood.Sample{}, err
	}

	zlog.Debug().Msgf("classifier: modality=%s strategy=%s label=%s confidence=%.2f",
		in.Modality, c.Name(), sample.Label, sample.Confidence)
	return sample, nil
}

// Available lists the modalities that have a strategy which is not disabled.
func (s *Set) Available() []mood.Modality {
	out := make([]mood.Modality, 0, len(s.byModality))
	for _, m := range []mood.Modality{mood.ModalityText, mood.ModalityEmoji, mood.ModalityCamera} {
		c, ok := s.byModality[m]
		if !ok {
			continue
		}
		if _, disabled := c.(*DisabledCameraClassifier); disabled {
			continue
		}
		out = append(out, m)
	}
	return out
}
