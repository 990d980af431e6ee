package classifier

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/infra/config"
)

// cameraOutcome is one possible mock detection.
type cameraOutcome struct {
	label      mood.Label
	confidence float64
}

var mockCameraOutcomes = []cameraOutcome{
	{mood.Happy, 0.92},
	{mood.Calm, 0.87},
	{mood.Excited, 0.94},
	{mood.Melancholy, 0.78},
	{mood.Energetic, 0.89},
}

// MockCameraConfig represents the settings of the mock camera classifier.
type MockCameraConfig struct {
	LatencyMs int   `mapstructure:"latency_ms" validate:"gte=0,lte=60000"`
	Seed      int64 `mapstructure:"seed"`
}

// MockCameraClassifier stands in for a facial emotion model.
// It draws one outcome from a fixed table after a simulated inference delay.
type MockCameraClassifier struct {
	config MockCameraConfig
	random RandomSource
	now    func() time.Time
}

// NewMockCameraClassifier creates the mock camera strategy from raw settings.
func NewMockCameraClassifier(settings map[string]any) (*MockCameraClassifier, error) {
	var cfg MockCameraConfig
	if err := config.DecodeSettings(settings, &cfg); err != nil {
		return nil, err
	}
	zlog.Debug().Msgf("mock camera classifier config: %+v", cfg)
	return &MockCameraClassifier{
		config: cfg,
		random: NewSeededSource(cfg.Seed),
		now:    time.Now,
	}, nil
}

// WithRandomSource replaces the outcome randomness.
func (c *MockCameraClassifier) WithRandomSource(src RandomSource) *MockCameraClassifier {
	c.random = src
	return c
}

func (c *MockCameraClassifier) Name() string {
	return "mock"
}

func (c *MockCameraClassifier) Modality() mood.Modality {
	return mood.ModalityCamera
}

func (c *MockCameraClassifier) Classify(ctx context.Context, in Input) (mood.Sample, error) {
	if err := wait(ctx, time.Duration(c.config.LatencyMs)*time.Millisecond); err != nil {
		return mood.Sample{}, err
	}
	outcome := mockCameraOutcomes[c.random.Intn(len(mockCameraOutcomes))]
	return mood.NewSample(mood.ModalityCamera, outcome.label, outcome.confidence, "", c.now())
}

// DisabledCameraClassifier always reports the camera path as unavailable.
type DisabledCameraClassifier struct {
	reason string
}

// NewDisabledCameraClassifier creates a camera strategy that never classifies.
func NewDisabledCameraClassifier(reason string) *DisabledCameraClassifier {
	if reason == "" {
		reason = "camera classification disabled"
	}
	return &DisabledCameraClassifier{reason: reason}
}

func (c *DisabledCameraClassifier) Name() string {
	return "disabled"
}

func (c *DisabledCameraClassifier) Modality() mood.Modality {
	return mood.ModalityCamera
}

func (c *DisabledCameraClassifier) Classify(ctx context.Context, in Input) (mood.Sample, error) {
	return mood.Sample{}, errors.Wrap(ErrClassificationUnavailable, c.reason)
}
