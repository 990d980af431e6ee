package classifier

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/infra/config"
)

// Fallback modes for text without any keyword match.
const (
	FallbackUnclassified = "unclassified"
	FallbackSeeded       = "seeded"
)

// keywordEntry maps a label to the keywords that vote for it.
type keywordEntry struct {
	label    mood.Label
	keywords []string
}

// keywordTable is scanned in declaration order; earlier entries win ties.
var keywordTable = []keywordEntry{
	{mood.Happy, []string{"happy", "joyful", "cheerful", "excited", "elated", "upbeat", "positive", "great", "amazing", "wonderful"}},
	{mood.Sad, []string{"sad", "depressed", "down", "blue", "melancholy", "gloomy", "upset", "disappointed", "heartbroken"}},
	{mood.Angry, []string{"angry", "mad", "furious", "irritated", "annoyed", "frustrated", "rage", "livid", "pissed"}},
	{mood.Calm, []string{"calm", "peaceful", "relaxed", "serene", "tranquil", "zen", "chill", "mellow", "composed"}},
	{mood.Anxious, []string{"anxious", "nervous", "worried", "stressed", "tense", "uneasy", "restless", "panicked"}},
	{mood.Energetic, []string{"energetic", "pumped", "hyper", "active", "lively", "vibrant", "dynamic", "spirited"}},
	{mood.Romantic, []string{"romantic", "loving", "passionate", "intimate", "affectionate", "tender", "sweet"}},
	{mood.Nostalgic, []string{"nostalgic", "reminiscent", "wistful", "sentimental", "reflective", "longing"}},
}

// TextConfig represents the settings of the keyword text classifier.
type TextConfig struct {
	MaxLength int    `mapstructure:"max_length" default:"500" validate:"gte=1,lte=10000"`
	Fallback  string `mapstructure:"fallback" default:"unclassified" validate:"oneof=unclassified seeded"`
	Seed      int64  `mapstructure:"seed"`
	LatencyMs int    `mapstructure:"latency_ms" validate:"gte=0,lte=30000"`
}

// TextClassifier scores text against a fixed keyword table.
type TextClassifier struct {
	config TextConfig
	random RandomSource
	now    func() time.Time
}

// NewTextClassifier creates a keyword classifier from raw settings.
func NewTextClassifier(settings map[string]any) (*TextClassifier, error) {
	var cfg TextConfig
	if err := config.DecodeSettings(settings, &cfg); err != nil {
		return nil, err
	}
	zlog.Debug().Msgf("text classifier config: %+v", cfg)

	c := &TextClassifier{config: cfg, now: time.Now}
	if cfg.Fallback == FallbackSeeded {
		c.random = NewSeededSource(cfg.Seed)
	}
	return c, nil
}

// WithRandomSource replaces the fallback randomness and enables the seeded fallback.
func (c *TextClassifier) WithRandomSource(src RandomSource) *TextClassifier {
	c.random = src
	c.config.Fallback = FallbackSeeded
	return c
}

func (c *TextClassifier) Name() string {
	return "keyword"
}

func (c *TextClassifier) Modality() mood.Modality {
	return mood.ModalityText
}

// Classify picks the label with the most keyword matches.
func (c *TextClassifier) Classify(ctx context.Context, in Input) (mood.Sample, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return mood.Sample{}, errors.Wrap(ErrUnclassified, "empty text")
	}
	if utf8.RuneCountInString(in.Text) > c.config.MaxLength {
		return mood.Sample{}, errors.Wrapf(ErrInputTooLong, "text exceeds %d characters", c.config.MaxLength)
	}

	if err := wait(ctx, time.Duration(c.config.LatencyMs)*time.Millisecond); err != nil {
		return mood.Sample{}, err
	}

	label, matches := MatchKeywords(text)
	if matches > 0 {
		confidence := math.Min(0.95, 0.6+0.1*float64(matches))
		return mood.NewSample(mood.ModalityText, label, confidence, in.Text, c.now())
	}

	if c.config.Fallback != FallbackSeeded || c.random == nil {
		return mood.Sample{}, ErrUnclassified
	}

	label = keywordTable[c.random.Intn(len(keywordTable))].label
	confidence := 0.3 + c.random.Float64()*0.4
	zlog.Debug().Msgf("text classifier: no keyword matched, fallback label=%s confidence=%.2f", label, confidence)
	return mood.NewSample(mood.ModalityText, label, confidence, in.Text, c.now())
}

// MatchKeywords returns the label with the strictly highest number of matching
// keywords and that count. Ties keep the label declared first. Zero matches
// returns an empty label.
func MatchKeywords(text string) (mood.Label, int) {
	lower := strings.ToLower(text)

	var best mood.Label
	maxMatches := 0
	for _, entry := range keywordTable {
		matches := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches > maxMatches {
			maxMatches = matches
			best = entry.label
		}
	}
	return best, maxMatches
}
