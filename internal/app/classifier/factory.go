package classifier

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/infra/config"
)

// NewSetFromConfig creates one strategy per modality from configuration.
// An empty type selects the default strategy of the modality.
func NewSetFromConfig(cfg *config.Config) (*Set, error) {
	text, err := newTextFromConfig(cfg.Classifiers.Text)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create text classifier (type %s)", cfg.Classifiers.Text.Type)
	}

	emoji, err := newEmojiFromConfig(cfg.Classifiers.Emoji)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create emoji classifier (type %s)", cfg.Classifiers.Emoji.Type)
	}

	camera, err := newCameraFromConfig(cfg.Classifiers.Camera)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create camera classifier (type %s)", cfg.Classifiers.Camera.Type)
	}

	for _, c := range []Classifier{text, emoji, camera} {
		zlog.Info().Msgf("registered classifier: modality=%s type=%s", c.Modality(), c.Name())
	}

	return NewSet(text, emoji, camera), nil
}

func newTextFromConfig(sc config.StrategyConfig) (Classifier, error) {
	switch sc.Type {
	case "keyword", "":
		return NewTextClassifier(sc.Settings)
	default:
		return nil, errors.Newf("unsupported text classifier type: %s", sc.Type)
	}
}

func newEmojiFromConfig(sc config.StrategyConfig) (Classifier, error) {
	switch sc.Type {
	case "palette", "":
		return NewEmojiClassifier(), nil
	default:
		return nil, errors.Newf("unsupported emoji classifier type: %s", sc.Type)
	}
}

func newCameraFromConfig(sc config.StrategyConfig) (Classifier, error) {
	switch sc.Type {
	case "mock", "":
		return NewMockCameraClassifier(sc.Settings)
	case "disabled":
		reason, _ := sc.Settings["reason"].(string)
		return NewDisabledCameraClassifier(reason), nil
	default:
		return nil, errors.Newf("unsupported camera classifier type: %s", sc.Type)
	}
}
