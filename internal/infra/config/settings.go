package config

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// ErrInvalidSettings is returned when free-form strategy settings cannot be
// decoded into their typed config or fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

// DecodeSettings decodes free-form settings (classifier, filter and exporter
// settings) into out, applies `default` tags and validates `validate` tags.
func DecodeSettings(settings map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return errors.Wrapf(ErrInvalidSettings, "decode: %v", err)
	}

	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}

	if err := validator.New().Struct(out); err != nil {
		return errors.Wrapf(ErrInvalidSettings, "validate: %v", err)
	}
	return nil
}
