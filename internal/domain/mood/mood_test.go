package mood

import (
	"math"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSample_ClampsConfidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		expected   float64
	}{
		{name: "within range", confidence: 0.42, expected: 0.42},
		{name: "negative", confidence: -0.5, expected: 0},
		{name: "above one", confidence: 1.7, expected: 1},
		{name: "NaN", confidence: math.NaN(), expected: 0},
		{name: "exact bounds", confidence: 1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSample(ModalityText, Happy, tt.confidence, "", time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.Confidence)
		})
	}
}

func TestNewSample_RejectsUnknownValues(t *testing.T) {
	_, err := NewSample(ModalityText, Label("bored"), 0.5, "", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLabel))

	_, err = NewSample(Modality("voice"), Happy, 0.5, "", time.Now())
	assert.Error(t, err)
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Label
		wantErr bool
	}{
		{name: "lowercase", input: "calm", want: Calm},
		{name: "mixed case with spaces", input: "  Nostalgic ", want: Nostalgic},
		{name: "unknown", input: "hungry", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLabel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVocabulary_ReturnsCopy(t *testing.T) {
	v := Vocabulary()
	require.NotEmpty(t, v)
	v[0] = "mutated"
	assert.Equal(t, Happy, Vocabulary()[0])
}
