// Package mood provides the MoodSample domain entity and the shared label vocabulary.
package mood

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Label is a mood label drawn from the closed vocabulary.
type Label string

const (
	Happy      Label = "happy"
	Sad        Label = "sad"
	Angry      Label = "angry"
	Calm       Label = "calm"
	Anxious    Label = "anxious"
	Energetic  Label = "energetic"
	Romantic   Label = "romantic"
	Nostalgic  Label = "nostalgic"
	Melancholy Label = "melancholy"
	Excited    Label = "excited"
	Intense    Label = "intense"
)

// vocabulary lists every known label in a stable order.
var vocabulary = []Label{
	Happy, Sad, Angry, Calm, Anxious, Energetic,
	Romantic, Nostalgic, Melancholy, Excited, Intense,
}

// ErrUnknownLabel is returned when a label is not part of the vocabulary.
var ErrUnknownLabel = errors.New("unknown mood label")

// Vocabulary returns a copy of the closed label vocabulary.
func Vocabulary() []Label {
	out := make([]Label, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// ParseLabel normalizes s and checks it against the vocabulary.
func ParseLabel(s string) (Label, error) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", errors.Wrapf(ErrUnknownLabel, "label %q", s)
	}
	return l, nil
}

// IsValid reports whether the label belongs to the vocabulary.
func (l Label) IsValid() bool {
	for _, v := range vocabulary {
		if v == l {
			return true
		}
	}
	return false
}

// String returns the label text.
func (l Label) String() string {
	return string(l)
}

// Modality is the input channel a sample was obtained from.
type Modality string

const (
	ModalityText   Modality = "text"
	ModalityEmoji  Modality = "emoji"
	ModalityCamera Modality = "camera"
)

// IsValid reports whether m is a known modality.
func (m Modality) IsValid() bool {
	switch m {
	case ModalityText, ModalityEmoji, ModalityCamera:
		return true
	default:
		return false
	}
}

// Sample is a single detected mood. Values are immutable once created.
type Sample struct {
	Modality   Modality  `json:"modality"`
	Label      Label     `json:"label"`
	Confidence float64   `json:"confidence"` // always within [0,1]
	RawInput   string    `json:"raw_input,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// NewSample creates a sample, clamping confidence into [0,1].
func NewSample(modality Modality, label Label, confidence float64, rawInput string, capturedAt time.Time) (Sample, error) {
	if !modality.IsValid() {
		return Sample{}, errors.Newf("unknown modality %q", modality)
	}
	if !label.IsValid() {
		return Sample{}, errors.Wrapf(ErrUnknownLabel, "label %q", label)
	}
	return Sample{
		Modality:   modality,
		Label:      label,
		Confidence: ClampConfidence(confidence),
		RawInput:   rawInput,
		CapturedAt: capturedAt,
	}, nil
}

// ClampConfidence bounds c to [0,1].
func ClampConfidence(c float64) float64 {
	if c < 0 || c != c {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
