package classifier

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/moodtunes/internal/domain/mood"
)

// EmojiEntry is one selectable glyph of the palette.
type EmojiEntry struct {
	Glyph     string  `json:"glyph"`
	Name      string  `json:"name"`
	Intensity float64 `json:"intensity"`
}

// EmojiCategory groups glyphs under the label they classify to.
type EmojiCategory struct {
	Label  mood.Label   `json:"label"`
	Emojis []EmojiEntry `json:"emojis"`
}

// CategoryAll selects every category of the palette.
const CategoryAll = "all"

// palette is the fixed emoji palette. Some glyphs appear in two categories,
// so (glyph, category) is the lookup key.
var palette = []EmojiCategory{
	{Label: mood.Happy, Emojis: []EmojiEntry{
		{"😊", "happy", 0.8}, {"😄", "joyful", 0.9}, {"🤗", "excited", 0.85},
		{"😆", "cheerful", 0.9}, {"🥳", "celebratory", 0.95}, {"😍", "euphoric", 0.9},
	}},
	{Label: mood.Calm, Emojis: []EmojiEntry{
		{"😌", "peaceful", 0.8}, {"🧘", "meditative", 0.85}, {"😇", "serene", 0.8},
		{"🤲", "zen", 0.9}, {"💆", "relaxed", 0.75}, {"🌸", "tranquil", 0.8},
	}},
	{Label: mood.Energetic, Emojis: []EmojiEntry{
		{"⚡", "energetic", 0.9}, {"🔥", "fired up", 0.95}, {"💪", "powerful", 0.9},
		{"🚀", "motivated", 0.85}, {"⭐", "dynamic", 0.8}, {"🌟", "vibrant", 0.85},
	}},
	{Label: mood.Romantic, Emojis: []EmojiEntry{
		{"💕", "loving", 0.9}, {"💖", "romantic", 0.85}, {"🥰", "affectionate", 0.8},
		{"💝", "tender", 0.75}, {"🌹", "passionate", 0.9}, {"💐", "sweet", 0.7},
	}},
	{Label: mood.Melancholy, Emojis: []EmojiEntry{
		{"😔", "melancholy", 0.7}, {"🌧️", "gloomy", 0.75}, {"🍂", "nostalgic", 0.8},
		{"🌙", "contemplative", 0.7}, {"💭", "reflective", 0.75}, {"🌊", "wistful", 0.8},
	}},
	{Label: mood.Intense, Emojis: []EmojiEntry{
		{"😤", "determined", 0.85}, {"🔥", "intense", 0.9}, {"💥", "explosive", 0.95},
		{"⚡", "electric", 0.9}, {"🌪️", "turbulent", 0.85}, {"🎯", "focused", 0.8},
	}},
}

// Palette returns a copy of the emoji palette in display order.
func Palette() []EmojiCategory {
	out := make([]EmojiCategory, len(palette))
	for i, c := range palette {
		out[i] = EmojiCategory{Label: c.Label, Emojis: append([]EmojiEntry(nil), c.Emojis...)}
	}
	return out
}

// LookupEmoji finds glyph within category. An empty category or "all"
// searches the categories in palette order and returns the first hit.
func LookupEmoji(glyph, category string) (mood.Label, EmojiEntry, error) {
	for _, c := range palette {
		if category != "" && category != CategoryAll && string(c.Label) != category {
			continue
		}
		for _, e := range c.Emojis {
			if e.Glyph == glyph {
				return c.Label, e, nil
			}
		}
	}
	return "", EmojiEntry{}, errors.Wrapf(ErrUnknownEmoji, "glyph %q in category %q", glyph, category)
}

// EmojiClassifier maps palette selections directly to samples.
type EmojiClassifier struct {
	now func() time.Time
}

// NewEmojiClassifier creates a palette classifier. It takes no settings.
func NewEmojiClassifier() *EmojiClassifier {
	return &EmojiClassifier{now: time.Now}
}

func (c *EmojiClassifier) Name() string {
	return "palette"
}

func (c *EmojiClassifier) Modality() mood.Modality {
	return mood.ModalityEmoji
}

// Classify looks up the glyph; confidence is the entry's intensity.
func (c *EmojiClassifier) Classify(ctx context.Context, in Input) (mood.Sample, error) {
	if err := ctx.Err(); err != nil {
		return mood.Sample{}, err
	}
	label, entry, err := LookupEmoji(in.Emoji, in.Category)
	if err != nil {
		return mood.Sample{}, err
	}
	return mood.NewSample(mood.ModalityEmoji, label, entry.Intensity, entry.Glyph, c.now())
}
