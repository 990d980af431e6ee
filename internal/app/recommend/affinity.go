package recommend

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/muesli/clusters"

	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/track"
)

// AffinityFunc returns how well a track suits a mood label, in [0,1].
// Implementations must be deterministic.
type AffinityFunc func(label mood.Label, t track.Track) float64

// anchors place each label in (energy, valence) space.
var anchors = map[mood.Label]clusters.Coordinates{
	mood.Happy:      {0.75, 0.90},
	mood.Sad:        {0.25, 0.15},
	mood.Angry:      {0.90, 0.20},
	mood.Calm:       {0.20, 0.60},
	mood.Anxious:    {0.70, 0.30},
	mood.Energetic:  {0.95, 0.70},
	mood.Romantic:   {0.40, 0.75},
	mood.Nostalgic:  {0.35, 0.50},
	mood.Melancholy: {0.30, 0.25},
	mood.Excited:    {0.90, 0.85},
	mood.Intense:    {0.85, 0.35},
}

// maxDistance is the diagonal of the unit square.
var maxDistance = math.Sqrt2

// Anchor returns the (energy, valence) point of label.
func Anchor(label mood.Label) (clusters.Coordinates, bool) {
	a, ok := anchors[label]
	return a, ok
}

// VectorAffinity scores a track by its distance to the label's anchor.
func VectorAffinity(label mood.Label, t track.Track) float64 {
	anchor, ok := anchors[label]
	if !ok {
		return 0
	}
	point := clusters.Coordinates{t.Energy, t.Valence}
	// Distance returns the squared euclidean distance.
	d := math.Sqrt(anchor.Distance(point))
	return clamp01(1 - d/maxDistance)
}

// SeededAffinity returns a pseudo-random but stable affinity derived from
// the seed, the label and the track id.
func SeededAffinity(seed int64) AffinityFunc {
	return func(label mood.Label, t track.Track) float64 {
		h := fnv.New64a()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(seed))
		_, _ = h.Write(buf[:])
		_, _ = h.Write([]byte(label))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(t.ID))
		return float64(h.Sum64()>>11) / (1 << 53)
	}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
