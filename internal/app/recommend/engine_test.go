package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/moodtunes/internal/app/filter"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/catalog"
	"github.com/osa030/moodtunes/internal/infra/config"
)

func sample(t *testing.T, label mood.Label, confidence float64) mood.Sample {
	t.Helper()
	s, err := mood.NewSample(mood.ModalityText, label, confidence, "", time.Unix(0, 0))
	require.NoError(t, err)
	return s
}

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		affinity   float64
		confidence float64
		want       float64
	}{
		{name: "zero affinity", affinity: 0, confidence: 1, want: 70},
		{name: "full affinity full confidence", affinity: 1, confidence: 1, want: 100},
		{name: "full affinity zero confidence", affinity: 1, confidence: 0, want: 85},
		{name: "rounded to one decimal", affinity: 0.333, confidence: 1, want: 80},
		{name: "affinity above range", affinity: 3, confidence: 1, want: 100},
		{name: "negative affinity", affinity: -1, confidence: 1, want: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.affinity, tt.confidence), 1e-9)
		})
	}
}

func TestVectorAffinity(t *testing.T) {
	near := track.Track{ID: "near", Energy: 0.75, Valence: 0.9}
	far := track.Track{ID: "far", Energy: 0.25, Valence: 0.15}

	assert.InDelta(t, 1.0, VectorAffinity(mood.Happy, near), 1e-9)
	assert.Greater(t, VectorAffinity(mood.Happy, near), VectorAffinity(mood.Happy, far))
	assert.Greater(t, VectorAffinity(mood.Sad, far), VectorAffinity(mood.Sad, near))
	assert.Zero(t, VectorAffinity(mood.Label("bored"), near))

	for _, label := range mood.Vocabulary() {
		_, ok := Anchor(label)
		assert.True(t, ok, "missing anchor for %s", label)
	}
}

func TestSeededAffinity(t *testing.T) {
	tr := track.Track{ID: "track-1"}

	a := SeededAffinity(42)
	assert.Equal(t, a(mood.Happy, tr), a(mood.Happy, tr))
	assert.GreaterOrEqual(t, a(mood.Happy, tr), 0.0)
	assert.Less(t, a(mood.Happy, tr), 1.0)
	assert.NotEqual(t, a(mood.Happy, tr), SeededAffinity(7)(mood.Happy, tr))
}

func TestEngine_Recommend_Idempotent(t *testing.T) {
	strategies := map[string]AffinityFunc{
		"vector": VectorAffinity,
		"seeded": SeededAffinity(42),
	}

	for name, fn := range strategies {
		t.Run(name, func(t *testing.T) {
			e := New(catalog.Default(), WithAffinity(fn))
			s := sample(t, mood.Calm, 0.8)

			first, err := e.Recommend(context.Background(), s, []string{"indie", "acoustic"})
			require.NoError(t, err)
			second, err := e.Recommend(context.Background(), s, []string{"indie", "acoustic"})
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

func TestEngine_Recommend_Sorted(t *testing.T) {
	e := New(catalog.Default(), WithAffinity(SeededAffinity(1)))

	for _, label := range mood.Vocabulary() {
		ranked, err := e.Recommend(context.Background(), sample(t, label, 0.7), nil)
		require.NoError(t, err)
		require.Len(t, ranked, 12)

		for i := 1; i < len(ranked); i++ {
			prev, cur := ranked[i-1], ranked[i]
			assert.GreaterOrEqual(t, prev.MoodMatchScore, cur.MoodMatchScore)
			if prev.MoodMatchScore == cur.MoodMatchScore {
				assert.Negative(t, track.CompareIDs(prev.Track.ID, cur.Track.ID))
			}
		}
		for _, r := range ranked {
			assert.GreaterOrEqual(t, r.MoodMatchScore, MinScore)
			assert.LessOrEqual(t, r.MoodMatchScore, MaxScore)
		}
	}
}

func TestEngine_Recommend_TieBreakByID(t *testing.T) {
	flat := func(mood.Label, track.Track) float64 { return 0.5 }
	c := catalog.New([]track.Track{{ID: "b"}, {ID: "c"}, {ID: "a"}})

	ranked, err := New(c, WithAffinity(flat)).Recommend(context.Background(), sample(t, mood.Happy, 1), nil)
	require.NoError(t, err)

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.Track.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestEngine_Recommend_TieBreakNumericIDs(t *testing.T) {
	flat := func(mood.Label, track.Track) float64 { return 0.5 }
	c := catalog.New([]track.Track{{ID: "track-10"}, {ID: "track-2"}, {ID: "track-1"}, {ID: "track-12"}})

	ranked, err := New(c, WithAffinity(flat)).Recommend(context.Background(), sample(t, mood.Calm, 1), nil)
	require.NoError(t, err)

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.Track.ID)
	}
	assert.Equal(t, []string{"track-1", "track-2", "track-10", "track-12"}, ids)
}

func TestEngine_Recommend_VectorPrefersNearbyTracks(t *testing.T) {
	e := New(catalog.Default())

	happy, err := e.Recommend(context.Background(), sample(t, mood.Happy, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, "track-1", happy[0].Track.ID)

	sad, err := e.Recommend(context.Background(), sample(t, mood.Sad, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, "track-8", sad[0].Track.ID)
}

func TestEngine_Recommend_GenreFilter(t *testing.T) {
	e := New(catalog.Default())

	tests := []struct {
		name    string
		genres  []string
		wantIDs []string
	}{
		{name: "metal only", genres: []string{"metal"}, wantIDs: []string{"track-9"}},
		{name: "jazz or reggae", genres: []string{"jazz", "reggae"}, wantIDs: []string{"track-10", "track-6"}},
		{name: "unknown genre", genres: []string{"polka"}, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := e.Recommend(context.Background(), sample(t, mood.Calm, 0.5), tt.genres)
			require.NoError(t, err)

			ids := make([]string, 0, len(ranked))
			for _, r := range ranked {
				ids = append(ids, r.Track.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestEngine_Recommend_ConfiguredFilters(t *testing.T) {
	excl := filter.NewExcludeFilter([]track.Track{{ID: "track-9", Title: "Iron Pulse", Artist: "Steel Horizon"}})
	e := New(catalog.Default(), WithChain(filter.NewChain(excl)))

	ranked, err := e.Recommend(context.Background(), sample(t, mood.Angry, 1), []string{"metal", "rock"})
	require.NoError(t, err)
	for _, r := range ranked {
		assert.NotEqual(t, "track-9", r.Track.ID)
	}
	assert.Len(t, ranked, 2)
}

func TestEngine_Recommend_Cancelled(t *testing.T) {
	e := New(catalog.Default(), WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Recommend(ctx, sample(t, mood.Happy, 1), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Recommend_InvalidLabel(t *testing.T) {
	e := New(catalog.Default())
	_, err := e.Recommend(context.Background(), mood.Sample{Label: "bored"}, nil)
	assert.ErrorIs(t, err, mood.ErrUnknownLabel)
}

func TestEngine_Genres(t *testing.T) {
	genres := New(catalog.Default()).Genres()
	assert.Contains(t, genres, "pop")
	assert.IsIncreasing(t, genres)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Recommend.LatencyMs = 0
	cfg.Recommend.Strategy = "seeded"

	e, err := NewFromConfig(cfg, catalog.Default())
	require.NoError(t, err)

	ranked, err := e.Recommend(context.Background(), sample(t, mood.Excited, 0.9), nil)
	require.NoError(t, err)
	assert.Len(t, ranked, 12)

	cfg.Recommend.Strategy = "random"
	_, err = NewFromConfig(cfg, catalog.Default())
	assert.Error(t, err)
}
