// Package recommend ranks catalog tracks against a mood sample.
package recommend

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/app/filter"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/config"
)

const (
	// MinScore is the lowest mood match score a ranked track can carry.
	MinScore = 70.0
	// MaxScore is the highest mood match score.
	MaxScore = 100.0
)

// Engine ranks catalog tracks for a mood sample.
type Engine struct {
	catalog  track.Catalog
	chain    *filter.Chain
	affinity AffinityFunc
	latency  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithChain sets the filter chain applied before scoring.
func WithChain(chain *filter.Chain) Option {
	return func(e *Engine) {
		e.chain = chain
	}
}

// WithAffinity sets the affinity strategy.
func WithAffinity(fn AffinityFunc) Option {
	return func(e *Engine) {
		e.affinity = fn
	}
}

// WithLatency sets a simulated fetch latency.
func WithLatency(d time.Duration) Option {
	return func(e *Engine) {
		e.latency = d
	}
}

// New creates an engine over catalog. Defaults: no filters, vector affinity, no latency.
func New(catalog track.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		chain:    filter.NewChain(),
		affinity: VectorAffinity,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromConfig creates an engine from the recommend config section.
func NewFromConfig(cfg *config.Config, catalog track.Catalog) (*Engine, error) {
	chain, err := filter.NewChainFromConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build filter chain")
	}

	var affinity AffinityFunc
	switch cfg.Recommend.Strategy {
	case "", "vector":
		affinity = VectorAffinity
	case "seeded":
		affinity = SeededAffinity(cfg.Recommend.Seed)
	default:
		return nil, errors.Newf("unknown recommend strategy: %s", cfg.Recommend.Strategy)
	}

	zlog.Info().Msgf("recommend: strategy=%s filters=%d latency=%dms",
		cfg.Recommend.Strategy, len(chain.Filters()), cfg.Recommend.LatencyMs)

	return New(catalog,
		WithChain(chain),
		WithAffinity(affinity),
		WithLatency(time.Duration(cfg.Recommend.LatencyMs)*time.Millisecond),
	), nil
}

// Recommend returns catalog tracks that pass the genre selection and the
// configured filters, ranked by mood match score.
// An empty result is not an error.
func (e *Engine) Recommend(ctx context.Context, sample mood.Sample, genres []string) ([]track.RankedTrack, error) {
	if !sample.Label.IsValid() {
		return nil, errors.Wrapf(mood.ErrUnknownLabel, "label %q", sample.Label)
	}

	if e.latency > 0 {
		timer := time.NewTimer(e.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	chain := e.chain
	if len(genres) > 0 {
		chain = chain.With(filter.NewGenreFilter(genres))
	}
	candidates := chain.Apply(ctx, e.catalog.All())

	ranked := make([]track.RankedTrack, 0, len(candidates))
	for _, t := range candidates {
		ranked = append(ranked, track.RankedTrack{
			Track:          t,
			MoodMatchScore: Score(e.affinity(sample.Label, t), sample.Confidence),
		})
	}
	Sort(ranked)

	zlog.Debug().Msgf("recommend: mood=%s genres=%v candidates=%d", sample.Label, genres, len(ranked))
	return ranked, nil
}

// Genres returns the sorted set of genres present in the catalog.
func (e *Engine) Genres() []string {
	seen := make(map[string]struct{})
	for _, t := range e.catalog.All() {
		for _, g := range t.Genres {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Score maps an affinity and a sample confidence to a mood match score in
// [MinScore, MaxScore], rounded to one decimal.
func Score(affinity, confidence float64) float64 {
	weight := 0.5 + 0.5*mood.ClampConfidence(confidence)
	score := MinScore + (MaxScore-MinScore)*clamp01(affinity)*weight
	score = math.Round(score*10) / 10
	return math.Max(MinScore, math.Min(MaxScore, score))
}

// Sort orders ranked tracks by score descending, then track id ascending in
// natural order (track-2 before track-10).
func Sort(ranked []track.RankedTrack) {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MoodMatchScore != ranked[j].MoodMatchScore {
			return ranked[i].MoodMatchScore > ranked[j].MoodMatchScore
		}
		return track.CompareIDs(ranked[i].Track.ID, ranked[j].Track.ID) < 0
	})
}
