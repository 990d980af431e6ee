package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/domain/track"
	"github.com/osa030/moodtunes/internal/infra/config"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain(filters ...Filter) *Chain {
	return &Chain{
		filters: append(make([]Filter, 0, len(filters)), filters...),
	}
}

// NewChainFromConfig builds a chain of every enabled, registered filter.
func NewChainFromConfig(cfg *config.Config) (*Chain, error) {
	chain := NewChain()
	for _, name := range RegisteredNames() {
		if !cfg.IsFilterEnabled(name) {
			continue
		}
		f := registry[name]()
		if err := f.ValidateConfig(cfg.FilterSettings(name)); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
		zlog.Info().Msgf("enabled recommendation filter: %s", name)
	}

	for name := range cfg.Recommend.Filters {
		if _, ok := registry[name]; !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
	}
	return chain, nil
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// With returns a new chain with extra filters appended. The receiver is unchanged.
func (c *Chain) With(filters ...Filter) *Chain {
	out := NewChain(c.filters...)
	out.filters = append(out.filters, filters...)
	return out
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the track.
func (c *Chain) Execute(ctx context.Context, t track.Track) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, t)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply returns the tracks accepted by every filter, preserving order.
func (c *Chain) Apply(ctx context.Context, tracks []track.Track) []track.Track {
	out := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		if result := c.Execute(ctx, t); result.Accepted {
			out = append(out, t)
		} else {
			zlog.Debug().Msgf("filter: rejected track=%s code=%s", t.ID, result.Code)
		}
	}
	return out
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
