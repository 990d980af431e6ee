// Package filter provides the filter chain applied to recommendation candidates.
package filter

import (
	"context"
	"sort"

	"github.com/osa030/moodtunes/internal/domain/track"
)

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // e.g., "genre_mismatch", "duration_limit_exceeded", "excluded"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Filter is the interface for candidate filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// Check performs the filter check.
	Check(ctx context.Context, t track.Track) Result
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}

// RegisteredNames returns the registered filter names in sorted order.
func RegisteredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
