// Package playlist provides the playlist store: CRUD and queries over playlists.
package playlist

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/playlist"
	"github.com/osa030/moodtunes/internal/domain/track"
)

// ErrValidation marks bad input such as an empty name.
var ErrValidation = errors.New("validation error")

// Sort keys accepted by List.
const (
	SortRecent     = "recent"
	SortName       = "name"
	SortTrackCount = "trackCount"
	SortDuration   = "duration"
)

// Query filters and orders List results.
type Query struct {
	Mood   string // exact label; "" or "all" matches any
	Search string // case-insensitive substring of name or mood
	Sort   string // recent (default), name, trackCount, duration
}

type fields struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
}

// Store serializes playlist mutations over a repository.
type Store struct {
	mu       sync.Mutex
	repo     playlist.Repository
	catalog  track.Catalog
	validate *validator.Validate
	now      func() time.Time
}

// NewStore creates a store.
func NewStore(repo playlist.Repository, catalog track.Catalog) *Store {
	return &Store{
		repo:     repo,
		catalog:  catalog,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Create creates a playlist with a fresh ID.
func (s *Store) Create(ctx context.Context, name, description string, label mood.Label, trackIDs []string) (playlist.View, error) {
	name = strings.TrimSpace(name)
	if err := s.validateFields(name, description); err != nil {
		return playlist.View{}, err
	}
	if !label.IsValid() {
		return playlist.View{}, errors.Wrapf(ErrValidation, "unknown mood %q", label)
	}
	tracks, err := s.resolveTracks(nil, trackIDs)
	if err != nil {
		return playlist.View{}, err
	}

	p := &playlist.Playlist{
		SchemaVersion: playlist.SchemaVersion,
		ID:            uuid.New().String(),
		Name:          name,
		Description:   description,
		Mood:          label,
		Tracks:        tracks,
		CreatedAt:     s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, p); err != nil {
		return playlist.View{}, errors.Wrap(err, "failed to save playlist")
	}
	zlog.Info().Msgf("playlist: created id=%s name=%q mood=%s tracks=%d", p.ID, p.Name, p.Mood, len(p.Tracks))
	return playlist.NewView(p.Clone(), s.catalog), nil
}

// Get returns a playlist.
func (s *Store) Get(ctx context.Context, id string) (playlist.View, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return playlist.View{}, err
	}
	return playlist.NewView(p, s.catalog), nil
}

// Rename changes the name.
func (s *Store) Rename(ctx context.Context, id, name string) (playlist.View, error) {
	name = strings.TrimSpace(name)
	return s.update(ctx, id, func(p *playlist.Playlist) error {
		if err := s.validateFields(name, p.Description); err != nil {
			return err
		}
		p.Name = name
		return nil
	})
}

// UpdateDescription changes the description.
func (s *Store) UpdateDescription(ctx context.Context, id, description string) (playlist.View, error) {
	return s.update(ctx, id, func(p *playlist.Playlist) error {
		if err := s.validateFields(p.Name, description); err != nil {
			return err
		}
		p.Description = description
		return nil
	})
}

// AddTracks appends tracks. Tracks already present are ignored.
func (s *Store) AddTracks(ctx context.Context, id string, trackIDs []string) (playlist.View, error) {
	return s.update(ctx, id, func(p *playlist.Playlist) error {
		tracks, err := s.resolveTracks(p.Tracks, trackIDs)
		if err != nil {
			return err
		}
		p.Tracks = tracks
		return nil
	})
}

// RemoveTracks removes tracks. IDs not in the playlist are ignored.
func (s *Store) RemoveTracks(ctx context.Context, id string, trackIDs []string) (playlist.View, error) {
	drop := make(map[string]bool, len(trackIDs))
	for _, t := range trackIDs {
		drop[t] = true
	}
	return s.update(ctx, id, func(p *playlist.Playlist) error {
		kept := make([]string, 0, len(p.Tracks))
		for _, t := range p.Tracks {
			if !drop[t] {
				kept = append(kept, t)
			}
		}
		p.Tracks = kept
		return nil
	})
}

// Reorder moves trackID to newIndex, clamped to the valid range.
// A track not in the playlist leaves it unchanged.
func (s *Store) Reorder(ctx context.Context, id, trackID string, newIndex int) (playlist.View, error) {
	return s.update(ctx, id, func(p *playlist.Playlist) error {
		from := p.IndexOf(trackID)
		if from < 0 {
			return nil
		}
		p.Tracks = playlist.Move(p.Tracks, from, newIndex)
		return nil
	})
}

// MarkExported records a successful export to target.
func (s *Store) MarkExported(ctx context.Context, id string, target export.Target) (playlist.View, error) {
	return s.update(ctx, id, func(p *playlist.Playlist) error {
		p.MarkExported(target)
		return nil
	})
}

// MarkPlayed sets the last played time.
func (s *Store) MarkPlayed(ctx context.Context, id string, at time.Time) (playlist.View, error) {
	return s.update(ctx, id, func(p *playlist.Playlist) error {
		p.LastPlayedAt = &at
		return nil
	})
}

// Delete removes a playlist permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	zlog.Info().Msgf("playlist: deleted id=%s", id)
	return nil
}

// BulkDelete removes every playlist in ids. If any ID is unknown nothing
// is deleted.
func (s *Store) BulkDelete(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return 0, err
		}
	}

	deleted := 0
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := s.repo.Delete(ctx, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	zlog.Info().Msgf("playlist: bulk deleted count=%d", deleted)
	return deleted, nil
}

// List returns the playlists matching q in the requested order.
func (s *Store) List(ctx context.Context, q Query) ([]playlist.View, error) {
	less, err := lessFunc(q.Sort)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list playlists")
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	views := make([]playlist.View, 0, len(all))
	for _, p := range all {
		if q.Mood != "" && q.Mood != "all" && string(p.Mood) != q.Mood {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(string(p.Mood)), search) {
			continue
		}
		views = append(views, playlist.NewView(p, s.catalog))
	}

	sort.SliceStable(views, func(i, j int) bool {
		if c := less(views[i], views[j]); c != 0 {
			return c < 0
		}
		return views[i].ID < views[j].ID
	})
	return views, nil
}

// update loads a playlist, applies fn to a copy and saves it.
func (s *Store) update(ctx context.Context, id string, fn func(p *playlist.Playlist) error) (playlist.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return playlist.View{}, err
	}

	p := stored.Clone()
	if err := fn(p); err != nil {
		return playlist.View{}, err
	}
	p.SchemaVersion = playlist.SchemaVersion

	if err := s.repo.Save(ctx, p); err != nil {
		return playlist.View{}, errors.Wrap(err, "failed to save playlist")
	}
	return playlist.NewView(p, s.catalog), nil
}

func (s *Store) validateFields(name, description string) error {
	if err := s.validate.Struct(fields{Name: name, Description: description}); err != nil {
		return errors.Wrapf(ErrValidation, "invalid playlist: %v", err)
	}
	return nil
}

// resolveTracks appends the catalog-known ids in add to existing, skipping duplicates.
func (s *Store) resolveTracks(existing, add []string) ([]string, error) {
	out := append([]string{}, existing...)
	seen := make(map[string]bool, len(existing)+len(add))
	for _, id := range existing {
		seen[id] = true
	}
	for _, id := range add {
		if _, ok := s.catalog.Get(id); !ok {
			return nil, errors.Wrapf(ErrValidation, "unknown track %q", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// lessFunc returns a three-way comparison for the sort key.
func lessFunc(key string) (func(a, b playlist.View) int, error) {
	switch key {
	case "", SortRecent:
		return func(a, b playlist.View) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}, nil
	case SortName:
		return func(a, b playlist.View) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}, nil
	case SortTrackCount:
		return func(a, b playlist.View) int {
			return b.TrackCount - a.TrackCount
		}, nil
	case SortDuration:
		return func(a, b playlist.View) int {
			return b.DurationSeconds - a.DurationSeconds
		}, nil
	default:
		return nil, errors.Wrapf(ErrValidation, "unknown sort key %q", key)
	}
}
