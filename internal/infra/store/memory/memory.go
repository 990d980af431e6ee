// Package memory provides in-memory repositories.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/playlist"
)

// PlaylistRepository is an in-memory playlist.Repository.
type PlaylistRepository struct {
	mu        sync.RWMutex
	playlists map[string]*playlist.Playlist
}

// NewPlaylistRepository creates an empty repository.
func NewPlaylistRepository() *PlaylistRepository {
	return &PlaylistRepository{playlists: make(map[string]*playlist.Playlist)}
}

func (r *PlaylistRepository) Get(ctx context.Context, id string) (*playlist.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.playlists[id]
	if !ok {
		return nil, playlist.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *PlaylistRepository) Save(ctx context.Context, p *playlist.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.playlists[p.ID] = p.Clone()
	return nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.playlists[id]; !ok {
		return playlist.ErrNotFound
	}
	delete(r.playlists, id)
	return nil
}

// List returns all playlists ordered by ID.
func (r *PlaylistRepository) List(ctx context.Context) ([]*playlist.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*playlist.Playlist, 0, len(r.playlists))
	for _, p := range r.playlists {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// JobRepository is an in-memory export.Repository.
type JobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*export.Job
}

// NewJobRepository creates an empty repository.
func NewJobRepository() *JobRepository {
	return &JobRepository{jobs: make(map[string]*export.Job)}
}

func (r *JobRepository) Get(ctx context.Context, id string) (*export.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, export.ErrJobNotFound
	}
	return j.Clone(), nil
}

func (r *JobRepository) Save(ctx context.Context, job *export.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[job.ID] = job.Clone()
	return nil
}

// List returns all jobs ordered by start time, then ID.
func (r *JobRepository) List(ctx context.Context) ([]*export.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*export.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return export.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

// KV is an in-memory key-value store of JSON documents.
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKV creates an empty store.
func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

// Get returns the value for key and whether it exists.
func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	v, ok := k.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores value under key.
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key. Missing keys are ignored.
func (k *KV) Delete(ctx context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.data, key)
	return nil
}
