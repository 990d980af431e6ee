package sqlite

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/playlist"
)

// PlaylistRepository is a playlist.Repository over the document store.
type PlaylistRepository struct {
	store *Store
}

// Playlists returns the playlist repository.
func (s *Store) Playlists() *PlaylistRepository {
	return &PlaylistRepository{store: s}
}

func (r *PlaylistRepository) Get(ctx context.Context, id string) (*playlist.Playlist, error) {
	body, err := r.store.get(ctx, CollectionPlaylists, id)
	if errors.Is(err, errNoDocument) {
		return nil, playlist.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodePlaylist(body)
}

func (r *PlaylistRepository) Save(ctx context.Context, p *playlist.Playlist) error {
	if p.SchemaVersion == 0 {
		p.SchemaVersion = playlist.SchemaVersion
	}
	body, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "failed to encode playlist")
	}
	return r.store.put(ctx, CollectionPlaylists, p.ID, p.SchemaVersion, body)
}

func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	err := r.store.delete(ctx, CollectionPlaylists, id)
	if errors.Is(err, errNoDocument) {
		return playlist.ErrNotFound
	}
	return err
}

// List returns all playlists ordered by ID.
func (r *PlaylistRepository) List(ctx context.Context) ([]*playlist.Playlist, error) {
	bodies, err := r.store.list(ctx, CollectionPlaylists)
	if err != nil {
		return nil, err
	}
	out := make([]*playlist.Playlist, 0, len(bodies))
	for _, body := range bodies {
		p, err := decodePlaylist(body)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodePlaylist(body []byte) (*playlist.Playlist, error) {
	var p playlist.Playlist
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.Wrap(err, "failed to decode playlist")
	}
	if p.Tracks == nil {
		p.Tracks = []string{}
	}
	return &p, nil
}

// JobRepository is an export.Repository over the document store.
type JobRepository struct {
	store *Store
}

// Jobs returns the export job repository.
func (s *Store) Jobs() *JobRepository {
	return &JobRepository{store: s}
}

func (r *JobRepository) Get(ctx context.Context, id string) (*export.Job, error) {
	body, err := r.store.get(ctx, CollectionJobs, id)
	if errors.Is(err, errNoDocument) {
		return nil, export.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	var job export.Job
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, errors.Wrap(err, "failed to decode export job")
	}
	return &job, nil
}

func (r *JobRepository) Save(ctx context.Context, job *export.Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "failed to encode export job")
	}
	return r.store.put(ctx, CollectionJobs, job.ID, 1, body)
}

// List returns all jobs ordered by start time, then ID.
func (r *JobRepository) List(ctx context.Context) ([]*export.Job, error) {
	bodies, err := r.store.list(ctx, CollectionJobs)
	if err != nil {
		return nil, err
	}
	out := make([]*export.Job, 0, len(bodies))
	for _, body := range bodies {
		var job export.Job
		if err := json.Unmarshal(body, &job); err != nil {
			return nil, errors.Wrap(err, "failed to decode export job")
		}
		out = append(out, &job)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	err := r.store.delete(ctx, CollectionJobs, id)
	if errors.Is(err, errNoDocument) {
		return export.ErrJobNotFound
	}
	return err
}

// KV is a key-value store of JSON documents over the document store.
type KV struct {
	store *Store
}

// KV returns the key-value store.
func (s *Store) KV() *KV {
	return &KV{store: s}
}

// Get returns the value for key and whether it exists.
func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := k.store.get(ctx, CollectionKV, key)
	if errors.Is(err, errNoDocument) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Set stores value under key.
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	return k.store.put(ctx, CollectionKV, key, 1, value)
}

// Delete removes key. Missing keys are ignored.
func (k *KV) Delete(ctx context.Context, key string) error {
	err := k.store.delete(ctx, CollectionKV, key)
	if errors.Is(err, errNoDocument) {
		return nil
	}
	return err
}
