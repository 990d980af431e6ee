package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/track"
)

type mapCatalog map[string]track.Track

func (m mapCatalog) Get(id string) (track.Track, bool) {
	t, ok := m[id]
	return t, ok
}

func (m mapCatalog) All() []track.Track {
	return nil
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		seq      []string
		from     int
		to       int
		expected []string
	}{
		{
			name:     "empty sequence",
			seq:      []string{},
			from:     0,
			to:       3,
			expected: []string{},
		},
		{
			name:     "move forward",
			seq:      []string{"a", "b", "c", "d"},
			from:     0,
			to:       2,
			expected: []string{"b", "c", "a", "d"},
		},
		{
			name:     "move backward",
			seq:      []string{"a", "b", "c", "d"},
			from:     3,
			to:       1,
			expected: []string{"a", "d", "b", "c"},
		},
		{
			name:     "same index",
			seq:      []string{"a", "b"},
			from:     1,
			to:       1,
			expected: []string{"a", "b"},
		},
		{
			name:     "target beyond end clamps to last",
			seq:      []string{"a", "b", "c"},
			from:     0,
			to:       99,
			expected: []string{"b", "c", "a"},
		},
		{
			name:     "negative target clamps to first",
			seq:      []string{"a", "b", "c"},
			from:     2,
			to:       -5,
			expected: []string{"c", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]string{}, tt.seq...)
			result := Move(tt.seq, tt.from, tt.to)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, original, tt.seq, "input must not be mutated")
		})
	}
}

func TestPlaylist_MarkExported(t *testing.T) {
	p := &Playlist{ID: "p1"}

	assert.False(t, p.IsExported(export.TargetExternalService))
	p.MarkExported(export.TargetExternalService)
	p.MarkExported(export.TargetExternalService)

	assert.True(t, p.IsExported(export.TargetExternalService))
	assert.Len(t, p.ExportedFlags, 1)
}

func TestNewView(t *testing.T) {
	catalog := mapCatalog{
		"t1": {ID: "t1", DurationSeconds: 200},
		"t2": {ID: "t2", DurationSeconds: 150},
	}

	tests := []struct {
		name             string
		tracks           []string
		expectedCount    int
		expectedDuration int
	}{
		{name: "empty playlist", tracks: []string{}, expectedCount: 0, expectedDuration: 0},
		{name: "single track", tracks: []string{"t2"}, expectedCount: 1, expectedDuration: 150},
		{name: "multiple tracks", tracks: []string{"t1", "t2"}, expectedCount: 2, expectedDuration: 350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(&Playlist{ID: "p", Tracks: tt.tracks}, catalog)
			assert.Equal(t, tt.expectedCount, v.TrackCount)
			assert.Equal(t, tt.expectedDuration, v.DurationSeconds)
		})
	}
}

func TestPlaylist_Clone(t *testing.T) {
	p := &Playlist{ID: "p", Tracks: []string{"a"}, ExportedFlags: []export.Target{export.TargetFileM3U}}
	c := p.Clone()
	c.Tracks[0] = "changed"
	c.ExportedFlags[0] = export.TargetFileJSON

	assert.Equal(t, "a", p.Tracks[0])
	assert.Equal(t, export.TargetFileM3U, p.ExportedFlags[0])
}
