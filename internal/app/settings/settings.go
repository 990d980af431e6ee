// Package settings provides the persisted user settings blob.
package settings

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	zlog "github.com/rs/zerolog/log"
)

// Key is the KV key the settings blob is stored under.
const Key = "moodtunes-settings"

// SchemaVersion is the version written into the stored blob.
const SchemaVersion = 1

// ErrInvalid marks settings that fail validation.
var ErrInvalid = errors.New("invalid settings")

// KV is a key-value store of JSON documents.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Settings is the user settings blob.
type Settings struct {
	SchemaVersion    int              `json:"schema_version"`
	Privacy          Privacy          `json:"privacy"`
	MusicPreferences MusicPreferences `json:"musicPreferences"`
	Notifications    Notifications    `json:"notifications"`
	Advanced         Advanced         `json:"advanced"`
}

// Privacy holds data and camera consent flags.
type Privacy struct {
	AllowFacialRecognition bool   `json:"allowFacialRecognition" default:"true"`
	StoreBiometricData     bool   `json:"storeBiometricData"`
	ShareAnonymousData     bool   `json:"shareAnonymousData" default:"true"`
	AllowDataAnalytics     bool   `json:"allowDataAnalytics" default:"true"`
	RetainMoodHistory      bool   `json:"retainMoodHistory" default:"true"`
	DataRetentionPeriod    string `json:"dataRetentionPeriod" default:"12months" validate:"oneof=1month 3months 6months 12months indefinite"`
}

// MusicPreferences holds recommendation preferences.
type MusicPreferences struct {
	DefaultGenres             []string `json:"defaultGenres" default:"[\"pop\",\"rock\",\"electronic\"]"`
	ExplicitContent           bool     `json:"explicitContent"`
	RecommendationSensitivity string   `json:"recommendationSensitivity" default:"medium" validate:"oneof=low medium high"`
	AutoPlayPreview           bool     `json:"autoPlayPreview" default:"true"`
	CrossfadeEnabled          bool     `json:"crossfadeEnabled"`
	VolumeNormalization       bool     `json:"volumeNormalization" default:"true"`
	HighQualityAudio          bool     `json:"highQualityAudio"`
	DiscoverWeeklyStyle       string   `json:"discoverWeeklyStyle" default:"balanced" validate:"oneof=mood-focused balanced discovery-heavy"`
}

// Notifications holds notification preferences.
type Notifications struct {
	EmailNotifications       bool   `json:"emailNotifications" default:"true"`
	PushNotifications        bool   `json:"pushNotifications"`
	WeeklyRecommendations    bool   `json:"weeklyRecommendations" default:"true"`
	NewPlaylistAlerts        bool   `json:"newPlaylistAlerts" default:"true"`
	MoodTrendUpdates         bool   `json:"moodTrendUpdates"`
	SpotifyIntegrationAlerts bool   `json:"spotifyIntegrationAlerts" default:"true"`
	SecurityAlerts           bool   `json:"securityAlerts" default:"true"`
	MarketingEmails          bool   `json:"marketingEmails"`
	NotificationFrequency    string `json:"notificationFrequency" default:"weekly" validate:"oneof=immediate daily weekly monthly"`
	QuietHoursEnabled        bool   `json:"quietHoursEnabled"`
	QuietHoursStart          string `json:"quietHoursStart" default:"22:00" validate:"datetime=15:04"`
	QuietHoursEnd            string `json:"quietHoursEnd" default:"08:00" validate:"datetime=15:04"`
}

// Advanced holds session and accessibility options.
type Advanced struct {
	SessionTimeout       string `json:"sessionTimeout" default:"30" validate:"oneof=15 30 60 120 240 never"`
	OfflineMoodSelection bool   `json:"offlineMoodSelection" default:"true"`
	ReducedMotion        bool   `json:"reducedMotion"`
	HighContrast         bool   `json:"highContrast"`
	ScreenReader         bool   `json:"screenReader"`
	KeyboardNavigation   bool   `json:"keyboardNavigation"`
	AutoSavePreferences  bool   `json:"autoSavePreferences" default:"true"`
	DebugMode            bool   `json:"debugMode"`
	BetaFeatures         bool   `json:"betaFeatures"`
	AnalyticsOptOut      bool   `json:"analyticsOptOut"`
	CacheSize            string `json:"cacheSize" default:"100" validate:"oneof=50 100 200 500"`
	APITimeout           string `json:"apiTimeout" default:"10" validate:"oneof=5 10 15 30"`
}

// Default returns the settings every new user starts with.
func Default() Settings {
	var s Settings
	_ = defaults.Set(&s)
	s.SchemaVersion = SchemaVersion
	return s
}

// Validate validates the settings.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return errors.Wrapf(ErrInvalid, "%v", err)
	}
	return nil
}

// Service reads and writes the settings blob.
type Service struct {
	kv KV
}

// NewService creates a settings service.
func NewService(kv KV) *Service {
	return &Service{kv: kv}
}

// Get returns the stored settings layered over the defaults.
// Unreadable blobs fall back to the defaults.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	out := Default()

	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return out, errors.Wrap(err, "failed to read settings")
	}
	if !ok {
		return out, nil
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		zlog.Warn().Msgf("settings: ignoring unreadable blob: %v", err)
		return Default(), nil
	}
	if out.SchemaVersion > SchemaVersion {
		zlog.Warn().Msgf("settings: blob schema_version=%d is newer than %d", out.SchemaVersion, SchemaVersion)
	}
	out.SchemaVersion = SchemaVersion
	return out, nil
}

// Save validates and stores the settings.
func (s *Service) Save(ctx context.Context, settings Settings) (Settings, error) {
	settings.SchemaVersion = SchemaVersion
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return Settings{}, errors.Wrap(err, "failed to encode settings")
	}
	if err := s.kv.Set(ctx, Key, raw); err != nil {
		return Settings{}, errors.Wrap(err, "failed to write settings")
	}
	zlog.Info().Msg("settings: saved")
	return settings, nil
}

// Reset removes the stored blob and returns the defaults.
func (s *Service) Reset(ctx context.Context) (Settings, error) {
	if err := s.kv.Delete(ctx, Key); err != nil {
		return Settings{}, errors.Wrap(err, "failed to reset settings")
	}
	return Default(), nil
}

// AllowFacialRecognition reports whether camera classification is permitted.
func (s *Service) AllowFacialRecognition(ctx context.Context) bool {
	current, err := s.Get(ctx)
	if err != nil {
		zlog.Warn().Msgf("settings: %v", err)
	}
	return current.Privacy.AllowFacialRecognition
}
