// Package auth provides the mock authentication provider of the single user.
package auth

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/moodtunes/internal/app/settings"
	"github.com/osa030/moodtunes/internal/domain/user"
)

// Key is the KV key the signed-in user is stored under.
const Key = "moodtunes_user"

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Provider is the read-only view of authentication the pipeline consumes.
type Provider interface {
	CurrentUser(ctx context.Context) (*user.User, bool)
	IsAuthenticated(ctx context.Context) bool
}

type credentials struct {
	Email string `validate:"required,email"`
	Name  string `validate:"max=100"`
}

// MockProvider accepts any well-formed email and persists the user in KV.
type MockProvider struct {
	mu       sync.Mutex
	kv       settings.KV
	delay    time.Duration
	validate *validator.Validate
}

// NewMockProvider creates a mock provider. delay simulates the round trip
// to an identity service.
func NewMockProvider(kv settings.KV, delay time.Duration) *MockProvider {
	return &MockProvider{kv: kv, delay: delay, validate: validator.New()}
}

// Login signs the user in. A returning email keeps its id and bumps the
// session count.
func (p *MockProvider) Login(ctx context.Context, email, name string) (*user.User, error) {
	c := credentials{Email: strings.TrimSpace(email), Name: strings.TrimSpace(name)}
	if err := p.validate.Struct(c); err != nil {
		return nil, errors.Wrapf(ErrInvalidCredentials, "login rejected: %v", err)
	}

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if c.Name == "" {
		c.Name = c.Email[:strings.IndexByte(c.Email, '@')]
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.load(ctx)
	if ok && strings.EqualFold(u.Email, c.Email) {
		u.Name = c.Name
		u.RecordLogin()
	} else {
		u = user.NewUser(uuid.New().String(), c.Name, c.Email, "email")
	}

	if err := p.store(ctx, u); err != nil {
		return nil, err
	}
	zlog.Info().Msgf("auth: logged in user_id=%s email=%s sessions=%d", u.ID, u.Email, u.SessionCount)
	return u, nil
}

// Logout signs the current user out.
func (p *MockProvider) Logout(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.load(ctx)
	if !ok {
		return ErrNotAuthenticated
	}
	if err := p.kv.Delete(ctx, Key); err != nil {
		return errors.Wrap(err, "failed to remove user")
	}
	zlog.Info().Msgf("auth: logged out user_id=%s", u.ID)
	return nil
}

// CurrentUser returns the signed-in user.
func (p *MockProvider) CurrentUser(ctx context.Context) (*user.User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load(ctx)
}

// IsAuthenticated reports whether a user is signed in.
func (p *MockProvider) IsAuthenticated(ctx context.Context) bool {
	_, ok := p.CurrentUser(ctx)
	return ok
}

// load reads the stored user. An unreadable record is removed.
func (p *MockProvider) load(ctx context.Context) (*user.User, bool) {
	raw, ok, err := p.kv.Get(ctx, Key)
	if err != nil {
		zlog.Warn().Msgf("auth: failed to read user: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var u user.User
	if err := json.Unmarshal(raw, &u); err != nil || u.ID == "" {
		zlog.Warn().Msg("auth: removing unreadable user record")
		_ = p.kv.Delete(ctx, Key)
		return nil, false
	}
	return &u, true
}

func (p *MockProvider) store(ctx context.Context, u *user.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return errors.Wrap(err, "failed to encode user")
	}
	if err := p.kv.Set(ctx, Key, raw); err != nil {
		return errors.Wrap(err, "failed to write user")
	}
	return nil
}
