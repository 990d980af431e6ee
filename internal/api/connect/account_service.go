package connect

import (
	"context"
	"sync"
	"time"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
	"github.com/osa030/moodtunes/internal/api/moodv1/moodv1connect"
	"github.com/osa030/moodtunes/internal/app/auth"
	"github.com/osa030/moodtunes/internal/app/feedback"
	"github.com/osa030/moodtunes/internal/app/notification"
	"github.com/osa030/moodtunes/internal/app/playback"
	"github.com/osa030/moodtunes/internal/app/session"
	"github.com/osa030/moodtunes/internal/app/settings"
	"github.com/osa030/moodtunes/internal/domain/mood"
	"github.com/osa030/moodtunes/internal/domain/user"
)

// InitialState is the payload of the first event of every WatchEvents stream.
type InitialState struct {
	User     *user.User        `json:"user,omitempty"`
	Playback playback.Snapshot `json:"playback"`
	History  []mood.Sample     `json:"history"`
}

// AccountService implements the AccountService RPC.
type AccountService struct {
	session  *session.Manager
	settings *settings.Service
	feedback *feedback.Service
}

// NewAccountService creates a new AccountService.
func NewAccountService(s *session.Manager, st *settings.Service, fb *feedback.Service) *AccountService {
	return &AccountService{
		session:  s,
		settings: st,
		feedback: fb,
	}
}

var _ moodv1connect.AccountServiceHandler = (*AccountService)(nil)

// Login signs the user in.
func (s *AccountService) Login(
	ctx context.Context,
	req *connect.Request[moodv1.LoginRequest],
) (*connect.Response[moodv1.UserResponse], error) {
	u, err := s.session.Login(ctx, req.Msg.Email, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.UserResponse{User: u}), nil
}

// Logout signs the user out and clears the session.
func (s *AccountService) Logout(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
) (*connect.Response[moodv1.Empty], error) {
	if err := s.session.Logout(ctx); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.Empty{}), nil
}

func (s *AccountService) CurrentUser(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
) (*connect.Response[moodv1.UserResponse], error) {
	u, ok := s.session.CurrentUser(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrNotAuthenticated)
	}
	return connect.NewResponse(&moodv1.UserResponse{User: u}), nil
}

func (s *AccountService) GetSettings(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
) (*connect.Response[moodv1.SettingsResponse], error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.SettingsResponse{Settings: st}), nil
}

func (s *AccountService) SaveSettings(
	ctx context.Context,
	req *connect.Request[moodv1.SettingsRequest],
) (*connect.Response[moodv1.SettingsResponse], error) {
	st, err := s.settings.Save(ctx, req.Msg.Settings)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.SettingsResponse{Settings: st}), nil
}

func (s *AccountService) ResetSettings(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
) (*connect.Response[moodv1.SettingsResponse], error) {
	st, err := s.settings.Reset(ctx)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.SettingsResponse{Settings: st}), nil
}

// SubmitFeedback rates how well a track matched the mood. Without a mood the
// latest detected mood is used.
func (s *AccountService) SubmitFeedback(
	ctx context.Context,
	req *connect.Request[moodv1.SubmitFeedbackRequest],
) (*connect.Response[moodv1.FeedbackResponse], error) {
	label := req.Msg.Mood
	if label == "" {
		if latest, ok := s.session.LatestMood(); ok {
			label = latest.Label
		}
	}

	fb, err := s.feedback.Submit(ctx, feedback.Feedback{
		TrackID: req.Msg.TrackID,
		Mood:    label,
		Rating:  req.Msg.Rating,
		Comment: req.Msg.Comment,
	})
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.FeedbackResponse{
		Feedback: fb,
		Label:    feedback.RatingLabel(fb.Rating),
	}), nil
}

func (s *AccountService) ListFeedback(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
) (*connect.Response[moodv1.ListFeedbackResponse], error) {
	list, err := s.feedback.List(ctx)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(&moodv1.ListFeedbackResponse{Feedback: list}), nil
}

// WatchEvents streams hub events until the client goes away or the session
// closes. The first event carries the current state.
func (s *AccountService) WatchEvents(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
	stream *connect.ServerStream[moodv1.Event],
) error {
	u, _ := s.session.CurrentUser(ctx)
	initial := &notification.Event{
		Type: notification.EventInitialState,
		At:   time.Now(),
		Payload: InitialState{
			User:     u,
			Playback: s.session.Playback().Snapshot(),
			History:  s.session.History(),
		},
	}

	// Hold the stream while subscribing so hub events queue behind the initial state.
	adapter := &eventStreamAdapter{stream: stream}
	hub := s.session.Hub()
	adapter.mu.Lock()
	subscriptionID := hub.Subscribe(adapter)
	defer hub.Unsubscribe(subscriptionID)
	err := adapter.sendLocked(initial)
	adapter.mu.Unlock()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-s.session.Done():
	}
	return nil
}

// eventStreamAdapter adapts connect.ServerStream to notification.Stream.
// Sends are serialized since the hub may deliver concurrently.
type eventStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[moodv1.Event]
}

func (a *eventStreamAdapter) Send(e *notification.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sendLocked(e)
}

func (a *eventStreamAdapter) sendLocked(e *notification.Event) error {
	return a.stream.Send(&moodv1.Event{
		SequenceNo: e.SequenceNo,
		Type:       e.Type,
		At:         e.At.Format(time.RFC3339Nano),
		Payload:    e.Payload,
	})
}
