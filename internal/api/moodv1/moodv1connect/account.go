package moodv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
)

// AccountServiceHandler is implemented by the server side of AccountService.
type AccountServiceHandler interface {
	Login(context.Context, *connect.Request[moodv1.LoginRequest]) (*connect.Response[moodv1.UserResponse], error)
	Logout(context.Context, *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.Empty], error)
	CurrentUser(context.Context, *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.UserResponse], error)
	GetSettings(context.Context, *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.SettingsResponse], error)
	SaveSettings(context.Context, *connect.Request[moodv1.SettingsRequest]) (*connect.Response[moodv1.SettingsResponse], error)
	ResetSettings(context.Context, *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.SettingsResponse], error)
	SubmitFeedback(context.Context, *connect.Request[moodv1.SubmitFeedbackRequest]) (*connect.Response[moodv1.FeedbackResponse], error)
	ListFeedback(context.Context, *connect.Request[moodv1.Empty]) (*connect.Response[moodv1.ListFeedbackResponse], error)
	WatchEvents(context.Context, *connect.Request[moodv1.Empty], *connect.ServerStream[moodv1.Event]) error
}

// NewAccountServiceHandler returns the mount path and handler of AccountService.
func NewAccountServiceHandler(svc AccountServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := router{}
	unary(r, AccountServiceLoginProcedure, svc.Login, opts)
	unary(r, AccountServiceLogoutProcedure, svc.Logout, opts)
	unary(r, AccountServiceCurrentUserProcedure, svc.CurrentUser, opts)
	unary(r, AccountServiceGetSettingsProcedure, svc.GetSettings, opts)
	unary(r, AccountServiceSaveSettingsProcedure, svc.SaveSettings, opts)
	unary(r, AccountServiceResetSettingsProcedure, svc.ResetSettings, opts)
	unary(r, AccountServiceSubmitFeedbackProcedure, svc.SubmitFeedback, opts)
	unary(r, AccountServiceListFeedbackProcedure, svc.ListFeedback, opts)
	r[AccountServiceWatchEventsProcedure] = connect.NewServerStreamHandler(
		AccountServiceWatchEventsProcedure,
		svc.WatchEvents,
		append([]connect.HandlerOption{codecOption}, opts...)...,
	)
	return servicePath(AccountServiceName), r
}

// AccountServiceClient is a client for AccountService.
type AccountServiceClient struct {
	login          *connect.Client[moodv1.LoginRequest, moodv1.UserResponse]
	logout         *connect.Client[moodv1.Empty, moodv1.Empty]
	currentUser    *connect.Client[moodv1.Empty, moodv1.UserResponse]
	getSettings    *connect.Client[moodv1.Empty, moodv1.SettingsResponse]
	saveSettings   *connect.Client[moodv1.SettingsRequest, moodv1.SettingsResponse]
	resetSettings  *connect.Client[moodv1.Empty, moodv1.SettingsResponse]
	submitFeedback *connect.Client[moodv1.SubmitFeedbackRequest, moodv1.FeedbackResponse]
	listFeedback   *connect.Client[moodv1.Empty, moodv1.ListFeedbackResponse]
	watchEvents    *connect.Client[moodv1.Empty, moodv1.Event]
}

// NewAccountServiceClient creates an AccountService client for the server at baseURL.
func NewAccountServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AccountServiceClient {
	return &AccountServiceClient{
		login:          newClient[moodv1.LoginRequest, moodv1.UserResponse](httpClient, baseURL, AccountServiceLoginProcedure, opts),
		logout:         newClient[moodv1.Empty, moodv1.Empty](httpClient, baseURL, AccountServiceLogoutProcedure, opts),
		currentUser:    newClient[moodv1.Empty, moodv1.UserResponse](httpClient, baseURL, AccountServiceCurrentUserProcedure, opts),
		getSettings:    newClient[moodv1.Empty, moodv1.SettingsResponse](httpClient, baseURL, AccountServiceGetSettingsProcedure, opts),
		saveSettings:   newClient[moodv1.SettingsRequest, moodv1.SettingsResponse](httpClient, baseURL, AccountServiceSaveSettingsProcedure, opts),
		resetSettings:  newClient[moodv1.Empty, moodv1.SettingsResponse](httpClient, baseURL, AccountServiceResetSettingsProcedure, opts),
		submitFeedback: newClient[moodv1.SubmitFeedbackRequest, moodv1.FeedbackResponse](httpClient, baseURL, AccountServiceSubmitFeedbackProcedure, opts),
		listFeedback:   newClient[moodv1.Empty, moodv1.ListFeedbackResponse](httpClient, baseURL, AccountServiceListFeedbackProcedure, opts),
		watchEvents:    newClient[moodv1.Empty, moodv1.Event](httpClient, baseURL, AccountServiceWatchEventsProcedure, opts),
	}
}

func (c *AccountServiceClient) Login(ctx context.Context, email, name string) (*moodv1.UserResponse, error) {
	return call(ctx, c.login, &moodv1.LoginRequest{Email: email, Name: name})
}

func (c *AccountServiceClient) Logout(ctx context.Context) error {
	_, err := call(ctx, c.logout, &moodv1.Empty{})
	return err
}

func (c *AccountServiceClient) CurrentUser(ctx context.Context) (*moodv1.UserResponse, error) {
	return call(ctx, c.currentUser, &moodv1.Empty{})
}

func (c *AccountServiceClient) GetSettings(ctx context.Context) (*moodv1.SettingsResponse, error) {
	return call(ctx, c.getSettings, &moodv1.Empty{})
}

func (c *AccountServiceClient) SaveSettings(ctx context.Context, req *moodv1.SettingsRequest) (*moodv1.SettingsResponse, error) {
	return call(ctx, c.saveSettings, req)
}

func (c *AccountServiceClient) ResetSettings(ctx context.Context) (*moodv1.SettingsResponse, error) {
	return call(ctx, c.resetSettings, &moodv1.Empty{})
}

func (c *AccountServiceClient) SubmitFeedback(ctx context.Context, req *moodv1.SubmitFeedbackRequest) (*moodv1.FeedbackResponse, error) {
	return call(ctx, c.submitFeedback, req)
}

func (c *AccountServiceClient) ListFeedback(ctx context.Context) (*moodv1.ListFeedbackResponse, error) {
	return call(ctx, c.listFeedback, &moodv1.Empty{})
}

// WatchEvents opens the event stream. The caller closes the returned stream.
func (c *AccountServiceClient) WatchEvents(ctx context.Context) (*connect.ServerStreamForClient[moodv1.Event], error) {
	return c.watchEvents.CallServerStream(ctx, connect.NewRequest(&moodv1.Empty{}))
}
