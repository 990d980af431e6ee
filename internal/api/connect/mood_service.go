package connect

import (
	"context"

	"connectrpc.com/connect"

	moodv1 "github.com/osa030/moodtunes/internal/api/moodv1"
	"github.com/osa030/moodtunes/internal/api/moodv1/moodv1connect"
	"github.com/osa030/moodtunes/internal/app/classifier"
	"github.com/osa030/moodtunes/internal/app/recommend"
	"github.com/osa030/moodtunes/internal/app/session"
)

// MoodService implements the MoodService RPC.
type MoodService struct {
	session     *session.Manager
	classifiers *classifier.Set
	recommender *recommend.Engine
}

// NewMoodService creates a new MoodService.
func NewMoodService(s *session.Manager, classifiers *classifier.Set, recommender *recommend.Engine) *MoodService {
	return &MoodService{
		session:     s,
		classifiers: classifiers,
		recommender: recommender,
	}
}

// Ensure MoodService implements the interface.
var _ moodv1connect.MoodServiceHandler = (*MoodService)(nil)

// DetectMood classifies one input.
func (s *MoodService) DetectMood(
	ctx context.Context,
	req *connect.Request[moodv1.DetectMoodRequest],
) (*connect.Response[moodv1.DetectMoodResponse], error) {
	sample, err := s.session.DetectMood(ctx, classifier.Input{
		Modality: req.Msg.Modality,
		Text:     req.Msg.Text,
		Emoji:    req.Msg.Emoji,
		Category: req.Msg.Category,
		Frame:    req.Msg.Frame,
	})
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&moodv1.DetectMoodResponse{
		Mood:    sample,
		History: s.session.History(),
	}), nil
}

// GetHistory returns the session mood log and its summary.
func (s *MoodService) GetHistory(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
) (*connect.Response[moodv1.GetHistoryResponse], error) {
	return connect.NewResponse(&moodv1.GetHistoryResponse{
		Entries: s.session.History(),
		Stats:   s.session.Stats(),
	}), nil
}

// GetPalette returns the emoji palette and the enabled modalities.
func (s *MoodService) GetPalette(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
) (*connect.Response[moodv1.GetPaletteResponse], error) {
	return connect.NewResponse(&moodv1.GetPaletteResponse{
		Categories: classifier.Palette(),
		Modalities: s.classifiers.Available(),
	}), nil
}

// Recommend ranks tracks for the latest detected mood, or for the mood in
// the request when one is given.
func (s *MoodService) Recommend(
	ctx context.Context,
	req *connect.Request[moodv1.RecommendRequest],
) (*connect.Response[moodv1.RecommendResponse], error) {
	var err error
	res := &moodv1.RecommendResponse{}
	if req.Msg.Mood != nil {
		res.Tracks, err = s.session.RecommendFor(ctx, *req.Msg.Mood, req.Msg.Genres)
	} else {
		res.Tracks, err = s.session.Recommend(ctx, req.Msg.Genres)
	}
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return connect.NewResponse(res), nil
}

// ListGenres lists the genres of the catalog.
func (s *MoodService) ListGenres(
	ctx context.Context,
	req *connect.Request[moodv1.Empty],
) (*connect.Response[moodv1.ListGenresResponse], error) {
	return connect.NewResponse(&moodv1.ListGenresResponse{
		Genres: s.recommender.Genres(),
	}), nil
}
