package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/activityhub/internal/client/models"
)

type ActivityService interface {
	Feed(ctx context.Context) ([]models.Activity, error)
	Join(ctx context.Context, activityID int64) (models.Activity, error)
}

type activityService struct {
	api      API
	sessions Sessions
}

func NewActivityService(api API, sessions Sessions) ActivityService {
	return &activityService{api: api, sessions: sessions}
}

// Feed lists activities visible to the resolved profile.
func (s *activityService) Feed(ctx context.Context) ([]models.Activity, error) {
	profileID, err := s.sessions.ResolvedProfileID(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{"profile_id": {strconv.FormatInt(profileID, 10)}}

	var out []models.Activity
	if err := s.api.Get(ctx, "/activities", q, &out); err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return out, nil
}

// Join signs the resolved profile up for an activity and returns its new state.
func (s *activityService) Join(ctx context.Context, activityID int64) (models.Activity, error) {
	profileID, err := s.sessions.ResolvedProfileID(ctx)
	if err != nil {
		return models.Activity{}, err
	}

	path := "/activities/" + strconv.FormatInt(activityID, 10) + "/join"

	var out models.Activity
	if err := s.api.Post(ctx, path, models.JoinRequest{ProfileID: profileID}, &out); err != nil {
		return models.Activity{}, fmt.Errorf("join activity %d: %w", activityID, err)
	}
	return out, nil
}
