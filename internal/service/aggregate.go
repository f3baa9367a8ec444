package service

import (
	"context"
	"strings"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
	"golang.org/x/sync/errgroup"
)

type AggregationStore interface {
	ListLikedVideos(ctx context.Context, subjectID int64, page model.Page) ([]model.LikedVideo, error)
	ListSubscribedChannels(ctx context.Context, subscriberID int64, page model.Page) ([]model.ChannelSubscription, error)
	ListSubscribers(ctx context.Context, channelID int64, page model.Page) ([]model.Subscriber, error)
	CountAssociations(ctx context.Context, kind model.AssociationKind, objectID int64) (int64, error)
	CountSubjectAssociations(ctx context.Context, subjectID int64, kind model.AssociationKind) (int64, error)
	GetChannelProfile(ctx context.Context, username string, viewerID int64) (*model.ChannelProfile, error)
	ChannelVideoTotals(ctx context.Context, ownerID int64) (int64, int64, error)
	CountLikesOnChannel(ctx context.Context, ownerID int64) (int64, error)
}

// AggregationService builds the read views over associations. Storage
// failures are reported, never replaced with empty results.
type AggregationService struct {
	store   AggregationStore
	objects ObjectChecker
}

func NewAggregationService(store AggregationStore, objects ObjectChecker) *AggregationService {
	return &AggregationService{store: store, objects: objects}
}

// LikedVideos lists the videos userID likes, newest like first.
func (s *AggregationService) LikedVideos(ctx context.Context, userID int64, page model.Page) ([]model.LikedVideo, error) {
	videos, err := s.store.ListLikedVideos(ctx, userID, page)
	if err != nil {
		return nil, apperr.WrapInternal(err, "list liked videos")
	}
	return videos, nil
}

func (s *AggregationService) SubscribedChannels(ctx context.Context, subscriberID int64, page model.Page) (model.SubscribedChannelsResponse, error) {
	if err := s.requireUser(ctx, subscriberID, "subscriber"); err != nil {
		return model.SubscribedChannelsResponse{}, err
	}

	var resp model.SubscribedChannelsResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		channels, err := s.store.ListSubscribedChannels(gctx, subscriberID, page)
		resp.Channels = channels
		return err
	})
	g.Go(func() error {
		total, err := s.store.CountSubjectAssociations(gctx, subscriberID, model.KindSubscription)
		resp.TotalCount = total
		return err
	})
	if err := g.Wait(); err != nil {
		return model.SubscribedChannelsResponse{}, apperr.WrapInternal(err, "list subscribed channels")
	}
	return resp, nil
}

func (s *AggregationService) Subscribers(ctx context.Context, channelID int64, page model.Page) (model.SubscribersResponse, error) {
	if err := s.requireUser(ctx, channelID, "channel"); err != nil {
		return model.SubscribersResponse{}, err
	}

	var resp model.SubscribersResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		subscribers, err := s.store.ListSubscribers(gctx, channelID, page)
		resp.Subscribers = subscribers
		return err
	})
	g.Go(func() error {
		total, err := s.store.CountAssociations(gctx, model.KindSubscription, channelID)
		resp.TotalCount = total
		return err
	})
	if err := g.Wait(); err != nil {
		return model.SubscribersResponse{}, apperr.WrapInternal(err, "list subscribers")
	}
	return resp, nil
}

func (s *AggregationService) ChannelProfile(ctx context.Context, username string, viewerID int64) (*model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.InvalidInput("username is missing")
	}
	profile, err := s.store.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, apperr.WrapInternal(err, "load channel profile")
	}
	return profile, nil
}

// ChannelStats runs its independent counts in parallel; any failure fails the
// whole view.
func (s *AggregationService) ChannelStats(ctx context.Context, ownerID int64) (model.ChannelStats, error) {
	var stats model.ChannelStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		videos, views, err := s.store.ChannelVideoTotals(gctx, ownerID)
		stats.TotalVideos, stats.TotalViews = videos, views
		return err
	})
	g.Go(func() error {
		subscribers, err := s.store.CountAssociations(gctx, model.KindSubscription, ownerID)
		stats.TotalSubscribers = subscribers
		return err
	})
	g.Go(func() error {
		likes, err := s.store.CountLikesOnChannel(gctx, ownerID)
		stats.TotalLikes = likes
		return err
	})
	if err := g.Wait(); err != nil {
		return model.ChannelStats{}, apperr.WrapInternal(err, "load channel stats")
	}
	return stats, nil
}

func (s *AggregationService) requireUser(ctx context.Context, userID int64, what string) error {
	if userID <= 0 {
		return apperr.InvalidInput("invalid " + what + " id")
	}
	exists, err := s.objects.ObjectExists(ctx, model.KindSubscription, userID, 0)
	if err != nil {
		return apperr.WrapInternal(err, "check "+what)
	}
	if !exists {
		return apperr.NotFound(what + " does not exist")
	}
	return nil
}
