package service

import (
	"context"
	"strings"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

type TweetStore interface {
	CreateTweet(ctx context.Context, ownerID int64, content string) (*model.Tweet, error)
	GetTweet(ctx context.Context, tweetID int64) (*model.Tweet, error)
	ListUserTweets(ctx context.Context, ownerID int64, page model.Page) ([]model.Tweet, error)
	UpdateTweet(ctx context.Context, tweetID int64, content string) (*model.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID int64) error
}

type TweetService struct {
	store TweetStore
}

func NewTweetService(store TweetStore) *TweetService {
	return &TweetService{store: store}
}

func (s *TweetService) Create(ctx context.Context, userID int64, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidInput("content is required")
	}
	tweet, err := s.store.CreateTweet(ctx, userID, content)
	if err != nil {
		return nil, apperr.WrapInternal(err, "create tweet")
	}
	return tweet, nil
}

func (s *TweetService) ListByUser(ctx context.Context, ownerID int64, page model.Page) ([]model.Tweet, error) {
	tweets, err := s.store.ListUserTweets(ctx, ownerID, page)
	if err != nil {
		return nil, apperr.WrapInternal(err, "list tweets")
	}
	return tweets, nil
}

func (s *TweetService) Update(ctx context.Context, tweetID, userID int64, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidInput("content is required")
	}
	if err := s.owned(ctx, tweetID, userID); err != nil {
		return nil, err
	}
	tweet, err := s.store.UpdateTweet(ctx, tweetID, content)
	if err != nil {
		return nil, apperr.WrapInternal(err, "update tweet")
	}
	return tweet, nil
}

func (s *TweetService) Delete(ctx context.Context, tweetID, userID int64) error {
	if err := s.owned(ctx, tweetID, userID); err != nil {
		return err
	}
	return apperr.WrapInternal(s.store.DeleteTweet(ctx, tweetID), "delete tweet")
}

func (s *TweetService) owned(ctx context.Context, tweetID, userID int64) error {
	tweet, err := s.store.GetTweet(ctx, tweetID)
	if err != nil {
		return apperr.WrapInternal(err, "load tweet")
	}
	if tweet.OwnerID != userID {
		return apperr.Unauthorized("only the author can modify this tweet")
	}
	return nil
}
