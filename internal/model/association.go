package model

import (
	"strings"
	"time"
)

// AssociationKind names the relationship between a subject user and an object.
type AssociationKind string

const (
	KindVideoLike    AssociationKind = "video_like"
	KindCommentLike  AssociationKind = "comment_like"
	KindTweetLike    AssociationKind = "tweet_like"
	KindSubscription AssociationKind = "subscription"
)

func (k AssociationKind) Valid() bool {
	switch k {
	case KindVideoLike, KindCommentLike, KindTweetLike, KindSubscription:
		return true
	}
	return false
}

// ParseAssociationKind normalizes user-supplied kind names.
func ParseAssociationKind(value string) (AssociationKind, bool) {
	kind := AssociationKind(strings.ToLower(strings.TrimSpace(value)))
	return kind, kind.Valid()
}

// Association is one (subject, kind, object) row. At most one exists per
// triple; rows are created and deleted, never updated.
type Association struct {
	SubjectID int64           `json:"subjectId"`
	Kind      AssociationKind `json:"kind"`
	ObjectID  int64           `json:"objectId"`
	CreatedAt time.Time       `json:"createdAt"`
}

type ToggleResult struct {
	Active     bool
	TotalCount int64
}

type VideoLikeResponse struct {
	VideoID    int64 `json:"videoId"`
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"totalLikes"`
}

type CommentLikeResponse struct {
	CommentID  int64 `json:"commentId"`
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"totalLikes"`
}

type TweetLikeResponse struct {
	TweetID    int64 `json:"tweetId"`
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"totalLikes"`
}

type SubscriptionResponse struct {
	ChannelID        int64 `json:"channelId"`
	Subscribed       bool  `json:"subscribed"`
	SubscribersCount int64 `json:"subscribersCount"`
}

type LikedVideo struct {
	Video   VideoSummary `json:"video"`
	LikedAt time.Time    `json:"likedAt"`
}

// WatchedVideo is one row of a user's watch history. Rewatching moves the
// video to the front instead of adding a second row.
type WatchedVideo struct {
	Video     VideoSummary `json:"video"`
	WatchedAt time.Time    `json:"watchedAt"`
}

type ChannelSubscription struct {
	Channel      ProfileFragment `json:"channel"`
	SubscribedAt time.Time       `json:"subscribedAt"`
}

type Subscriber struct {
	Subscriber   ProfileFragment `json:"subscriber"`
	SubscribedAt time.Time       `json:"subscribedAt"`
}

type SubscribedChannelsResponse struct {
	TotalCount int64                 `json:"totalCount"`
	Channels   []ChannelSubscription `json:"subscribedChannels"`
}

type SubscribersResponse struct {
	TotalCount  int64        `json:"subscribersCount"`
	Subscribers []Subscriber `json:"subscribers"`
}

type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
}
