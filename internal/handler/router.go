package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every resource handler the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Videos        *VideoHandler
	Comments      *CommentHandler
	Tweets        *TweetHandler
	Playlists     *PlaylistHandler
	Likes         *LikeHandler
	Subscriptions *SubscriptionHandler
	Dashboard     *DashboardHandler
	Health        *HealthHandler
}

type RouterConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

// NewRouter wires the public and authenticated routes. ctx bounds the
// background work of the rate limiter.
func NewRouter(ctx context.Context, log *zap.Logger, verifier AccessVerifier, h Handlers, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(CORSMiddleware(cfg.AllowedOrigins, cfg.AllowCredentials))

	r.GET("/", Root)
	r.GET("/ping", Ping)
	r.GET("/healthz", h.Health.Healthz)

	api := r.Group("/api/v1")
	api.GET("/openapi.json", OpenAPIDoc)

	limited := api.Group("/users", RateLimitPerIP(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, 10_000, time.Hour))
	limited.POST("/register", h.Auth.Register)
	limited.POST("/login", h.Auth.Login)
	limited.POST("/refresh-token", h.Auth.Refresh)

	secured := api.Group("", AuthMiddleware(verifier))

	users := secured.Group("/users")
	users.POST("/logout", h.Auth.Logout)
	users.GET("/current-user", h.Auth.CurrentUser)
	users.POST("/change-password", h.Auth.ChangePassword)
	users.PATCH("/update-account", h.Auth.UpdateAccount)
	users.PATCH("/avatar", h.Auth.UpdateAvatar)
	users.PATCH("/cover-image", h.Auth.UpdateCoverImage)
	users.GET("/c/:username", h.Auth.ChannelProfile)
	users.GET("/history", h.Videos.WatchHistory)

	videos := secured.Group("/videos")
	videos.GET("", h.Videos.ListVideos)
	videos.POST("", h.Videos.PublishVideo)
	videos.GET("/:videoId", h.Videos.GetVideo)
	videos.PATCH("/:videoId", h.Videos.UpdateVideo)
	videos.DELETE("/:videoId", h.Videos.DeleteVideo)
	videos.PATCH("/toggle/publish/:videoId", h.Videos.TogglePublish)

	comments := secured.Group("/comments")
	comments.GET("/:videoId", h.Comments.ListComments)
	comments.POST("/:videoId", h.Comments.AddComment)
	comments.PATCH("/c/:commentId", h.Comments.UpdateComment)
	comments.DELETE("/c/:commentId", h.Comments.DeleteComment)

	tweets := secured.Group("/tweets")
	tweets.POST("", h.Tweets.CreateTweet)
	tweets.GET("/user/:userId", h.Tweets.UserTweets)
	tweets.PATCH("/:tweetId", h.Tweets.UpdateTweet)
	tweets.DELETE("/:tweetId", h.Tweets.DeleteTweet)

	playlists := secured.Group("/playlists")
	playlists.POST("", h.Playlists.CreatePlaylist)
	playlists.GET("/:playlistId", h.Playlists.GetPlaylist)
	playlists.PATCH("/:playlistId", h.Playlists.UpdatePlaylist)
	playlists.DELETE("/:playlistId", h.Playlists.DeletePlaylist)
	playlists.PATCH("/add/:videoId/:playlistId", h.Playlists.AddVideo)
	playlists.PATCH("/remove/:videoId/:playlistId", h.Playlists.RemoveVideo)
	playlists.GET("/user/:userId", h.Playlists.UserPlaylists)

	likes := secured.Group("/likes")
	likes.POST("/toggle/v/:videoId", h.Likes.ToggleVideoLike)
	likes.POST("/toggle/c/:commentId", h.Likes.ToggleCommentLike)
	likes.POST("/toggle/t/:tweetId", h.Likes.ToggleTweetLike)
	likes.GET("/videos", h.Likes.LikedVideos)

	subscriptions := secured.Group("/subscriptions")
	subscriptions.POST("/c/:channelId", h.Subscriptions.ToggleSubscription)
	subscriptions.GET("/c/:channelId", h.Subscriptions.ChannelSubscribers)
	subscriptions.GET("/u/:subscriberId", h.Subscriptions.SubscribedChannels)

	dashboard := secured.Group("/dashboard")
	dashboard.GET("/stats", h.Dashboard.Stats)
	dashboard.GET("/videos", h.Dashboard.Videos)

	return r
}
