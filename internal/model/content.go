package model

import "time"

type Video struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"ownerId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	VideoFile   string          `json:"videoFile"`
	Thumbnail   string          `json:"thumbnail"`
	Duration    float64         `json:"duration"`
	Views       int64           `json:"views"`
	IsPublished bool            `json:"isPublished"`
	Owner       ProfileFragment `json:"owner"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// VideoSummary is the projection embedded in liked-video rows.
type VideoSummary struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	VideoFile string          `json:"videoFile"`
	Thumbnail string          `json:"thumbnail"`
	Duration  float64         `json:"duration"`
	Views     int64           `json:"views"`
	Owner     ProfileFragment `json:"owner"`
}

type CreateVideoRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	VideoFile   string  `json:"videoFile" binding:"required"`
	Thumbnail   string  `json:"thumbnail" binding:"required"`
	Duration    float64 `json:"duration"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
}

type Comment struct {
	ID        int64           `json:"id"`
	VideoID   int64           `json:"videoId"`
	OwnerID   int64           `json:"ownerId"`
	Content   string          `json:"content"`
	CreatedBy ProfileFragment `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type ContentRequest struct {
	Content string `json:"content" binding:"required"`
}

type Tweet struct {
	ID        int64           `json:"id"`
	OwnerID   int64           `json:"ownerId"`
	Content   string          `json:"content"`
	Owner     ProfileFragment `json:"owner"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Playlist struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"ownerId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedBy   ProfileFragment `json:"createdBy"`
	Videos      []Video         `json:"videos"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type PlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
