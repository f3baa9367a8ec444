package model

import "time"

// User is the identity record. PasswordHash and RefreshSecret never leave the
// server; RefreshSecret is owned by the session layer.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Avatar        string    `json:"avatar"`
	CoverImage    string    `json:"coverImage"`
	PasswordHash  string    `json:"-"`
	RefreshSecret *string   `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProfileFragment is the abbreviated public projection embedded in read views.
type ProfileFragment struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

type ChannelProfile struct {
	ID                        int64  `json:"id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type UpdateImageRequest struct {
	URL string `json:"url" binding:"required"`
}
