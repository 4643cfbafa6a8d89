package model

import (
	"time"

	"gorm.io/datatypes"
)

type FarcasterAccount struct {
	Fid       int64          `gorm:"primaryKey;autoIncrement:false"`
	Metadata  datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TwitterAccount struct {
	Username  string         `gorm:"primaryKey;size:64"`
	Metadata  datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FarcasterUser farcaster_accounts.metadata 中存放的用户资料
type FarcasterUser struct {
	Fid            int64    `json:"fid"`
	Username       string   `json:"username"`
	DisplayName    string   `json:"display_name"`
	PfpURL         string   `json:"pfp_url"`
	CustodyAddress string   `json:"custody_address"`
	FollowerCount  int64    `json:"follower_count"`
	FollowingCount int64    `json:"following_count"`
	Verifications  []string `json:"verifications"`
}

// TwitterUser twitter_accounts.metadata 中存放的用户资料
type TwitterUser struct {
	ID              string `json:"id"`
	ScreenName      string `json:"screen_name"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
	FollowersCount  int64  `json:"followers_count"`
	FollowingCount  int64  `json:"following_count"`
}
