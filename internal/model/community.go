package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Community struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	Name            string    `gorm:"size:128;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	ImageURL        string    `gorm:"size:512" json:"image_url"`
	TokenID         *string   `gorm:"size:128;index" json:"token_id"`
	Fid             *int64    `gorm:"index" json:"fid"`
	TwitterUsername *string   `gorm:"size:64;index" json:"twitter_username"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CommunityView 社区及其关联的 token / farcaster / twitter，关联不存在时为 nil。
// Farcaster / Twitter 为账号表中原样保存的 metadata
type CommunityView struct {
	Community
	Token     *Token         `json:"token"`
	Farcaster datatypes.JSON `json:"farcaster"`
	Twitter   datatypes.JSON `json:"twitter"`
}

// FarcasterUser 按 FarcasterUser 解析 metadata，未关联时返回 nil
func (v *CommunityView) FarcasterUser() (*FarcasterUser, error) {
	if v.Farcaster == nil {
		return nil, nil
	}
	var u FarcasterUser
	if err := json.Unmarshal(v.Farcaster, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (v *CommunityView) TwitterUser() (*TwitterUser, error) {
	if v.Twitter == nil {
		return nil, nil
	}
	var u TwitterUser
	if err := json.Unmarshal(v.Twitter, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
