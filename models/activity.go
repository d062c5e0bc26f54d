package models

import "time"

// Post is a member's feed entry.
type Post struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	UID      string `gorm:"index;not null" json:"uid"`
	Body     string `gorm:"type:text;not null" json:"body"`
	ImageURL string `gorm:"type:text" json:"image_url,omitempty"`

	LikeCount int64 `gorm:"default:0" json:"like_count"`

	Timestamps
}

// Like records one member liking one post; unique per (uid, post).
type Like struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UID       string    `gorm:"index:idx_like_once,unique;not null" json:"uid"`
	PostID    string    `gorm:"index:idx_like_once,unique;not null" json:"post_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// ActivityCounts is the on-demand counter bundle fed into the achievement
// evaluator. Counts are re-queried per evaluation, never cached.
type ActivityCounts struct {
	PostCount     int64 `json:"post_count"`
	LikeCount     int64 `json:"like_count"`
	ReceivedLikes int64 `json:"received_likes"`
	MessageCount  int64 `json:"message_count"`
	PurchaseCount int64 `json:"purchase_count"`
	ReferralCount int64 `json:"referral_count"`
	MissionCount  int64 `json:"mission_count"`
}
