package models

import "time"

// Referral tracks one member bringing another into the club. The bonus is
// awarded once, after the referred member completes signup.
type Referral struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	ReferrerUID string `gorm:"index;not null" json:"referrer_uid"`
	ReferredUID string `gorm:"uniqueIndex;not null" json:"referred_uid"`

	CodeUsed     string     `gorm:"not null" json:"code_used"`
	BonusAwarded bool       `json:"bonus_awarded" gorm:"default:false"`
	AwardedAt    *time.Time `json:"awarded_at,omitempty"`

	Timestamps
}

// MirroredMember is a local snapshot of identity fields owned by the
// external auth/profile service. Populated by the profile sync worker;
// the progression tables reference members only by UID.
type MirroredMember struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	UID       string  `gorm:"uniqueIndex;not null" json:"uid"`
	Username  string  `gorm:"index;not null" json:"username"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
