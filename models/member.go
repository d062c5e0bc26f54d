package models

import (
	"time"

	"gorm.io/gorm"
)

// MemberProfile is the per-member progression record: spendable points,
// accumulated XP, the level/rank derived from them, and the login streak.
// Level and Rank are denormalized; the progression service re-derives them
// after every mutation so they always match the XP/points on the row.
type MemberProfile struct {
	ID  string `gorm:"primaryKey;type:uuid" json:"id"`
	UID string `gorm:"uniqueIndex;not null" json:"uid"` // links to auth/profile service

	Username  string  `gorm:"index" json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	// Core progression
	Points int64  `json:"points" gorm:"default:0"`
	XP     int64  `json:"xp" gorm:"default:0"`
	Level  int    `json:"level" gorm:"default:1"`
	Rank   string `json:"rank" gorm:"type:varchar(16);default:'bronze'"`

	// Consecutive-day activity streak
	StreakDays     int        `json:"streak_days" gorm:"default:0"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`
	LastRankUpAt  *time.Time `json:"last_rank_up_at,omitempty"`

	Timestamps
}

// MemberAchievement records one unlocked achievement for one member.
// Append-only: rows are never removed once awarded.
type MemberAchievement struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UID           string    `gorm:"index:idx_member_achievement,unique;not null" json:"uid"`
	AchievementID string    `gorm:"index:idx_member_achievement,unique;not null" json:"achievement_id"`
	XPAwarded     int64     `json:"xp_awarded" gorm:"default:0"`
	UnlockedAt    time.Time `json:"unlocked_at" gorm:"autoCreateTime"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
