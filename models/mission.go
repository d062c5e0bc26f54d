package models

import (
	"time"

	"gorm.io/gorm"
)

// MissionGoal names the counter a mission tracks.
type MissionGoal string

const (
	MissionGoalPosts    MissionGoal = "posts"
	MissionGoalLikes    MissionGoal = "likes"
	MissionGoalMessages MissionGoal = "messages"
	MissionGoalLogin    MissionGoal = "login"
)

// Mission is a daily task. ActiveOn is the calendar day (UTC, truncated)
// the mission is offered; the rotation scheduler publishes a fresh set each
// day from the drafted pool.
type Mission struct {
	ID           string      `gorm:"primaryKey;type:uuid" json:"id"`
	Title        string      `gorm:"not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	Goal         MissionGoal `gorm:"type:varchar(16);not null" json:"goal"`
	Target       int64       `gorm:"default:1" json:"target"`
	XPReward     int64       `gorm:"default:0" json:"xp_reward"`
	PointsReward int64       `gorm:"default:0" json:"points_reward"`
	Active       bool        `gorm:"default:false;index" json:"active"`
	ActiveOn     *time.Time  `gorm:"index" json:"active_on,omitempty"`

	Timestamps
}

// MissionCompletion marks a mission done by a member for a given day.
// The unique index enforces once-per-member-per-mission-per-day.
type MissionCompletion struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	UID       string         `gorm:"index:idx_mission_completion,unique;not null" json:"uid"`
	MissionID string         `gorm:"index:idx_mission_completion,unique;not null" json:"mission_id"`
	Day       time.Time      `gorm:"index:idx_mission_completion,unique;not null" json:"day"`
	XPEarned  int64          `json:"xp_earned"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
