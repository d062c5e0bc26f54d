package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationKind classifies what a notification announces.
type NotificationKind string

const (
	NotificationAchievement NotificationKind = "achievement"
	NotificationLevelUp     NotificationKind = "level_up"
	NotificationRankUp      NotificationKind = "rank_up"
	NotificationMission     NotificationKind = "mission"
	NotificationSystem      NotificationKind = "system"
)

// Notification is a short-lived toast-style message for one member.
// Delivery is best-effort: writers never fail the triggering action on a
// notification error.
type Notification struct {
	ID    string           `gorm:"primaryKey;type:uuid" json:"id"`
	UID   string           `gorm:"index;not null" json:"uid"`
	Kind  NotificationKind `gorm:"type:varchar(16);not null" json:"kind"`
	Title string           `gorm:"not null" json:"title"`
	Body  string           `gorm:"type:text" json:"body"`
	Seen  bool             `gorm:"default:false;index" json:"seen"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
