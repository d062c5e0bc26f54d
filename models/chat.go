package models

import "time"

// ChatMessage is one persisted chat line. RecipientUID empty = global room.
type ChatMessage struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UID          string    `gorm:"index;not null" json:"uid"`
	Username     string    `json:"username"`
	RecipientUID string    `gorm:"index" json:"recipient_uid,omitempty"`
	Body         string    `gorm:"type:text;not null" json:"body"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}
