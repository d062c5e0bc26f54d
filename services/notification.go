package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"club-membership-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Notify persists a toast for the member. Fire-and-forget: failures are
// logged and swallowed so the triggering action is never blocked.
func (s *NotificationService) Notify(uid string, kind models.NotificationKind, title, body string) {
	n := models.Notification{
		ID:    uuid.NewString(),
		UID:   uid,
		Kind:  kind,
		Title: title,
		Body:  body,
	}
	if err := s.DB.Create(&n).Error; err != nil {
		log.Printf("⚠️ failed to persist notification for %s: %v", uid, err)
	}
}

// ListUnseen returns the member's pending toasts, oldest first.
func (s *NotificationService) ListUnseen(uid string) ([]models.Notification, error) {
	var out []models.Notification
	err := s.DB.Where("uid = ? AND seen = ?", uid, false).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// MarkSeen acknowledges a batch of toasts.
func (s *NotificationService) MarkSeen(uid string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.Model(&models.Notification{}).
		Where("uid = ? AND id IN ?", uid, ids).
		Update("seen", true).Error
}

// StreamSSE streams new notifications for the authenticated member over
// Server-Sent Events, polling the table every couple of seconds.
func (s *NotificationService) StreamSSE(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastMaxCreatedAt time.Time

		var latest models.Notification
		if err := s.DB.
			Where("uid = ?", uid).
			Order("created_at DESC").
			First(&latest).Error; err == nil {
			lastMaxCreatedAt = latest.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for member %s: %v", uid, err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var fresh []models.Notification
				err := s.DB.
					Where("uid = ? AND created_at > ?", uid, lastMaxCreatedAt).
					Order("created_at ASC").
					Find(&fresh).Error
				if err != nil {
					log.Printf("SSE query error for member %s: %v", uid, err)
					continue
				}
				if len(fresh) == 0 {
					continue
				}

				lastMaxCreatedAt = fresh[len(fresh)-1].CreatedAt

				for _, n := range fresh {
					payload, _ := json.Marshal(n)
					fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
				}

				if err := w.Flush(); err != nil {
					// client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
