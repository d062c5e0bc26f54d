package services

import (
	"testing"

	"club-membership-system/models"
)

func TestNotificationLifecycle(t *testing.T) {
	stack := newTestStack(t)
	uid := newTestProfile(t, stack.DB)

	stack.Notifications.Notify(uid, models.NotificationSystem, "Welcome", "Hello there")
	stack.Notifications.Notify(uid, models.NotificationLevelUp, "Level 2", "You reached level 2!")

	unseen, err := stack.Notifications.ListUnseen(uid)
	if err != nil {
		t.Fatalf("ListUnseen failed: %v", err)
	}
	if len(unseen) != 2 {
		t.Fatalf("unseen = %d, want 2", len(unseen))
	}

	if err := stack.Notifications.MarkSeen(uid, []string{unseen[0].ID}); err != nil {
		t.Fatalf("MarkSeen failed: %v", err)
	}

	unseen, err = stack.Notifications.ListUnseen(uid)
	if err != nil {
		t.Fatalf("ListUnseen failed: %v", err)
	}
	if len(unseen) != 1 {
		t.Fatalf("unseen after ack = %d, want 1", len(unseen))
	}
	if unseen[0].Kind != models.NotificationLevelUp {
		t.Errorf("remaining toast kind = %s, want level_up", unseen[0].Kind)
	}

	// an empty ack batch is a no-op
	if err := stack.Notifications.MarkSeen(uid, nil); err != nil {
		t.Errorf("empty MarkSeen returned %v", err)
	}
}

func TestNotifyOnLevelUpAndRankUp(t *testing.T) {
	stack := newTestStack(t)
	uid := newTestProfile(t, stack.DB)

	if _, err := stack.Progression.AwardXP(uid, 150, "test"); err != nil {
		t.Fatalf("AwardXP failed: %v", err)
	}
	if _, err := stack.Progression.AwardPoints(uid, 600, "test"); err != nil {
		t.Fatalf("AwardPoints failed: %v", err)
	}

	var kinds []string
	if err := stack.DB.Model(&models.Notification{}).
		Where("uid = ?", uid).Order("created_at ASC").
		Pluck("kind", &kinds).Error; err != nil {
		t.Fatalf("kind query failed: %v", err)
	}

	seen := map[string]bool{}
	for _, k := range kinds {
		seen[k] = true
	}
	if !seen[string(models.NotificationLevelUp)] {
		t.Errorf("no level_up toast after crossing the level 2 bar")
	}
	if !seen[string(models.NotificationRankUp)] {
		t.Errorf("no rank_up toast after crossing the silver floor")
	}
}
