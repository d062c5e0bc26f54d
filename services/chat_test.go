package services

import (
	"testing"
	"time"

	"club-membership-system/models"

	"github.com/google/uuid"
)

func seedChatMessage(t *testing.T, stack *testStack, uid, recipient, body string, at time.Time) {
	t.Helper()
	msg := models.ChatMessage{
		ID:           uuid.NewString(),
		UID:          uid,
		Username:     "u-" + uid[:4],
		RecipientUID: recipient,
		Body:         body,
		CreatedAt:    at,
	}
	if err := stack.DB.Create(&msg).Error; err != nil {
		t.Fatalf("failed to seed chat message: %v", err)
	}
}

func TestChatHistorySeparatesRooms(t *testing.T) {
	stack := newTestStack(t)
	hub := NewChatHub(stack.DB, stack.Activity, stack.Achievements)

	alice := uuid.NewString()
	bob := uuid.NewString()
	carol := uuid.NewString()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	seedChatMessage(t, stack, alice, "", "hello everyone", base)
	seedChatMessage(t, stack, bob, "", "hi alice", base.Add(time.Minute))
	seedChatMessage(t, stack, alice, bob, "psst bob", base.Add(2*time.Minute))
	seedChatMessage(t, stack, bob, alice, "yeah?", base.Add(3*time.Minute))
	seedChatMessage(t, stack, carol, alice, "unrelated dm", base.Add(4*time.Minute))

	global, err := hub.History(alice, "", 50)
	if err != nil {
		t.Fatalf("global History failed: %v", err)
	}
	if len(global) != 2 {
		t.Fatalf("global room has %d messages, want 2", len(global))
	}
	if global[0].Body != "hello everyone" || global[1].Body != "hi alice" {
		t.Errorf("global history not oldest-first: %q, %q", global[0].Body, global[1].Body)
	}

	thread, err := hub.History(alice, bob, 50)
	if err != nil {
		t.Fatalf("direct History failed: %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("alice/bob thread has %d messages, want 2", len(thread))
	}
	for _, m := range thread {
		if m.UID == carol || m.RecipientUID == carol {
			t.Errorf("carol's message leaked into the alice/bob thread")
		}
	}
	if thread[0].Body != "psst bob" || thread[1].Body != "yeah?" {
		t.Errorf("thread not oldest-first: %q, %q", thread[0].Body, thread[1].Body)
	}
}

func TestChatHistoryLimit(t *testing.T) {
	stack := newTestStack(t)
	hub := NewChatHub(stack.DB, stack.Activity, stack.Achievements)

	uid := uuid.NewString()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		seedChatMessage(t, stack, uid, "", "msg", base.Add(time.Duration(i)*time.Second))
	}

	msgs, err := hub.History(uid, "", 5)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(msgs) != 5 {
		t.Fatalf("History returned %d messages with limit 5", len(msgs))
	}
	// the newest five, displayed oldest first
	if !msgs[0].CreatedAt.Equal(base.Add(5 * time.Second)) {
		t.Errorf("window starts at %v, want %v", msgs[0].CreatedAt, base.Add(5*time.Second))
	}
}
