package services

import (
	"testing"
	"time"
)

func TestBonusMultiplier(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{0, 1.0},
		{1, 1.0},
		{2, 1.0},
		{3, 1.1},
		{6, 1.1},
		{7, 1.25},
		{13, 1.25},
		{14, 1.5},
		{29, 1.5},
		{30, 2.0},
		{365, 2.0},
	}
	for _, tt := range tests {
		if got := BonusMultiplier(tt.days); got != tt.want {
			t.Errorf("BonusMultiplier(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestScaleXP(t *testing.T) {
	tests := []struct {
		base int64
		days int
		want int64
	}{
		{100, 0, 100},
		{100, 3, 110},
		{100, 7, 125},
		{100, 14, 150},
		{100, 30, 200},
		{20, 7, 25},
		{5, 3, 5}, // 5.5 truncates
	}
	for _, tt := range tests {
		if got := ScaleXP(tt.base, tt.days); got != tt.want {
			t.Errorf("ScaleXP(%d, %d) = %d, want %d", tt.base, tt.days, got, tt.want)
		}
	}
}

func TestTouchStreakLifecycle(t *testing.T) {
	stack := newTestStack(t)
	uid := newTestProfile(t, stack.DB)

	day1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	prof, err := stack.Progression.TouchStreak(uid, day1)
	if err != nil {
		t.Fatalf("first touch failed: %v", err)
	}
	if prof.StreakDays != 1 {
		t.Fatalf("first touch: StreakDays = %d, want 1", prof.StreakDays)
	}

	// A second touch later the same day must not count twice.
	prof, err = stack.Progression.TouchStreak(uid, day1.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("same-day touch failed: %v", err)
	}
	if prof.StreakDays != 1 {
		t.Errorf("same-day touch: StreakDays = %d, want 1", prof.StreakDays)
	}

	// Consecutive days extend the streak.
	for i := 1; i <= 4; i++ {
		prof, err = stack.Progression.TouchStreak(uid, day1.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("touch on day %d failed: %v", i+1, err)
		}
	}
	if prof.StreakDays != 5 {
		t.Errorf("after 5 consecutive days: StreakDays = %d, want 5", prof.StreakDays)
	}

	// Skipping a day resets to 1.
	prof, err = stack.Progression.TouchStreak(uid, day1.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("touch after gap failed: %v", err)
	}
	if prof.StreakDays != 1 {
		t.Errorf("after a missed day: StreakDays = %d, want 1", prof.StreakDays)
	}
}

func TestTouchStreakUnlocksMilestoneAchievement(t *testing.T) {
	stack := newTestStack(t)
	uid := newTestProfile(t, stack.DB)

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := stack.Progression.TouchStreak(uid, start.AddDate(0, 0, i)); err != nil {
			t.Fatalf("touch on day %d failed: %v", i+1, err)
		}
	}

	unlocked, err := stack.Achievements.ListForMember(uid)
	if err != nil {
		t.Fatalf("ListForMember failed: %v", err)
	}
	found := false
	for _, a := range unlocked {
		if a["id"] == "streak-3" {
			found = true
		}
	}
	if !found {
		t.Errorf("streak-3 not unlocked after a 3-day streak; got %d unlocks", len(unlocked))
	}
}
