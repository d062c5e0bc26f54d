package services

import (
	"testing"

	"club-membership-system/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func newTestLeaderboard(t *testing.T, db *gorm.DB) *LeaderboardService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLeaderboardService(db, rdb)
}

func TestLeaderboardTopAndPosition(t *testing.T) {
	lb := newTestLeaderboard(t, newTestDB(t))

	lb.SetScore("alice", 300)
	lb.SetScore("bob", 100)
	lb.SetScore("carol", 200)

	top, err := lb.Top(10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Top returned %d entries, want 3", len(top))
	}
	if top[0].UID != "alice" || top[1].UID != "carol" || top[2].UID != "bob" {
		t.Errorf("order = %s, %s, %s; want alice, carol, bob", top[0].UID, top[1].UID, top[2].UID)
	}
	if top[0].Position != 1 || top[0].Points != 300 {
		t.Errorf("top entry = %+v, want position 1 with 300 points", top[0])
	}

	pos, err := lb.Position("carol")
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if pos != 2 {
		t.Errorf("Position(carol) = %d, want 2", pos)
	}

	if _, err := lb.Position("nobody"); err == nil {
		t.Errorf("Position for an unlisted member returned no error")
	}

	// SetScore overwrites, it does not accumulate
	lb.SetScore("bob", 500)
	pos, err = lb.Position("bob")
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if pos != 1 {
		t.Errorf("Position(bob) = %d after overtaking, want 1", pos)
	}
}

func TestLeaderboardAroundClampsAtTop(t *testing.T) {
	lb := newTestLeaderboard(t, newTestDB(t))

	for i, uid := range []string{"a", "b", "c", "d", "e", "f"} {
		lb.SetScore(uid, int64(600-100*i))
	}

	window, err := lb.Around("b", 3)
	if err != nil {
		t.Fatalf("Around failed: %v", err)
	}
	// member sits at position 2; the lower edge clamps to position 1
	if window[0].Position != 1 || window[0].UID != "a" {
		t.Errorf("window starts at %+v, want position 1 (a)", window[0])
	}
	if len(window) != 5 {
		t.Errorf("window has %d entries, want 5 (positions 1-5)", len(window))
	}
}

func TestLeaderboardRebuild(t *testing.T) {
	db := newTestDB(t)
	lb := newTestLeaderboard(t, db)

	for i, name := range []string{"one", "two", "three"} {
		prof := models.MemberProfile{
			ID:       uuid.NewString(),
			UID:      name,
			Username: name,
			Points:   int64(100 * (i + 1)),
			Level:    1,
			Rank:     RankBronze,
		}
		if err := db.Create(&prof).Error; err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}
	}

	// a stale entry with no backing row must not survive the rebuild
	lb.SetScore("ghost", 9999)

	if err := lb.Rebuild(); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	top, err := lb.Top(10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Top returned %d entries after rebuild, want 3", len(top))
	}
	if top[0].UID != "three" || top[0].Points != 300 {
		t.Errorf("top entry = %+v, want three with 300 points", top[0])
	}
	if _, err := lb.Position("ghost"); err == nil {
		t.Errorf("stale ghost entry survived the rebuild")
	}
}

func TestRankingAchievementFromPointsAward(t *testing.T) {
	db := newTestDB(t)
	lb := newTestLeaderboard(t, db)

	notifications := NewNotificationService(db)
	achievements := NewAchievementService(db, notifications)
	progression := NewProgressionService(db, achievements, notifications, lb)

	leader := newTestProfile(t, db)
	if _, err := progression.AwardPoints(leader, 100, "seed"); err != nil {
		t.Fatalf("AwardPoints failed: %v", err)
	}

	var n int64
	db.Model(&models.MemberAchievement{}).
		Where("uid = ? AND achievement_id = ?", leader, "top-3-ranking").
		Count(&n)
	if n != 1 {
		t.Errorf("top-3-ranking unlock count = %d for the points leader, want 1", n)
	}

	// fill the podium, then a fourth member lands at position 4
	for _, pts := range []int64{400, 300, 200} {
		uid := newTestProfile(t, db)
		if _, err := progression.AwardPoints(uid, pts, "seed"); err != nil {
			t.Fatalf("AwardPoints failed: %v", err)
		}
	}
	straggler := newTestProfile(t, db)
	if _, err := progression.AwardPoints(straggler, 50, "seed"); err != nil {
		t.Fatalf("AwardPoints failed: %v", err)
	}

	db.Model(&models.MemberAchievement{}).
		Where("uid = ? AND achievement_id = ?", straggler, "top-3-ranking").
		Count(&n)
	if n != 0 {
		t.Errorf("top-3-ranking unlocked at position 4")
	}
}
