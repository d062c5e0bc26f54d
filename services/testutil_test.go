package services

import (
	"testing"

	"club-membership-system/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.MemberProfile{},
		&models.MemberAchievement{},
		&models.MirroredMember{},
		&models.Product{},
		&models.Purchase{},
		&models.Mission{},
		&models.MissionCompletion{},
		&models.Post{},
		&models.Like{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.Referral{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// newTestProfile inserts a zeroed level-1 bronze profile and returns its uid.
func newTestProfile(t *testing.T, db *gorm.DB) string {
	t.Helper()

	uid := uuid.NewString()
	prof := models.MemberProfile{
		ID:       uuid.NewString(),
		UID:      uid,
		Username: "tester",
		Level:    1,
		Rank:     RankBronze,
	}
	if err := db.Create(&prof).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return uid
}

// testStack wires the service graph the way main does, minus Redis.
type testStack struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Achievements  *AchievementService
	Progression   *ProgressionService
	Activity      *ActivityService
	Shop          *ShopService
	Missions      *MissionService
	Referrals     *ReferralService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := newTestDB(t)
	notifications := NewNotificationService(db)
	achievements := NewAchievementService(db, notifications)
	progression := NewProgressionService(db, achievements, notifications, nil)
	activity := NewActivityService(db, progression, achievements)
	shop := NewShopService(db, progression, achievements, activity)
	missions := NewMissionService(db, progression, achievements, activity, notifications)
	referrals := NewReferralService(db, progression, achievements, activity)

	return &testStack{
		DB:            db,
		Notifications: notifications,
		Achievements:  achievements,
		Progression:   progression,
		Activity:      activity,
		Shop:          shop,
		Missions:      missions,
		Referrals:     referrals,
	}
}

func (s *testStack) profile(t *testing.T, uid string) *models.MemberProfile {
	t.Helper()
	prof, err := s.Progression.GetProfile(uid)
	if err != nil {
		t.Fatalf("failed to load profile %s: %v", uid, err)
	}
	return prof
}
