package services

import (
	"log"
	"time"

	"club-membership-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartDailyScheduler wires the recurring jobs: mission rotation at UTC
// midnight, a streak-lapse sweep so displayed streaks go stale-to-zero
// without waiting for the member's next action, and stale shop draft expiry.
func StartDailyScheduler(missions *MissionService, shop *ShopService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(func() {
			missions.rotateDaily()
			missions.sweepLapsedStreaks()
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(6*time.Hour),
		gocron.NewTask(func() {
			shop.expireDrafts(30 * 24 * time.Hour)
		}),
	)

	// Rotate immediately so a fresh deployment has missions on day one.
	missions.rotateDaily()

	log.Println("⏰ Daily scheduler started (mission rotation, streak sweep, draft expiry)")
}

// sweepLapsedStreaks zeroes streaks for members inactive since before
// yesterday. The lazy reset in TouchStreak would catch them anyway; the
// sweep just keeps profile reads honest in between.
func (s *MissionService) sweepLapsedStreaks() {
	yesterday := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	res := s.DB.Model(&models.MemberProfile{}).
		Where("streak_days > 0 AND (last_active_date IS NULL OR last_active_date < ?)", yesterday).
		Update("streak_days", 0)
	if res.Error != nil {
		log.Printf("[Scheduler] streak sweep failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("🧹 Reset %d lapsed streak(s)", res.RowsAffected)
	}
}
