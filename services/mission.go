package services

import (
	"errors"
	"log"
	"time"

	"club-membership-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MissionService struct {
	DB            *gorm.DB
	Progression   *ProgressionService
	Achievements  *AchievementService
	Activity      *ActivityService
	Notifications *NotificationService
}

func NewMissionService(db *gorm.DB, progression *ProgressionService, achievements *AchievementService, activity *ActivityService, notifications *NotificationService) *MissionService {
	return &MissionService{
		DB:            db,
		Progression:   progression,
		Achievements:  achievements,
		Activity:      activity,
		Notifications: notifications,
	}
}

// TodaysMissions lists the missions active for the current UTC day, each
// annotated with whether the member already completed it.
func (s *MissionService) TodaysMissions(uid string) ([]map[string]interface{}, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var missions []models.Mission
	if err := s.DB.Where("active = ? AND active_on = ?", true, today).Find(&missions).Error; err != nil {
		return nil, err
	}

	var done []models.MissionCompletion
	if err := s.DB.Where("uid = ? AND day = ?", uid, today).Find(&done).Error; err != nil {
		return nil, err
	}
	doneSet := make(map[string]bool, len(done))
	for _, d := range done {
		doneSet[d.MissionID] = true
	}

	out := make([]map[string]interface{}, 0, len(missions))
	for _, m := range missions {
		out = append(out, map[string]interface{}{
			"id":            m.ID,
			"title":         m.Title,
			"description":   m.Description,
			"goal":          m.Goal,
			"target":        m.Target,
			"xp_reward":     m.XPReward,
			"points_reward": m.PointsReward,
			"completed":     doneSet[m.ID],
		})
	}
	return out, nil
}

// Mission completion rejections.
var (
	ErrMissionNotActive        = errors.New("mission not active today")
	ErrMissionAlreadyCompleted = errors.New("mission already completed today")
)

// CompleteMission marks a mission done for the member, once per day, and
// pays out its streak-scaled XP and points.
func (s *MissionService) CompleteMission(uid, missionID string) (*models.MissionCompletion, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var completion *models.MissionCompletion
	var mission models.Mission

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND active = ? AND active_on = ?", missionID, true, today).
			First(&mission).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMissionNotActive
			}
			return err
		}

		var existing int64
		tx.Model(&models.MissionCompletion{}).
			Where("uid = ? AND mission_id = ? AND day = ?", uid, missionID, today).
			Count(&existing)
		if existing > 0 {
			return ErrMissionAlreadyCompleted
		}

		var prof models.MemberProfile
		if err := tx.Where("uid = ?", uid).First(&prof).Error; err != nil {
			return err
		}

		completion = &models.MissionCompletion{
			ID:        uuid.NewString(),
			UID:       uid,
			MissionID: missionID,
			Day:       today,
			XPEarned:  ScaleXP(mission.XPReward, prof.StreakDays),
		}
		return tx.Create(completion).Error
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Progression.AwardXP(uid, completion.XPEarned, "mission_"+missionID); err != nil {
		log.Printf("⚠️ mission XP award failed for %s: %v", uid, err)
	}
	if mission.PointsReward > 0 {
		if _, err := s.Progression.AwardPoints(uid, mission.PointsReward, "mission_"+missionID); err != nil {
			log.Printf("⚠️ mission points award failed for %s: %v", uid, err)
		}
	}
	if s.Notifications != nil {
		s.Notifications.Notify(uid, models.NotificationMission,
			mission.Title, "🎯 Mission complete!")
	}

	counts, err := s.Activity.CountsFor(uid)
	if err != nil {
		log.Printf("⚠️ counter query failed after mission for %s: %v", uid, err)
		return completion, nil
	}
	if err := s.Achievements.Evaluate(uid, models.ProgressEvent{
		Action: models.ActionMission,
		Counts: counts,
	}); err != nil {
		log.Printf("⚠️ mission achievement evaluation failed for %s: %v", uid, err)
	}

	return completion, nil
}

// rotateDaily publishes the day's mission set: yesterday's actives are
// retired and a fresh batch from the drafted pool gets today's date.
func (s *MissionService) rotateDaily() {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// retire yesterday's set back into the pool
		if err := tx.Model(&models.Mission{}).
			Where("active = ? AND (active_on IS NULL OR active_on < ?)", true, today).
			Updates(map[string]interface{}{"active": false, "active_on": nil}).Error; err != nil {
			return err
		}

		var pool []models.Mission
		if err := tx.Where("active = ? AND active_on IS NULL", false).
			Order("random()").
			Limit(3).
			Find(&pool).Error; err != nil {
			return err
		}

		for _, m := range pool {
			if err := tx.Model(&m).
				Updates(map[string]interface{}{"active": true, "active_on": today}).Error; err != nil {
				return err
			}
		}

		log.Printf("🎯 Daily mission rotation: %d mission(s) active for %s", len(pool), today.Format("2006-01-02"))
		return nil
	})
	if err != nil {
		log.Printf("[Scheduler] mission rotation failed: %v", err)
	}
}
