package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"club-membership-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewAchievementService(db *gorm.DB, notifications *NotificationService) *AchievementService {
	return &AchievementService{DB: db, Notifications: notifications}
}

// Evaluate runs every catalog rule against the member's current profile and
// the triggering event. Newly satisfied rules each unlock in their own write:
// the achievement row and the XP/level update land in one transaction, then
// a toast goes out. A missing profile aborts silently: unlocking is a
// side effect of the triggering action and must never surface an error to it.
func (s *AchievementService) Evaluate(uid string, event models.ProgressEvent) error {
	var prof models.MemberProfile
	if err := s.DB.Where("uid = ?", uid).First(&prof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ achievement evaluation skipped: no profile for %s", uid)
			return nil
		}
		return err
	}

	unlocked, err := s.unlockedSet(uid)
	if err != nil {
		return err
	}

	for i := range models.AchievementCatalog {
		def := &models.AchievementCatalog[i]
		if unlocked[def.ID] {
			continue
		}
		if !ruleSatisfied(def, &prof, event) {
			continue
		}
		if err := s.unlock(&prof, def); err != nil {
			// Partial unlocks are fine: re-evaluation is idempotent and
			// the next triggering event picks up whatever was missed.
			log.Printf("❌ failed to unlock %s for %s: %v", def.ID, uid, err)
			continue
		}
		unlocked[def.ID] = true
	}
	return nil
}

func (s *AchievementService) unlockedSet(uid string) (map[string]bool, error) {
	var rows []models.MemberAchievement
	if err := s.DB.Where("uid = ?", uid).Find(&rows).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(rows))
	for _, r := range rows {
		set[r.AchievementID] = true
	}
	return set, nil
}

// ruleSatisfied checks one catalog entry against the profile snapshot and
// the event's counters. An action-tagged rule only fires on its own action.
func ruleSatisfied(def *models.AchievementDefinition, prof *models.MemberProfile, event models.ProgressEvent) bool {
	if def.Action != "" && def.Action != string(event.Action) {
		return false
	}
	for key, required := range def.Threshold {
		switch key {
		case "streak_days":
			if int64(prof.StreakDays) < required {
				return false
			}
		case "level":
			if int64(prof.Level) < required {
				return false
			}
		case "ranking_position":
			// position 1 is best: fires at or above the required spot
			if event.RankingPosition < 1 || event.RankingPosition > required {
				return false
			}
		case "post_count":
			if event.Counts.PostCount < required {
				return false
			}
		case "like_count":
			if event.Counts.LikeCount < required {
				return false
			}
		case "received_likes":
			if event.Counts.ReceivedLikes < required {
				return false
			}
		case "message_count":
			if event.Counts.MessageCount < required {
				return false
			}
		case "purchase_count":
			if event.Counts.PurchaseCount < required {
				return false
			}
		case "referral_count":
			if event.Counts.ReferralCount < required {
				return false
			}
		case "mission_count":
			if event.Counts.MissionCount < required {
				return false
			}
		default:
			// unknown key: rule can never fire
			return false
		}
	}
	return true
}

// unlock appends the achievement, adds its rarity XP and re-derives the
// level, all in one transaction, then notifies the member.
func (s *AchievementService) unlock(prof *models.MemberProfile, def *models.AchievementDefinition) error {
	xp := def.Rarity.XPReward()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		row := models.MemberAchievement{
			ID:            uuid.NewString(),
			UID:           prof.UID,
			AchievementID: def.ID,
			XPAwarded:     xp,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		prof.XP += xp
		if newLevel := CalculateLevel(prof.XP); newLevel > prof.Level {
			prof.Level = newLevel
			now := time.Now()
			prof.LastLevelUpAt = &now
		}
		return tx.Save(prof).Error
	})
	if err != nil {
		return err
	}

	log.Printf("🏅 Achievement unlocked: %s → %s (+%d XP)", def.Name, prof.UID, xp)
	if s.Notifications != nil {
		s.Notifications.Notify(prof.UID, models.NotificationAchievement,
			def.Name, fmt.Sprintf("%s Achievement unlocked! +%d XP", def.Icon, xp))
	}
	return nil
}

// ListForMember returns the member's unlocked achievements joined with
// their catalog entries. Ids with no catalog entry are skipped.
func (s *AchievementService) ListForMember(uid string) ([]map[string]interface{}, error) {
	var rows []models.MemberAchievement
	if err := s.DB.Where("uid = ?", uid).Order("unlocked_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, r := range rows {
		def := models.AchievementByID(r.AchievementID)
		if def == nil {
			continue
		}
		out = append(out, map[string]interface{}{
			"id":          def.ID,
			"name":        def.Name,
			"description": def.Description,
			"icon":        def.Icon,
			"rarity":      def.Rarity,
			"xp_awarded":  r.XPAwarded,
			"unlocked_at": r.UnlockedAt,
		})
	}
	return out, nil
}
