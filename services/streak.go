package services

import (
	"log"
	"time"

	"club-membership-system/models"

	"gorm.io/gorm"
)

// Streak bonus milestones, ascending. The multiplier scales XP awards;
// below the first milestone there is no bonus.
type streakMilestone struct {
	Days       int
	Multiplier float64
}

var streakMilestones = []streakMilestone{
	{3, 1.1},
	{7, 1.25},
	{14, 1.5},
	{30, 2.0},
}

// BonusMultiplier returns the XP multiplier for a streak length: the
// highest milestone whose threshold is <= streakDays, else 1.0.
func BonusMultiplier(streakDays int) float64 {
	multiplier := 1.0
	for _, m := range streakMilestones {
		if streakDays >= m.Days {
			multiplier = m.Multiplier
		}
	}
	return multiplier
}

// ScaleXP applies the member's streak multiplier to a base XP amount.
func ScaleXP(baseXP int64, streakDays int) int64 {
	return int64(float64(baseXP) * BonusMultiplier(streakDays))
}

// TouchStreak advances the member's activity streak for "now":
// same calendar day is a no-op, the next day increments, a gap resets to 1.
// Streak achievements are evaluated after an increment.
func (s *ProgressionService) TouchStreak(uid string, now time.Time) (*models.MemberProfile, error) {
	var prof models.MemberProfile
	var changed bool

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uid = ?", uid).First(&prof).Error; err != nil {
			return err
		}

		today := now.UTC().Truncate(24 * time.Hour)
		switch {
		case prof.LastActiveDate == nil:
			prof.StreakDays = 1
			changed = true
		case prof.LastActiveDate.Equal(today):
			// already counted today
		case prof.LastActiveDate.Equal(today.AddDate(0, 0, -1)):
			prof.StreakDays++
			changed = true
		default:
			prof.StreakDays = 1
			changed = true
		}

		if changed {
			prof.LastActiveDate = &today
			return tx.Save(&prof).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		if err := s.Achievements.Evaluate(uid, models.ProgressEvent{Action: models.ActionStreak}); err != nil {
			log.Printf("⚠️ streak achievement evaluation failed for %s: %v", uid, err)
		}
	}
	return &prof, nil
}
