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

// ProgressionService owns the member profile rows and keeps the derived
// fields honest: Level always equals CalculateLevel(XP) after an XP
// mutation, Rank equals RankFromPoints(Points) after an award. Spending
// points deliberately does not re-derive the rank.
type ProgressionService struct {
	DB            *gorm.DB
	Achievements  *AchievementService
	Notifications *NotificationService
	Leaderboard   *LeaderboardService
}

func NewProgressionService(db *gorm.DB, achievements *AchievementService, notifications *NotificationService, leaderboard *LeaderboardService) *ProgressionService {
	return &ProgressionService{
		DB:            db,
		Achievements:  achievements,
		Notifications: notifications,
		Leaderboard:   leaderboard,
	}
}

// EnsureProfile creates the member's profile on first sight (idempotent).
// A fresh profile starts zeroed at level 1 / bronze and immediately runs a
// signup evaluation, which grants the starter achievement.
func (s *ProgressionService) EnsureProfile(uid, username string) (*models.MemberProfile, error) {
	var prof models.MemberProfile
	err := s.DB.Where("uid = ?", uid).First(&prof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prof = models.MemberProfile{
			ID:       uuid.NewString(),
			UID:      uid,
			Username: username,
			Points:   0,
			XP:       0,
			Level:    1,
			Rank:     RankBronze,
		}
		if err := s.DB.Create(&prof).Error; err != nil {
			return nil, err
		}
		if evalErr := s.Achievements.Evaluate(uid, models.ProgressEvent{Action: models.ActionSignup}); evalErr != nil {
			log.Printf("⚠️ signup achievement evaluation failed for %s: %v", uid, evalErr)
		}
		// re-read to pick up the starter achievement's XP
		if err := s.DB.Where("uid = ?", uid).First(&prof).Error; err != nil {
			return nil, err
		}
		return &prof, nil
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

// GetProfile fetches a profile, gorm.ErrRecordNotFound when absent.
func (s *ProgressionService) GetProfile(uid string) (*models.MemberProfile, error) {
	var prof models.MemberProfile
	if err := s.DB.Where("uid = ?", uid).First(&prof).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

// AwardXP adds XP (already streak-scaled by the caller where that applies)
// and re-derives the level, announcing a level-up when one happens.
func (s *ProgressionService) AwardXP(uid string, xp int64, reason string) (*models.MemberProfile, error) {
	if xp < 0 {
		return nil, fmt.Errorf("xp award must be non-negative, got %d", xp)
	}

	var updated *models.MemberProfile
	var leveledUp bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.MemberProfile
		if err := tx.Where("uid = ?", uid).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", uid)
		}

		prof.XP += xp
		if newLevel := CalculateLevel(prof.XP); newLevel > prof.Level {
			prof.Level = newLevel
			now := time.Now()
			prof.LastLevelUpAt = &now
			leveledUp = true
		}

		if err := tx.Save(&prof).Error; err != nil {
			return err
		}

		updated = &models.MemberProfile{}
		*updated = prof
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎮 XP awarded: %s → XP=%d, Lvl=%d (reason: %s)", uid, updated.XP, updated.Level, reason)
	if leveledUp && s.Notifications != nil {
		s.Notifications.Notify(uid, models.NotificationLevelUp,
			fmt.Sprintf("Level %d", updated.Level),
			fmt.Sprintf("⬆️ You reached level %d!", updated.Level))
	}
	return updated, nil
}

// AwardPoints adds spendable points, re-derives the rank upward, mirrors the
// new total to the leaderboard, and announces a rank-up.
func (s *ProgressionService) AwardPoints(uid string, points int64, reason string) (*models.MemberProfile, error) {
	if points < 0 {
		return nil, fmt.Errorf("points award must be non-negative, got %d", points)
	}

	var updated *models.MemberProfile
	var rankedUp bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.MemberProfile
		if err := tx.Where("uid = ?", uid).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", uid)
		}

		prof.Points += points
		if newRank := RankFromPoints(prof.Points); RankAtLeast(newRank, prof.Rank) && newRank != prof.Rank {
			prof.Rank = newRank
			now := time.Now()
			prof.LastRankUpAt = &now
			rankedUp = true
		}

		if err := tx.Save(&prof).Error; err != nil {
			return err
		}

		updated = &models.MemberProfile{}
		*updated = prof
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💎 Points awarded: %s → Points=%d, Rank=%s (reason: %s)", uid, updated.Points, updated.Rank, reason)
	if s.Leaderboard != nil {
		s.Leaderboard.SetScore(uid, updated.Points)
		s.checkRankingAchievements(uid)
	}
	if rankedUp && s.Notifications != nil {
		s.Notifications.Notify(uid, models.NotificationRankUp,
			fmt.Sprintf("Rank up: %s", updated.Rank),
			fmt.Sprintf("🏆 You are now %s tier!", updated.Rank))
	}
	return updated, nil
}

// ErrInsufficientPoints rejects a spend larger than the balance.
var ErrInsufficientPoints = errors.New("insufficient points")

// SpendPoints deducts points inside the given transaction. Rank stays where
// it is: tiers never downgrade on spend.
func (s *ProgressionService) SpendPoints(tx *gorm.DB, uid string, points int64) (*models.MemberProfile, error) {
	var prof models.MemberProfile
	if err := tx.Where("uid = ?", uid).First(&prof).Error; err != nil {
		return nil, err
	}
	if prof.Points < points {
		return nil, ErrInsufficientPoints
	}
	prof.Points -= points
	if err := tx.Save(&prof).Error; err != nil {
		return nil, err
	}

	if s.Leaderboard != nil {
		s.Leaderboard.SetScore(uid, prof.Points)
	}
	return &prof, nil
}

// checkRankingAchievements asks the leaderboard where the member sits and
// feeds the position through the evaluator, best-effort.
func (s *ProgressionService) checkRankingAchievements(uid string) {
	pos, err := s.Leaderboard.Position(uid)
	if err != nil {
		log.Printf("⚠️ leaderboard position lookup failed for %s: %v", uid, err)
		return
	}
	if err := s.Achievements.Evaluate(uid, models.ProgressEvent{
		Action:          models.ActionRanking,
		RankingPosition: pos,
	}); err != nil {
		log.Printf("⚠️ ranking achievement evaluation failed for %s: %v", uid, err)
	}
}
