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

// Referral payout, before streak scaling.
const (
	ReferralXP     = 250
	ReferralPoints = 100
)

type ReferralService struct {
	DB           *gorm.DB
	Progression  *ProgressionService
	Achievements *AchievementService
	Activity     *ActivityService
}

func NewReferralService(db *gorm.DB, progression *ProgressionService, achievements *AchievementService, activity *ActivityService) *ReferralService {
	return &ReferralService{DB: db, Progression: progression, Achievements: achievements, Activity: activity}
}

var ErrAlreadyReferred = errors.New("member was already referred")

// RecordReferral links a newly signed-up member to their referrer. A member
// can be referred at most once.
func (s *ReferralService) RecordReferral(referrerUID, referredUID, code string) (*models.Referral, error) {
	if referrerUID == referredUID {
		return nil, fmt.Errorf("member %s cannot refer themselves", referrerUID)
	}

	r := models.Referral{
		ID:          uuid.NewString(),
		ReferrerUID: referrerUID,
		ReferredUID: referredUID,
		CodeUsed:    code,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		tx.Model(&models.Referral{}).Where("referred_uid = ?", referredUID).Count(&existing)
		if existing > 0 {
			return ErrAlreadyReferred
		}
		return tx.Create(&r).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// AwardReferralBonus pays out the referrer once the referred member's
// signup is confirmed. Idempotent: an already-awarded referral is a no-op.
func (s *ReferralService) AwardReferralBonus(referralID string) error {
	var r models.Referral
	var awarded bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", referralID).First(&r).Error; err != nil {
			return err
		}
		if r.BonusAwarded {
			return nil // already processed
		}

		now := time.Now()
		r.BonusAwarded = true
		r.AwardedAt = &now
		awarded = true
		return tx.Save(&r).Error
	})
	if err != nil {
		return err
	}
	if !awarded {
		return nil
	}

	if _, err := s.Progression.AwardXP(r.ReferrerUID, ReferralXP, "referral_"+r.ReferredUID); err != nil {
		log.Printf("⚠️ referral XP award failed for %s: %v", r.ReferrerUID, err)
	}
	if _, err := s.Progression.AwardPoints(r.ReferrerUID, ReferralPoints, "referral_"+r.ReferredUID); err != nil {
		log.Printf("⚠️ referral points award failed for %s: %v", r.ReferrerUID, err)
	}

	counts, err := s.Activity.CountsFor(r.ReferrerUID)
	if err != nil {
		log.Printf("⚠️ counter query failed after referral for %s: %v", r.ReferrerUID, err)
		return nil
	}
	if err := s.Achievements.Evaluate(r.ReferrerUID, models.ProgressEvent{
		Action: models.ActionReferral,
		Counts: counts,
	}); err != nil {
		log.Printf("⚠️ referral achievement evaluation failed for %s: %v", r.ReferrerUID, err)
	}
	return nil
}
