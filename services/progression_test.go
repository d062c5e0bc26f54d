package services

import (
	"errors"
	"testing"

	"club-membership-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestEnsureProfileGrantsStarter(t *testing.T) {
	stack := newTestStack(t)
	uid := uuid.NewString()

	prof, err := stack.Progression.EnsureProfile(uid, "newcomer")
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}
	if prof.Level != 1 || prof.Rank != RankBronze || prof.Points != 0 {
		t.Errorf("fresh profile = %+v, want level 1 bronze with 0 points", prof)
	}
	// welcome is common rarity
	if prof.XP != 50 {
		t.Errorf("XP = %d after signup, want 50 from the starter unlock", prof.XP)
	}

	// a second call must not double-grant
	again, err := stack.Progression.EnsureProfile(uid, "newcomer")
	if err != nil {
		t.Fatalf("repeat EnsureProfile failed: %v", err)
	}
	if again.XP != 50 {
		t.Errorf("XP = %d after repeat EnsureProfile, want 50", again.XP)
	}

	var n int64
	stack.DB.Model(&models.MemberProfile{}).Where("uid = ?", uid).Count(&n)
	if n != 1 {
		t.Errorf("profile rows = %d, want 1", n)
	}
}

func TestAwardXPLevelsUp(t *testing.T) {
	stack := newTestStack(t)
	uid := newTestProfile(t, stack.DB)

	prof, err := stack.Progression.AwardXP(uid, 250, "test")
	if err != nil {
		t.Fatalf("AwardXP failed: %v", err)
	}
	// 250 XP clears the 100 and 220 cumulative bars
	if prof.Level != 3 {
		t.Errorf("Level = %d at 250 XP, want 3", prof.Level)
	}
	if prof.LastLevelUpAt == nil {
		t.Errorf("LastLevelUpAt not stamped on level-up")
	}

	if _, err := stack.Progression.AwardXP(uid, -1, "test"); err == nil {
		t.Errorf("negative XP award was accepted")
	}
}

func TestAwardPointsPromotesRank(t *testing.T) {
	stack := newTestStack(t)
	uid := newTestProfile(t, stack.DB)

	prof, err := stack.Progression.AwardPoints(uid, 499, "test")
	if err != nil {
		t.Fatalf("AwardPoints failed: %v", err)
	}
	if prof.Rank != RankBronze {
		t.Errorf("rank = %s at 499 points, want bronze", prof.Rank)
	}

	prof, err = stack.Progression.AwardPoints(uid, 1, "test")
	if err != nil {
		t.Fatalf("AwardPoints failed: %v", err)
	}
	if prof.Rank != RankSilver {
		t.Errorf("rank = %s at 500 points, want silver", prof.Rank)
	}
	if prof.LastRankUpAt == nil {
		t.Errorf("LastRankUpAt not stamped on rank-up")
	}
}

func TestSpendPointsInsufficient(t *testing.T) {
	stack := newTestStack(t)
	uid := newTestProfile(t, stack.DB)
	setPoints(t, stack, uid, 30)

	err := stack.DB.Transaction(func(tx *gorm.DB) error {
		_, err := stack.Progression.SpendPoints(tx, uid, 100)
		return err
	})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("SpendPoints returned %v, want ErrInsufficientPoints", err)
	}
	if prof := stack.profile(t, uid); prof.Points != 30 {
		t.Errorf("points = %d after rejected spend, want 30", prof.Points)
	}
}

func TestReferralBonusPaysOnce(t *testing.T) {
	stack := newTestStack(t)
	referrer := newTestProfile(t, stack.DB)
	referred := uuid.NewString()

	r, err := stack.Referrals.RecordReferral(referrer, referred, "CLUB123")
	if err != nil {
		t.Fatalf("RecordReferral failed: %v", err)
	}

	// the same member cannot be referred twice
	if _, err := stack.Referrals.RecordReferral(referrer, referred, "CLUB123"); !errors.Is(err, ErrAlreadyReferred) {
		t.Fatalf("duplicate referral returned %v, want ErrAlreadyReferred", err)
	}
	if _, err := stack.Referrals.RecordReferral(referrer, referrer, "CLUB123"); err == nil {
		t.Fatalf("self-referral was accepted")
	}

	for i := 0; i < 2; i++ {
		if err := stack.Referrals.AwardReferralBonus(r.ID); err != nil {
			t.Fatalf("AwardReferralBonus #%d failed: %v", i+1, err)
		}
	}

	prof := stack.profile(t, referrer)
	if prof.Points != ReferralPoints {
		t.Errorf("points = %d after double award call, want %d", prof.Points, ReferralPoints)
	}
	// 250 referral XP plus the first-referral rare unlock
	if prof.XP != ReferralXP+150 {
		t.Errorf("XP = %d, want %d", prof.XP, ReferralXP+150)
	}
}
