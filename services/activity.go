package services

import (
	"errors"
	"log"
	"mime/multipart"
	"path/filepath"
	"time"

	"club-membership-system/models"
	"club-membership-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XP granted for feed actions, before streak scaling.
const (
	PostXP = 20
	LikeXP = 5
)

// ActivityService records the feed events (posts, likes) that drive the
// achievement evaluator, and produces the on-demand counter bundle.
type ActivityService struct {
	DB           *gorm.DB
	Progression  *ProgressionService
	Achievements *AchievementService
}

func NewActivityService(db *gorm.DB, progression *ProgressionService, achievements *AchievementService) *ActivityService {
	return &ActivityService{DB: db, Progression: progression, Achievements: achievements}
}

// CountsFor re-queries every counter collection for the member. No caching:
// each evaluation sees fresh counts.
func (s *ActivityService) CountsFor(uid string) (models.ActivityCounts, error) {
	var c models.ActivityCounts

	if err := s.DB.Model(&models.Post{}).Where("uid = ?", uid).Count(&c.PostCount).Error; err != nil {
		return c, err
	}
	if err := s.DB.Model(&models.Like{}).Where("uid = ?", uid).Count(&c.LikeCount).Error; err != nil {
		return c, err
	}
	if err := s.DB.Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.uid = ?", uid).
		Count(&c.ReceivedLikes).Error; err != nil {
		return c, err
	}
	if err := s.DB.Model(&models.ChatMessage{}).Where("uid = ?", uid).Count(&c.MessageCount).Error; err != nil {
		return c, err
	}
	if err := s.DB.Model(&models.Purchase{}).Where("uid = ?", uid).Count(&c.PurchaseCount).Error; err != nil {
		return c, err
	}
	if err := s.DB.Model(&models.Referral{}).Where("referrer_uid = ? AND bonus_awarded = ?", uid, true).Count(&c.ReferralCount).Error; err != nil {
		return c, err
	}
	if err := s.DB.Model(&models.MissionCompletion{}).Where("uid = ?", uid).Count(&c.MissionCount).Error; err != nil {
		return c, err
	}
	return c, nil
}

// CreatePost stores the post, awards streak-scaled XP and runs the
// evaluator. Progression side effects are best-effort: the post itself
// succeeds even when they fail.
func (s *ActivityService) CreatePost(uid, body, imageURL string) (*models.Post, error) {
	post := models.Post{ID: uuid.NewString(), UID: uid, Body: body, ImageURL: imageURL}
	if err := s.DB.Create(&post).Error; err != nil {
		return nil, err
	}

	s.afterAction(uid, models.ActionPost, PostXP, "post_created")
	return &post, nil
}

// ErrAlreadyLiked rejects a duplicate like on the same post.
var ErrAlreadyLiked = errors.New("post already liked")

// LikePost records the like, bumps the post's counter, and fires the
// like-side progression for the liker. Duplicate detection rides on the
// (uid, post_id) unique index so concurrent duplicates cannot slip past a
// read-then-write check.
func (s *ActivityService) LikePost(uid, postID string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.Like{ID: uuid.NewString(), UID: uid, PostID: postID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return err
		}
		return tx.Model(&post).Update("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return err
	}

	s.afterAction(uid, models.ActionLike, LikeXP, "like_given")
	return nil
}

// AttachPostImage saves an uploaded image to the local uploads directory
// and records its serving URL on the member's own post.
func (s *ActivityService) AttachPostImage(uid, postID string, fileHeader *multipart.FileHeader) (string, error) {
	var post models.Post
	if err := s.DB.Where("id = ? AND uid = ?", postID, uid).First(&post).Error; err != nil {
		return "", err
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".png"
	}
	filename := "posts/" + postID + ext
	if err := utils.SaveFile(fileHeader, utils.GetUploadPath(filename)); err != nil {
		return "", err
	}

	imageURL := "/uploads/" + filename
	if err := s.DB.Model(&post).Update("image_url", imageURL).Error; err != nil {
		return "", err
	}
	return imageURL, nil
}

// ListPosts returns the newest posts, paginated.
func (s *ActivityService) ListPosts(page, size int) ([]models.Post, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	var posts []models.Post
	err := s.DB.Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&posts).Error
	return posts, err
}

// afterAction runs the streak touch, XP award, and achievement evaluation
// that follow any feed action. All best-effort, logged on failure.
func (s *ActivityService) afterAction(uid string, action models.EventAction, baseXP int64, reason string) {
	prof, err := s.Progression.TouchStreak(uid, time.Now())
	if err != nil {
		log.Printf("⚠️ streak touch failed for %s: %v", uid, err)
	}

	streakDays := 0
	if prof != nil {
		streakDays = prof.StreakDays
	}
	if _, err := s.Progression.AwardXP(uid, ScaleXP(baseXP, streakDays), reason); err != nil {
		log.Printf("⚠️ XP award failed for %s (%s): %v", uid, reason, err)
	}

	counts, err := s.CountsFor(uid)
	if err != nil {
		log.Printf("⚠️ counter query failed for %s: %v", uid, err)
		return
	}
	if err := s.Achievements.Evaluate(uid, models.ProgressEvent{Action: action, Counts: counts}); err != nil {
		log.Printf("⚠️ achievement evaluation failed for %s: %v", uid, err)
	}
}
