package services

import (
	"context"
	"errors"
	"log"

	"club-membership-system/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leaderboardKey = "club:leaderboard:points"

// LeaderboardService mirrors point totals into a Redis sorted set for cheap
// top-N and position queries. Postgres stays the source of truth; the set
// can be rebuilt from the member_profiles table at any time.
type LeaderboardService struct {
	DB  *gorm.DB
	RDB *redis.Client
	Ctx context.Context
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, RDB: rdb, Ctx: context.Background()}
}

// SetScore mirrors a member's point total. Best-effort: a Redis failure is
// logged, never propagated to the award path.
func (s *LeaderboardService) SetScore(uid string, points int64) {
	if err := s.RDB.ZAdd(s.Ctx, leaderboardKey, redis.Z{
		Score:  float64(points),
		Member: uid,
	}).Err(); err != nil {
		log.Printf("⚠️ leaderboard mirror failed for %s: %v", uid, err)
	}
}

// Position returns the member's 1-based rank on the points leaderboard.
func (s *LeaderboardService) Position(uid string) (int64, error) {
	rank, err := s.RDB.ZRevRank(s.Ctx, leaderboardKey, uid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, errors.New("member not on leaderboard")
		}
		return 0, err
	}
	return rank + 1, nil
}

// Entry is one leaderboard row.
type Entry struct {
	Position int64  `json:"position"`
	UID      string `json:"uid"`
	Points   int64  `json:"points"`
}

// Top returns the first n leaderboard entries.
func (s *LeaderboardService) Top(n int64) ([]Entry, error) {
	if n < 1 || n > 100 {
		n = 10
	}
	zs, err := s.RDB.ZRevRangeWithScores(s.Ctx, leaderboardKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(zs))
	for i, z := range zs {
		entries = append(entries, Entry{
			Position: int64(i) + 1,
			UID:      z.Member.(string),
			Points:   int64(z.Score),
		})
	}
	return entries, nil
}

// Around returns the window of entries centered on the member, ±n spots.
func (s *LeaderboardService) Around(uid string, n int64) ([]Entry, error) {
	rank, err := s.RDB.ZRevRank(s.Ctx, leaderboardKey, uid).Result()
	if err != nil {
		return nil, err
	}

	lower := rank - n
	if lower < 0 {
		lower = 0
	}
	upper := rank + n

	zs, err := s.RDB.ZRevRangeWithScores(s.Ctx, leaderboardKey, lower, upper).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(zs))
	for i, z := range zs {
		entries = append(entries, Entry{
			Position: lower + int64(i) + 1,
			UID:      z.Member.(string),
			Points:   int64(z.Score),
		})
	}
	return entries, nil
}

// Rebuild repopulates the sorted set from the member_profiles table.
// Run at startup and periodically by the reconcile worker so a flushed or
// drifted Redis converges back to the database.
func (s *LeaderboardService) Rebuild() error {
	var profiles []models.MemberProfile
	if err := s.DB.Select("uid", "points").Find(&profiles).Error; err != nil {
		return err
	}

	pipe := s.RDB.TxPipeline()
	pipe.Del(s.Ctx, leaderboardKey)
	for _, p := range profiles {
		pipe.ZAdd(s.Ctx, leaderboardKey, redis.Z{Score: float64(p.Points), Member: p.UID})
	}
	if _, err := pipe.Exec(s.Ctx); err != nil {
		return err
	}

	log.Printf("🔄 Leaderboard rebuilt with %d member(s)", len(profiles))
	return nil
}
