// workers/leaderboard_reconcile_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"club-membership-system/services"
)

// PollLeaderboard periodically rebuilds the Redis leaderboard mirror from
// the member_profiles table, so a flushed or drifted Redis converges back
// to the database within one interval.
func PollLeaderboard(ctx context.Context, leaderboard *services.LeaderboardService, interval time.Duration) {
	log.Println("Starting leaderboard reconcile polling...")

	// Initial rebuild so the mirror is usable right after boot
	if err := leaderboard.Rebuild(); err != nil {
		log.Printf("❌ Initial leaderboard rebuild failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Leaderboard reconcile polling stopped.")
			return
		case <-ticker.C:
			if err := leaderboard.Rebuild(); err != nil {
				log.Printf("❌ Leaderboard rebuild failed: %v", err)
			}
		}
	}
}
