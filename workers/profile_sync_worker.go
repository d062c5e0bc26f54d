// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"club-membership-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberFromProfileService matches the JSON the external auth/profile
// service returns for changed members.
type MemberFromProfileService struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	Bio        *string   `json:"bio,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetMemberChangesResponse is the top-level structure of the sync response.
type GetMemberChangesResponse struct {
	Members []MemberFromProfileService `json:"members"`
}

// ProfileSyncWorker mirrors identity fields (username, avatar) from the
// external profile service into mirrored_members, and keeps the username on
// member_profiles fresh. Progression data never flows the other way.
type ProfileSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, syncServiceBaseURL, endpointPath, serviceToken string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      syncServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (profile-service → mirrored_members)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial profile sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("❌ Profile sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt in the local mirror.
func (w *ProfileSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	w.db.Model(&models.MirroredMember{}).
		Select("COALESCE(MAX(updated_at), '0001-01-01'::timestamptz)").
		Scan(&lastTime)
	return lastTime
}

func (w *ProfileSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	u, err := url.Parse(w.baseURL + w.endpointPath)
	if err != nil {
		return fmt.Errorf("failed to parse sync URL: %w", err)
	}
	q := u.Query()
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call profile service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("profile service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response GetMemberChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode profile service response: %w", err)
	}
	if len(response.Members) == 0 {
		return nil
	}

	mirrors := make([]models.MirroredMember, 0, len(response.Members))
	for _, m := range response.Members {
		mirrors = append(mirrors, models.MirroredMember{
			ID:        uuid.NewString(),
			UID:       m.ExternalID,
			Username:  m.Username,
			Email:     m.Email,
			AvatarURL: m.AvatarURL,
			Bio:       m.Bio,
		})
	}

	// Bulk upsert on UID; one statement on PostgreSQL
	if err := w.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "email", "avatar_url", "bio", "updated_at"}),
	}).Create(&mirrors).Error; err != nil {
		return fmt.Errorf("failed to upsert mirrored members: %w", err)
	}

	// Keep the denormalized username on progression rows fresh
	for _, m := range mirrors {
		w.db.Model(&models.MemberProfile{}).
			Where("uid = ? AND username <> ?", m.UID, m.Username).
			Updates(map[string]interface{}{"username": m.Username, "avatar_url": m.AvatarURL})
	}

	log.Printf("📥 Profile sync: upserted %d member(s)", len(mirrors))
	return nil
}
