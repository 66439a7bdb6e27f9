// workers/user_sync_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"scoreboard-system/models"
	"scoreboard-system/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserSyncWorker keeps local user snapshots (name, email) fresh against the
// external identity service. It never touches is_payment_confirmed — that
// gate is owned by the admin payment flow.
type UserSyncWorker struct {
	db       *gorm.DB
	identity *services.IdentityClient
	interval time.Duration
}

func NewUserSyncWorker(db *gorm.DB, identity *services.IdentityClient) *UserSyncWorker {
	return &UserSyncWorker{
		db:       db,
		identity: identity,
		interval: 1 * time.Minute,
	}
}

func (w *UserSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting User Sync Worker (identity service → users)…")
	go w.run(ctx)
}

func (w *UserSyncWorker) run(ctx context.Context) {
	// Initial backfill: pick up anything changed while we were down.
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)
	if err := w.syncBatch(lastSyncTime); err != nil {
		log.Printf("⚠️ Initial user sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("User sync worker stopped.")
			return
		case <-ticker.C:
			syncStart := time.Now().UTC()
			if err := w.syncBatch(lastSyncTime); err != nil {
				log.Printf("❌ User sync batch failed: %v", err)
				continue
			}
			lastSyncTime = syncStart
		}
	}
}

func (w *UserSyncWorker) syncBatch(since time.Time) error {
	profiles, err := w.identity.ListChangedProfiles(since)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return nil
	}

	users := make([]models.User, 0, len(profiles))
	for _, p := range profiles {
		name := p.Name
		if name == "" {
			name = p.Email
		}
		users = append(users, models.User{
			ID:             uuid.NewString(),
			ExternalUserID: p.ID,
			Email:          p.Email,
			Name:           name,
		})
	}

	// Bulk upsert keyed on the identity service's id. Only the snapshot
	// columns are overwritten for existing rows.
	err = w.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(&users).Error
	if err != nil {
		return err
	}

	log.Printf("📥 Synced %d user profile(s) from identity service", len(users))
	return nil
}
