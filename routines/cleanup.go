package routines

import (
	"context"
	"time"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/inits"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/models"
	"github.com/hashicorp/go-memdb"
)

// DefaultCleanupInterval replaces a non-positive interval.
const DefaultCleanupInterval = time.Minute

// StartCleanupRoutine purges expired delivery records every interval until
// ctx is done. It blocks; run it in its own goroutine.
func StartCleanupRoutine(ctx context.Context, db *memdb.MemDB, interval time.Duration) {
	if interval <= 0 {
		logger.GetLogger().Warnw("Invalid cleanup interval, using default",
			"interval", interval, "default", DefaultCleanupInterval)
		interval = DefaultCleanupInterval
	}
	cleanupRoutine(db, time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cleanupRoutine(db, now)
		}
	}
}

// cleanupRoutine deletes every record whose expiry is not after now and
// returns how many were removed.
func cleanupRoutine(db *memdb.MemDB, now time.Time) int {
	log := logger.GetLogger()
	cutoff := now.UTC().Format(models.ExpiryLayout)

	txn := db.Txn(true)
	defer txn.Abort()

	it, err := txn.LowerBound(inits.DeliveryTable, "expiry", "")
	if err != nil {
		log.Errorw("Failed to scan delivery table", "error", err)
		return 0
	}

	var expired []*models.DeliveryRecord
	for obj := it.Next(); obj != nil; obj = it.Next() {
		record := obj.(*models.DeliveryRecord)
		if record.Expiry > cutoff {
			break
		}
		expired = append(expired, record)
	}

	for _, record := range expired {
		if err := txn.Delete(inits.DeliveryTable, record); err != nil {
			log.Errorw("Failed to delete expired delivery", "error", err)
			return 0
		}
	}

	txn.Commit()

	if len(expired) > 0 {
		log.Infow("Deleted expired deliveries", "count", len(expired))
	}
	return len(expired)
}
