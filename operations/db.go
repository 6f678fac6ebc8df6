package operations

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/inits"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/models"
	"github.com/hashicorp/go-memdb"
)

// Fingerprint hashes the normalized submission. Case and surrounding
// whitespace of the email are ignored, the other fields are taken as typed.
func Fingerprint(s models.ContactSubmission) string {
	h := sha256.New()
	h.Write([]byte(s.Name))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(s.Email))))
	h.Write([]byte{0})
	h.Write([]byte(s.Message))
	return hex.EncodeToString(h.Sum(nil))
}

// RecordDelivery remembers a relayed submission until now+window. Recording
// the same fingerprint again extends its expiry.
func RecordDelivery(db *memdb.MemDB, fingerprint string, now time.Time, window time.Duration) error {
	record := &models.DeliveryRecord{
		Fingerprint: fingerprint,
		Time:        now.UTC().Format(models.ExpiryLayout),
		Expiry:      now.Add(window).UTC().Format(models.ExpiryLayout),
	}

	txn := db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(inits.DeliveryTable, record); err != nil {
		return err
	}

	txn.Commit()

	logger.GetLogger().Debugw("Recorded delivery", "fingerprint", fingerprint, "expiry", record.Expiry)

	return nil
}

// RecentlyDelivered reports whether fingerprint was relayed and has not expired at now.
func RecentlyDelivered(db *memdb.MemDB, fingerprint string, now time.Time) (bool, error) {
	txn := db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(inits.DeliveryTable, "id", fingerprint)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	return raw.(*models.DeliveryRecord).ExpiresAt().After(now), nil
}
