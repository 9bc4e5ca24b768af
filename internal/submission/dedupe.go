package submission

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"survey-collector/internal/common/database"
	"survey-collector/internal/common/errors"
	"survey-collector/internal/common/logger"
	"survey-collector/internal/models"
)

const dedupeKeyPrefix = "submission:fp:"

// Deduper is an optional short-TTL guard against the same submission
// being forwarded twice in quick succession (double click, repeated
// POST after a page reload). It is not durable domain state: entries
// expire and the guard is consulted only before dispatch.
type Deduper struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewDeduper(redis *database.RedisClient, ttl time.Duration, log logger.Logger) *Deduper {
	return &Deduper{
		redis:  redis,
		ttl:    ttl,
		logger: log,
	}
}

// Fingerprint derives a stable content hash from the normalized
// submission. Identical payloads always produce identical prints.
func Fingerprint(sub *models.Submission) string {
	data, err := json.Marshal(sub)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Seen reports whether this fingerprint was forwarded within the TTL.
func (d *Deduper) Seen(ctx context.Context, fingerprint string) (bool, error) {
	exists, err := d.redis.Exists(ctx, dedupeKeyPrefix+fingerprint)
	if err != nil {
		return false, errors.NewDedupeCheckFailedError(err)
	}
	return exists, nil
}

// Mark records the fingerprint after a fully successful dispatch.
func (d *Deduper) Mark(ctx context.Context, fingerprint string) error {
	_, err := d.redis.SetNX(ctx, dedupeKeyPrefix+fingerprint, time.Now().UTC().Format(time.RFC3339), d.ttl)
	if err != nil {
		d.logger.Warn("Failed to record submission fingerprint", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return err
}
