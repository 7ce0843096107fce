package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/online-courses-api/model"
	"gorm.io/gorm"
)

// TokenCleaner removes revoked tokens that have expired anyway
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// CleanupJob removes old data to keep the database clean.
// Scheduled daily at 2 AM.
type CleanupJob struct {
	db       *gorm.DB
	tokens   TokenCleaner
	keepLogs time.Duration
	now      func() time.Time
}

// NewCleanupJob creates the cleanup job. Cron logs older than keepLogs are removed.
func NewCleanupJob(db *gorm.DB, tokens TokenCleaner, keepLogs time.Duration) *CleanupJob {
	if keepLogs <= 0 {
		keepLogs = 90 * 24 * time.Hour
	}
	return &CleanupJob{db: db, tokens: tokens, keepLogs: keepLogs, now: time.Now}
}

func (j *CleanupJob) Name() string { return "cleanup_old_data" }

func (j *CleanupJob) Run(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	// 1. Blacklisted tokens past their expiry
	tokens, err := j.tokens.CleanupExpiredTokens(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to clean token blacklist: %w", err)
	}

	// 2. Old cron job logs, never the running ones
	cutoff := j.now().Add(-j.keepLogs)
	result := j.db.WithContext(ctx).
		Where("created_at < ? AND status <> ?", cutoff, model.JobStatusRunning).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		return "", fmt.Errorf("failed to clean cron logs: %w", result.Error)
	}

	return fmt.Sprintf("Cleaned %d expired tokens and %d old cron logs", tokens, result.RowsAffected), nil
}
