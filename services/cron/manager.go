package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/utils/cache"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Job is a unit of background work. Run returns a short summary on success.
type Job interface {
	Name() string
	Run(ctx context.Context) (string, error)
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Config controls retry behaviour of dispatched jobs
type Config struct {
	MaxAttempts int
	// Backoff is the delay before the second attempt; it doubles afterwards.
	Backoff time.Duration
	// LockTTL bounds how long a job holds its distributed lock.
	LockTTL time.Duration
}

// CronManager schedules jobs and dispatches them asynchronously
type CronManager struct {
	cron  *cron.Cron
	db    *gorm.DB
	log   zerolog.Logger
	cfg   Config
	locks *cache.RedisCache

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCronManager creates a new cron manager. locks may be nil, in which case
// overlapping runs are not prevented across instances.
func NewCronManager(db *gorm.DB, log zerolog.Logger, cfg Config, locks *cache.RedisCache) *CronManager {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 5 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &CronManager{
		// Create cron with seconds precision
		cron:   cron.New(cron.WithSeconds()),
		db:     db,
		log:    log.With().Str("component", "cron").Logger(),
		cfg:    cfg,
		locks:  locks,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule registers job under a six-field cron expression
func (m *CronManager) Schedule(spec string, job Job) error {
	_, err := m.cron.AddFunc(spec, func() {
		m.wg.Add(1)
		defer m.wg.Done()
		m.runWithRetry(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name(), err)
	}

	m.log.Info().Str("job", job.Name()).Str("schedule", spec).Msg("job scheduled")
	return nil
}

// Start starts the scheduler
func (m *CronManager) Start() {
	m.cron.Start()
	m.log.Info().Int("entries", len(m.cron.Entries())).Msg("cron jobs started")
}

// Dispatch runs job in the background and returns immediately
func (m *CronManager) Dispatch(job Job) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.runWithRetry(job)
	}()
}

// Stop stops the scheduler, cancels running jobs and waits for them to return
func (m *CronManager) Stop() {
	m.log.Info().Msg("stopping cron jobs")
	<-m.cron.Stop().Done()
	m.cancel()
	m.wg.Wait()
	m.log.Info().Msg("cron jobs stopped")
}

// Wait blocks until every dispatched job has returned
func (m *CronManager) Wait() {
	m.wg.Wait()
}

func (m *CronManager) runWithRetry(job Job) {
	name := job.Name()

	if !m.acquireLock(name) {
		m.log.Warn().Str("job", name).Msg("job already running elsewhere, skipping")
		return
	}
	defer m.releaseLock(name)

	for attempt := 1; attempt <= m.cfg.MaxAttempts; attempt++ {
		entry := m.logJobStart(name, attempt)
		started := time.Now()

		message, err := m.runOnce(job)
		if err == nil {
			m.logJobComplete(entry, started, message)
			return
		}
		m.logJobError(entry, started, err)

		if IsPermanent(err) || attempt == m.cfg.MaxAttempts {
			m.log.Error().Err(err).Str("job", name).Int("attempts", attempt).Msg("job failed")
			return
		}

		delay := m.cfg.Backoff << (attempt - 1)
		select {
		case <-time.After(delay):
		case <-m.ctx.Done():
			m.log.Warn().Str("job", name).Msg("retry abandoned on shutdown")
			return
		}
	}
}

func (m *CronManager) runOnce(job Job) (message string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Run(m.ctx)
}

func (m *CronManager) acquireLock(name string) bool {
	if m.locks == nil {
		return true
	}
	ok, err := m.locks.SetNX(m.ctx, lockKey(name), time.Now().Unix(), m.cfg.LockTTL)
	if err != nil {
		// Redis trouble should not stop the job from running.
		m.log.Warn().Err(err).Str("job", name).Msg("failed to acquire job lock")
		return true
	}
	return ok
}

func (m *CronManager) releaseLock(name string) {
	if m.locks == nil {
		return
	}
	if err := m.locks.Delete(context.Background(), lockKey(name)); err != nil {
		m.log.Warn().Err(err).Str("job", name).Msg("failed to release job lock")
	}
}

func lockKey(name string) string {
	return "cron:lock:" + name
}

// logJobStart records a running attempt and returns its log row
func (m *CronManager) logJobStart(jobName string, attempt int) *model.CronJobLog {
	m.log.Info().Str("job", jobName).Int("attempt", attempt).Msg("starting job")

	metadata, _ := json.Marshal(map[string]int{
		"attempt":      attempt,
		"max_attempts": m.cfg.MaxAttempts,
	})
	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.JobStatusRunning,
		Attempt:   attempt,
		StartedAt: time.Now(),
		Metadata:  datatypes.JSON(metadata),
	}
	if err := m.db.Create(entry).Error; err != nil {
		m.log.Error().Err(err).Str("job", jobName).Msg("failed to record job start")
	}
	return entry
}

// logJobComplete marks the attempt completed
func (m *CronManager) logJobComplete(entry *model.CronJobLog, started time.Time, message string) {
	m.log.Info().Str("job", entry.JobName).Str("result", message).Dur("took", time.Since(started)).Msg("completed job")
	m.finish(entry, started, map[string]interface{}{
		"status":  model.JobStatusCompleted,
		"message": message,
	})
}

// logJobError marks the attempt failed
func (m *CronManager) logJobError(entry *model.CronJobLog, started time.Time, err error) {
	m.log.Error().Err(err).Str("job", entry.JobName).Int("attempt", entry.Attempt).Msg("error in job")
	m.finish(entry, started, map[string]interface{}{
		"status":    model.JobStatusFailed,
		"error_msg": err.Error(),
	})
}

func (m *CronManager) finish(entry *model.CronJobLog, started time.Time, fields map[string]interface{}) {
	if entry.ID == 0 {
		return
	}
	now := time.Now()
	fields["completed_at"] = now
	fields["duration"] = now.Sub(started).Milliseconds()

	if err := m.db.Model(&model.CronJobLog{}).Where("id = ?", entry.ID).Updates(fields).Error; err != nil {
		m.log.Error().Err(err).Str("job", entry.JobName).Msg("failed to record job result")
	}
}
