// File: internal/jobs/session_refresh.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"quran_app_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionRefresher is the gateway operation the job invokes.
type SessionRefresher interface {
	RefreshSession(ctx context.Context) error
}

// SessionRefreshJob periodically exchanges the persisted refresh token for a
// fresh credential while a session is active. A provider rejection during a
// run tears the session down through the gateway, the same as any other
// session-change event.
type SessionRefreshJob struct {
	refresher     SessionRefresher
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewSessionRefreshJob creates a new SessionRefreshJob.
func NewSessionRefreshJob(
	refresher SessionRefresher,
	logger *zap.Logger,
	cfg *config.Config,
) *SessionRefreshJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &SessionRefreshJob{
		refresher:     refresher,
		logger:        logger.Named("SessionRefreshJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *SessionRefreshJob) SetupAndStart() error {
	jobSpec := j.cfg.SessionRefreshJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Session refresh job schedule not defined (SESSION_REFRESH_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule session refresh job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Session refresh job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *SessionRefreshJob) runJob() {
	j.logger.Debug("Starting session refresh run...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.refresher.RefreshSession(ctx); err != nil {
		j.logger.Warn("Session refresh run failed", zap.Error(err))
		return
	}
	j.logger.Debug("Session refresh run completed")
}

// Stop gracefully stops the cron scheduler.
func (j *SessionRefreshJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping session refresh job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Session refresh job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Session refresh job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
