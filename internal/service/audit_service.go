package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psc-ict/opencourt-api/internal/models"
	"github.com/psc-ict/opencourt-api/pkg/jobs"
)

type auditLogWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditTrail persists audit entries through a background worker queue so
// request handling never waits on the audit write.
type AuditTrail struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditTrail wires the audit queue to the given store.
func NewAuditTrail(store auditLogWriter, workers int, logger *zap.Logger) *AuditTrail {
	if logger == nil {
		logger = zap.NewNop()
	}
	trail := &AuditTrail{logger: logger}
	trail.queue = jobs.NewQueue("audit", func(ctx context.Context, job jobs.Job) error {
		entry, ok := job.Payload.(*models.AuditLog)
		if !ok {
			return nil
		}
		return store.CreateAuditLog(ctx, entry)
	}, jobs.QueueConfig{Workers: workers, RetryDelay: 2 * time.Second, Logger: logger})
	return trail
}

// Start launches the background workers.
func (t *AuditTrail) Start(ctx context.Context) {
	t.queue.Start(ctx)
}

// Stop drains the workers.
func (t *AuditTrail) Stop() {
	t.queue.Stop()
}

// CreateAuditLog enqueues the entry. Audit writes are best effort; enqueue
// failures are logged, never surfaced to the caller.
func (t *AuditTrail) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	if log == nil {
		return nil
	}
	err := t.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    log.Action,
		Payload: log,
	})
	if err != nil {
		t.logger.Sugar().Warnw("failed to enqueue audit entry", "action", log.Action, "error", err)
	}
	return nil
}
