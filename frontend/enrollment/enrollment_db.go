package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"retailenroll/infrastructure/audit"
	"retailenroll/infrastructure/flow"
	"retailenroll/infrastructure/sqlite"
	"retailenroll/infrastructure/submission"
	"retailenroll/models"
)

// Ledger stores click logs and delivery attempts in SQLite. The photo payload
// itself is never written; only its size.
type Ledger struct {
	db    *sqlite.DB
	audit *audit.Service
	now   func() time.Time
}

func NewLedger(db *sqlite.DB, auditSvc *audit.Service) *Ledger {
	return &Ledger{db: db, audit: auditSvc, now: time.Now}
}

func (l *Ledger) RecordAction(ctx context.Context, sessionID string, step flow.Step, log flow.ClickLog) error {
	return l.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return l.audit.Write(ctx, tx, audit.Entry{
			SessionID:  sessionID,
			Action:     "click_" + step.String(),
			EntityType: "flow_step",
			EntityID:   step.String(),
			After: map[string]string{
				"time":      log.Time,
				"latitude":  log.Latitude,
				"longitude": log.Longitude,
			},
		})
	})
}

func (l *Ledger) RecordSubmission(ctx context.Context, sessionID string, rec submission.Record, photoBytes int, sendErr error) error {
	run := &models.SubmissionRun{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		UpdateType:  string(rec.UpdateType),
		OutletName:  rec.OutletName,
		LapuNo:      rec.LapuNo,
		Tier:        rec.Tier,
		TotalAmount: rec.TotalAmount,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		GeoSource:   rec.GeoSource,
		PhotoBytes:  int64(photoBytes),
		Status:      models.SubmissionStatusOK,
		SubmittedAt: l.now().UTC(),
	}
	run.CreatedAt = run.SubmittedAt
	action := "submission_sent"
	if sendErr != nil {
		run.Status = models.SubmissionStatusFailed
		run.Error = sendErr.Error()
		action = "submission_failed"
	}

	return l.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(run).Exec(ctx); err != nil {
			return fmt.Errorf("insert submission run: %w", err)
		}
		return l.audit.Write(ctx, tx, audit.Entry{
			SessionID:  sessionID,
			Action:     action,
			EntityType: "submission_run",
			EntityID:   run.ID,
			After: map[string]string{
				"updateType":  run.UpdateType,
				"outletName":  run.OutletName,
				"totalAmount": run.TotalAmount,
				"status":      run.Status,
			},
		})
	})
}

// SessionHistory lists the audit trail of one enrollment session.
func SessionHistory(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, sessionID string) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		rows, err = auditSvc.ForSession(ctx, tx, sessionID)
		return err
	})
	return rows, err
}
