package enrollment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"retailenroll/infrastructure/audit"
	"retailenroll/infrastructure/flow"
	"retailenroll/infrastructure/sqlite"
	"retailenroll/infrastructure/submission"
	"retailenroll/models"
)

func openLedgerDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func latestSubmissionRuns(t *testing.T, db *sqlite.DB, limit int) []models.SubmissionRun {
	t.Helper()
	rows := make([]models.SubmissionRun, 0)
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&rows).OrderExpr("submitted_at DESC, id ASC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Scan(ctx)
	})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	return rows
}

func TestLedgerRecordsSubmissionRuns(t *testing.T) {
	db := openLedgerDB(t)
	auditSvc := audit.NewService()
	l := NewLedger(db, auditSvc)
	base := time.Date(2025, 12, 5, 9, 30, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	rec := submission.Record{
		OutletName:  "Sri Ram Stores",
		LapuNo:      "9123456780",
		Tier:        "gold",
		TotalAmount: "3,750",
		UpdateType:  submission.UpdateSubmitData,
	}
	if err := l.RecordSubmission(context.Background(), "sess-1", rec, 0, errors.New("status 502")); err != nil {
		t.Fatalf("record failed run: %v", err)
	}

	l.now = func() time.Time { return base.Add(time.Minute) }
	rec.UpdateType = submission.UpdateFinalWithPhoto
	rec.Latitude, rec.Longitude, rec.GeoSource = "19.076000", "72.877700", "Device GPS"
	if err := l.RecordSubmission(context.Background(), "sess-1", rec, 48213, nil); err != nil {
		t.Fatalf("record ok run: %v", err)
	}

	runs := latestSubmissionRuns(t, db, 0)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	latest := runs[0]
	if latest.UpdateType != "FINAL_WITH_PHOTO" || latest.Status != models.SubmissionStatusOK || latest.PhotoBytes != 48213 {
		t.Fatalf("unexpected latest run: %+v", latest)
	}
	if runs[1].Status != models.SubmissionStatusFailed || runs[1].Error != "status 502" {
		t.Fatalf("expected failed run with error, got %+v", runs[1])
	}

	if limited := latestSubmissionRuns(t, db, 1); len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestLedgerRecordsClickHistory(t *testing.T) {
	db := openLedgerDB(t)
	auditSvc := audit.NewService()
	l := NewLedger(db, auditSvc)

	ist := time.FixedZone("IST", 5*3600+1800)
	lat, lon := 19.076, 72.8777
	click := flow.NewClickLog(time.Date(2025, 12, 5, 9, 30, 15, 0, time.UTC), ist, &lat, &lon)
	if err := l.RecordAction(context.Background(), "sess-2", flow.StepPDF, click); err != nil {
		t.Fatalf("record action: %v", err)
	}
	if err := l.RecordAction(context.Background(), "sess-other", flow.StepPDF, click); err != nil {
		t.Fatalf("record action: %v", err)
	}

	history, err := SessionHistory(context.Background(), db, auditSvc, "sess-2")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one entry for session, got %d", len(history))
	}
	h := history[0]
	if h.Action != "click_pdf" || h.EntityID != "pdf" {
		t.Fatalf("unexpected audit entry: %+v", h)
	}
	want := `{"latitude":"19.076000","longitude":"72.877700","time":"05/12/25, 3:00:15 pm"}`
	if h.AfterJSON != want {
		t.Fatalf("after json = %s, want %s", h.AfterJSON, want)
	}
}
