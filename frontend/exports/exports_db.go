package exports

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"

	"retailenroll/infrastructure/audit"
	"retailenroll/infrastructure/sqlite"
	"retailenroll/models"
)

const submissionsSheet = "Submissions"

var submissionHeaders = []string{
	"Submitted At", "Update Type", "Outlet Name", "Lapu No", "Tier", "Total Amount",
	"Latitude", "Longitude", "Geo Source", "Photo Bytes", "Status", "Error", "Session", "Run ID",
}

func loadSubmissionRuns(ctx context.Context, db *sqlite.DB) ([]models.SubmissionRun, error) {
	rows := make([]models.SubmissionRun, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rows).OrderExpr("submitted_at ASC, id ASC").Scan(ctx)
	})
	return rows, err
}

// buildSubmissionsWorkbook lays the ledger out one run per row, times shown in loc.
func buildSubmissionsWorkbook(runs []models.SubmissionRun, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", submissionsSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	for i, h := range submissionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(submissionsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, r := range runs {
		row := i + 2
		values := []any{
			r.SubmittedAt.In(loc).Format("02/01/2006 15:04:05"),
			r.UpdateType, r.OutletName, r.LapuNo, r.Tier, r.TotalAmount,
			r.Latitude, r.Longitude, r.GeoSource, r.PhotoBytes, r.Status, r.Error, r.SessionID, r.ID,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(submissionsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(submissionsSheet, "A", "A", 20)
	_ = f.SetColWidth(submissionsSheet, "B", "B", 18)
	_ = f.SetColWidth(submissionsSheet, "C", "C", 28)
	_ = f.SetColWidth(submissionsSheet, "D", "F", 14)
	_ = f.SetColWidth(submissionsSheet, "G", "I", 14)
	_ = f.SetColWidth(submissionsSheet, "L", "L", 40)
	_ = f.SetColWidth(submissionsSheet, "M", "N", 38)
	_ = f.SetPanes(submissionsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func recordExportRun(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rows int) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return auditSvc.Write(ctx, tx, audit.Entry{
			SessionID:  "operator",
			Action:     "export_submissions",
			EntityType: "export",
			EntityID:   "submissions.xlsx",
			After:      map[string]int{"rows": rows},
		})
	})
}
