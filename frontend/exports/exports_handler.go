package exports

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"retailenroll/infrastructure/argon"
	"retailenroll/infrastructure/audit"
	"retailenroll/infrastructure/sqlite"
)

const OperatorKeyHeader = "X-Operator-Key"

// SubmissionsXLSXHandler downloads the submission ledger. It is hidden unless
// an operator key is configured; the key may also be sent as the basic-auth password.
func SubmissionsXLSXHandler(db *sqlite.DB, auditSvc *audit.Service, operatorKey argon.KeyCheck, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !operatorKey.Enabled() {
			http.NotFound(w, r)
			return
		}
		key := strings.TrimSpace(r.Header.Get(OperatorKeyHeader))
		if key == "" {
			_, key, _ = r.BasicAuth()
		}
		if !operatorKey.Allow(key) {
			w.Header().Set("WWW-Authenticate", `Basic realm="enrollment exports"`)
			http.Error(w, "operator key required", http.StatusUnauthorized)
			return
		}

		runs, err := loadSubmissionRuns(r.Context(), db)
		if err != nil {
			slog.Error("load submission runs failed", slog.Any("err", err))
			http.Error(w, "failed to load submissions", http.StatusInternalServerError)
			return
		}
		body, err := buildSubmissionsWorkbook(runs, loc)
		if err != nil {
			slog.Error("build submissions workbook failed", slog.Any("err", err))
			http.Error(w, "failed to export submissions", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=submissions.xlsx")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)

		if err := recordExportRun(r.Context(), db, auditSvc, len(runs)); err != nil {
			slog.Error("record export run failed", slog.String("type", "submissions_xlsx"), slog.Any("err", err))
		}
	}
}
