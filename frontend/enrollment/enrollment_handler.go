package enrollment

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sessioncontext "retailenroll/frontend/shared/context"
	"retailenroll/infrastructure/argon"
	"retailenroll/infrastructure/audit"
	enrollinfra "retailenroll/infrastructure/enrollment"
	"retailenroll/infrastructure/geo"
	"retailenroll/infrastructure/photo"
	"retailenroll/infrastructure/sqlite"
	"retailenroll/infrastructure/validation"
	"retailenroll/models"
)

const (
	msgPDFDone    = "PDF Downloaded! Now click Submit to continue."
	msgSubmitDone = "Data submitted! Now capture photo."
	msgPhotoDone  = "Photo captured successfully! Flow complete."
	msgBridgeFix  = "Real GPS captured successfully!"
	msgNoSession  = "Session expired. Please reload the page."
	msgUnexpected = "Something went wrong. Please try again."

	BridgeKeyHeader = "X-Bridge-Key"
)

// PageQueryHandler renders the enrollment form for the current session.
func PageQueryHandler(period string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := EnrollmentPage(PageData{Period: period, State: s.Snapshot(), Fields: validation.Fields}).Render(r.Context(), w); err != nil {
			slog.Error("render enrollment page failed", slog.String("session", s.ID), slog.Any("err", err))
			http.Error(w, "failed to render enrollment page", http.StatusInternalServerError)
			return
		}
	}
}

// StateQueryHandler returns the derived state plus the last host bridge fix.
func StateQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionOrFail(w, r)
		if !ok {
			return
		}
		resp := StateResponse{OK: true, State: s.Snapshot()}
		if last, ok := s.Bridge.Last(); ok {
			resp.Bridge = enrollinfra.NewLocationView(&last)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// UpdateFieldCommandHandler stores one field (key, value) or the tier.
func UpdateFieldCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionOrFail(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			writeToast(w, http.StatusBadRequest, "warning", "Invalid form data", s)
			return
		}

		if _, has := r.PostForm["tier"]; has {
			tier, err := models.ParseTier(r.PostFormValue("tier"))
			if err != nil {
				writeToast(w, http.StatusUnprocessableEntity, "warning", validation.TierRequiredMessage, s)
				return
			}
			s.SetTier(tier)
			writeJSON(w, http.StatusOK, StateResponse{OK: true, State: s.Snapshot()})
			return
		}

		update, err := s.UpdateField(models.FieldKey(strings.TrimSpace(r.PostFormValue("key"))), r.PostFormValue("value"))
		if err != nil {
			writeActionError(w, s, err)
			return
		}
		writeJSON(w, http.StatusOK, StateResponse{OK: true, Field: &update, State: s.Snapshot()})
	}
}

// DownloadPDFCommandHandler returns the rendered sheet as an attachment.
func DownloadPDFCommandHandler(ctrl *enrollinfra.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionOrFail(w, r)
		if !ok {
			return
		}
		out, err := ctrl.DownloadPDF(r.Context(), s, clientFix(r))
		if err != nil {
			writeActionError(w, s, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(out.Bytes)))
		w.Header().Set("X-Document-ID", out.DocID)
		w.Header().Set("X-Toast-Type", "success")
		w.Header().Set("X-Toast-Message", msgPDFDone)
		if _, err := w.Write(out.Bytes); err != nil {
			slog.Warn("write pdf response failed", slog.String("session", s.ID), slog.Any("err", err))
		}
	}
}

// SubmitCommandHandler sends the interim record.
func SubmitCommandHandler(ctrl *enrollinfra.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionOrFail(w, r)
		if !ok {
			return
		}
		if _, err := ctrl.Submit(r.Context(), s, clientFix(r)); err != nil {
			writeActionError(w, s, err)
			return
		}
		writeToast(w, http.StatusOK, "success", msgSubmitDone, s)
	}
}

// CapturePhotoCommandHandler accepts the multipart "photo" part and sends the final record.
func CapturePhotoCommandHandler(ctrl *enrollinfra.Controller, maxBytes int64) http.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = photo.DefaultMaxBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionOrFail(w, r)
		if !ok {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			writeActionError(w, s, &enrollinfra.ActionError{Kind: enrollinfra.KindAssetRead, Message: "Error reading image file", Err: err})
			return
		}
		file, header, err := r.FormFile("photo")
		if err != nil {
			writeActionError(w, s, &enrollinfra.ActionError{Kind: enrollinfra.KindAssetRead, Message: "Error reading image file", Err: err})
			return
		}
		defer file.Close()

		res, err := ctrl.CapturePhoto(r.Context(), s, clientFix(r), enrollinfra.Upload{File: file, Header: header})
		if err != nil {
			writeActionError(w, s, err)
			return
		}
		resp := StateResponse{OK: true, Toast: &Toast{Type: "success", Message: msgPhotoDone}, State: s.Snapshot()}
		if res.Notice != nil {
			resp.Notice = &Toast{Type: res.Notice.Toast(), Message: res.Notice.Message}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// PhotoPreviewQueryHandler returns the stored photo with its location stamp.
func PhotoPreviewQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionOrFail(w, r)
		if !ok {
			return
		}
		p := s.Photo()
		if p == nil {
			http.Error(w, "no photo captured", http.StatusNotFound)
			return
		}
		out, err := photo.Preview(*p, previewLines(s.Location(), p.Timestamp))
		if err != nil {
			slog.Error("photo preview failed", slog.String("session", s.ID), slog.Any("err", err))
			http.Error(w, "failed to render preview", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(out)
	}
}

// HistoryQueryHandler lists the click logs and delivery outcomes recorded
// for the caller's session, oldest first.
func HistoryQueryHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionOrFail(w, r)
		if !ok {
			return
		}
		rows, err := SessionHistory(r.Context(), db, auditSvc, s.ID)
		if err != nil {
			slog.Error("load session history failed", slog.String("session", s.ID), slog.Any("err", err))
			writeToast(w, http.StatusInternalServerError, "error", msgUnexpected, s)
			return
		}
		out := make([]HistoryEntry, 0, len(rows))
		for _, row := range rows {
			e := HistoryEntry{Action: row.Action, Entity: row.EntityType, EntityID: row.EntityID, At: row.CreatedAt.UTC().Format(time.RFC3339)}
			if row.AfterJSON != "" {
				e.Details = json.RawMessage(row.AfterJSON)
			}
			out = append(out, e)
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "history": out})
	}
}

// BridgeLocationCommandHandler stores a fix pushed by a host app wrapping the page.
func BridgeLocationCommandHandler(bridgeKey argon.KeyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionOrFail(w, r)
		if !ok {
			return
		}
		if bridgeKey.Enabled() && !bridgeKey.Allow(r.Header.Get(BridgeKeyHeader)) {
			http.Error(w, "invalid bridge key", http.StatusForbidden)
			return
		}

		var fix BridgeFix
		if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&fix); err != nil {
			writeToast(w, http.StatusBadRequest, "warning", "Invalid location payload", s)
			return
		}
		if fix.Latitude == nil || fix.Longitude == nil {
			writeToast(w, http.StatusBadRequest, "warning", "Latitude and longitude are required", s)
			return
		}
		reading, err := s.Bridge.Push(*fix.Latitude, *fix.Longitude, fix.Accuracy)
		if err != nil {
			writeToast(w, http.StatusUnprocessableEntity, "warning", "Location is out of range", s)
			return
		}
		s.SetLocation(&reading)
		slog.Info("host bridge fix stored", slog.String("session", s.ID), slog.String("coords", reading.Display()))

		writeJSON(w, http.StatusOK, StateResponse{
			OK:     true,
			Toast:  &Toast{Type: "success", Message: msgBridgeFix},
			Bridge: enrollinfra.NewLocationView(&reading),
			State:  s.Snapshot(),
		})
	}
}

func sessionOrFail(w http.ResponseWriter, r *http.Request) (*enrollinfra.Session, bool) {
	s, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "toast": Toast{Type: "error", Message: msgNoSession}})
		return nil, false
	}
	return s, true
}

// clientFix reads the position the page attached to an action.
func clientFix(r *http.Request) geo.Sensor {
	return geo.ParseClientFix(r.FormValue("lat"), r.FormValue("long"), r.FormValue("accuracy"), r.FormValue("geo_error"))
}

func previewLines(loc *geo.Reading, timestamp string) []string {
	lines := make([]string, 0, 3)
	if loc == nil {
		lines = append(lines, "Location not captured")
	} else {
		lines = append(lines, loc.Display())
		src := loc.Source.Label()
		if acc := loc.AccuracyString(); acc != "" {
			src += " ±" + acc
		}
		lines = append(lines, src)
	}
	if timestamp != "" {
		lines = append(lines, timestamp)
	}
	return lines
}

func statusFor(kind enrollinfra.Kind) int {
	switch kind {
	case enrollinfra.KindLocked:
		return http.StatusConflict
	case enrollinfra.KindValidation:
		return http.StatusUnprocessableEntity
	case enrollinfra.KindAssetRead:
		return http.StatusBadRequest
	case enrollinfra.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeActionError(w http.ResponseWriter, s *enrollinfra.Session, err error) {
	ae, ok := enrollinfra.AsActionError(err)
	if !ok {
		slog.Error("enrollment action failed", slog.String("session", s.ID), slog.Any("err", err))
		writeToast(w, http.StatusInternalServerError, "error", msgUnexpected, s)
		return
	}
	if ae.Kind != enrollinfra.KindLocked {
		slog.Warn("enrollment action rejected", slog.String("session", s.ID), slog.String("kind", string(ae.Kind)), slog.Any("err", ae.Err))
	}
	writeToast(w, statusFor(ae.Kind), ae.Toast(), ae.Message, s)
}

func writeToast(w http.ResponseWriter, status int, kind, message string, s *enrollinfra.Session) {
	writeJSON(w, status, StateResponse{
		OK:    status < http.StatusBadRequest,
		Toast: &Toast{Type: kind, Message: message},
		State: s.Snapshot(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write json response failed", slog.Any("err", err))
	}
}
